package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	assert.Equal(t, int64(5), toInt(int64(5)))
	assert.Equal(t, int64(5), toInt(5))
	assert.Equal(t, int64(5), toInt(5.0))
	assert.Equal(t, int64(5), toInt("5"))
	assert.Equal(t, int64(0), toInt(nil))
	assert.Equal(t, int64(0), toInt(struct{}{}))
}

func TestRandomHex(t *testing.T) {
	a := randomHex(16)
	b := randomHex(16)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestKeyIdemReservation(t *testing.T) {
	assert.Equal(t, "cinetix:v1:idem:reservations:9:abc", KeyIdemReservation(9, "abc"))
}
