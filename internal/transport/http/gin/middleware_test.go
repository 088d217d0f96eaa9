package httpgin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetix/cinetix-go/internal/domain"
)

func identityEcho() (*gin.Engine, *domain.Identity) {
	var captured domain.Identity

	r := gin.New()
	r.Use(IdentityMiddleware())
	r.GET("/user", RequireAuth(), func(c *gin.Context) {
		captured, _ = identityFrom(c)
		c.Status(http.StatusOK)
	})
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r, &captured
}

func TestIdentityMiddleware(t *testing.T) {
	r, captured := identityEcho()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("X-User-ID", "42")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), captured.UserID)
	assert.Equal(t, domain.RoleUser, captured.Role)
	assert.False(t, captured.IsAdmin())
}

func TestIdentityMiddlewareAdminRole(t *testing.T) {
	r, captured := identityEcho()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("X-User-ID", "7")
	req.Header.Set("X-User-Role", "admin")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, captured.IsAdmin())
}

func TestRequireAuth(t *testing.T) {
	r, _ := identityEcho()

	tests := []struct {
		name   string
		userID string
		want   int
	}{
		{name: "missing header", userID: "", want: http.StatusUnauthorized},
		{name: "garbage header", userID: "abc", want: http.StatusUnauthorized},
		{name: "non-positive id", userID: "0", want: http.StatusUnauthorized},
		{name: "valid id", userID: "5", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/user", nil)
			if tt.userID != "" {
				req.Header.Set("X-User-ID", tt.userID)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	r, _ := identityEcho()

	tests := []struct {
		name   string
		userID string
		role   string
		want   int
	}{
		{name: "anonymous", want: http.StatusUnauthorized},
		{name: "regular user", userID: "5", want: http.StatusForbidden},
		{name: "bogus role", userID: "5", role: "root", want: http.StatusForbidden},
		{name: "admin", userID: "5", role: "admin", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.userID != "" {
				req.Header.Set("X-User-ID", tt.userID)
			}
			if tt.role != "" {
				req.Header.Set("X-User-Role", tt.role)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestWriteJSONWithCacheETag(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, gin.H{"hello": "world"}, "public, max-age=60", true)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)
	assert.Equal(t, "public, max-age=60", w.Header().Get("Cache-Control"))

	// replay with the tag gets a 304 and no body
	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", tag)
	r.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusNotModified, w2.Code)
	assert.Empty(t, w2.Body.Bytes())
}
