package service

import (
	redisx "github.com/cinetix/cinetix-go/internal/redis"
	postgres "github.com/cinetix/cinetix-go/internal/repository/postgres"
	redis "github.com/cinetix/cinetix-go/internal/repository/redis"
	"github.com/cinetix/cinetix-go/internal/service/booking"
	"github.com/cinetix/cinetix-go/internal/service/catalog"
	"github.com/cinetix/cinetix-go/internal/service/query"
)

type Services struct {
	Booking *booking.Service
	Catalog *catalog.Service
	Query   *query.Service
}

type Config struct {
	Booking booking.Config
	Catalog catalog.Config
	Query   query.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redisx.ShowtimesPubSub,
	limiter *redis.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Booking: booking.New(store, cache, pubsub, limiter, cfg.Booking),
		Catalog: catalog.New(store, cache, pubsub, cfg.Catalog),
		Query:   query.New(store, cache, cfg.Query),
	}
}
