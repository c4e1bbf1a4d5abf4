package middleware

import (
	"context"
	"storefront_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
)

type adminGate interface {
	Require(ctx context.Context, principal *structs.Principal) error
}

type rateCounter interface {
	IncrementRateLimit(ctx context.Context, client, bucket string, window time.Duration) (int, error)
}

type Middleware struct {
	logger  *gecho.Logger
	cfg     *structs.Config
	gate    adminGate
	limiter rateCounter
	now     func() time.Time
}

func NewMiddleware(logger *gecho.Logger, cfg *structs.Config, gate adminGate, limiter rateCounter) *Middleware {
	return &Middleware{
		logger:  logger,
		cfg:     cfg,
		gate:    gate,
		limiter: limiter,
		now:     time.Now,
	}
}
