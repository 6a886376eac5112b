package workerpool

import (
	"context"
	"errors"
	"time"

	"github.com/signme/signme-backend/internal/domain/types"
	"github.com/signme/signme-backend/pkg/metrics"
)

// Guard runs store calls through a shared pool with a per-call deadline.
// Timeouts surface as types.ErrStoreTimeout so callers never see a raw
// context error from the storage layer.
type Guard struct {
	pool    *Pool
	service string
	timeout time.Duration
}

func NewGuard(pool *Pool, service string, timeout time.Duration) *Guard {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Guard{
		pool:    pool,
		service: service,
		timeout: timeout,
	}
}

// Run executes fn on the pool under the guard's deadline and records the
// query metric for the given operation name.
func (g *Guard) Run(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	err := g.pool.Do(callCtx, fn)
	metrics.RecordDatabaseQuery(g.service, operation, err, time.Since(start))

	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return types.ErrStoreTimeout
	}
	return err
}
