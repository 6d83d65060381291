// Package worker runs scheduled housekeeping for the store.
package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type OrderExpirer interface {
	ExpireStale(ctx context.Context, cutoff time.Time) ([]int64, error)
}

// Sweeper expires unpaid card orders whose hosted payment window has closed, so the
// stock they reserved goes back on sale.
type Sweeper struct {
	orders  OrderExpirer
	maxAge  time.Duration
	logger  *zap.Logger
	now     func() time.Time
	timeout time.Duration
}

func NewSweeper(orders OrderExpirer, maxAge time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		orders:  orders,
		maxAge:  maxAge,
		logger:  logger,
		now:     time.Now,
		timeout: 5 * time.Minute,
	}
}

// Run performs one sweep and returns how many orders were expired.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.maxAge)
	ids, err := s.orders.ExpireStale(ctx, cutoff)
	if len(ids) > 0 {
		s.logger.Info("expired unpaid orders", zap.Int64s("order_ids", ids), zap.Time("cutoff", cutoff))
	}
	if err != nil {
		s.logger.Error("order sweep failed", zap.Error(err), zap.Int("expired", len(ids)))
		return len(ids), err
	}
	return len(ids), nil
}

// Start schedules the sweeper on a new cron runner and starts it. Callers stop it
// with Stop() on shutdown.
func Start(schedule string, s *Sweeper) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		_, _ = s.Run(ctx)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
