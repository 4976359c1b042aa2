// Package jobs runs the storefront's housekeeping on a cron schedule.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Skotchmaster/storefront/internal/models"
)

const jobTimeout = 30 * time.Second

// Evicter drops idle visitor state.
type Evicter interface {
	Evict(idle time.Duration) int
	Len() int
}

// Purger is implemented by session backends without native expiry.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type ProductLister interface {
	List(ctx context.Context) ([]models.Product, error)
}

type Reindexer interface {
	Replace(ctx context.Context, products []models.Product) error
}

type Config struct {
	VisitorIdle time.Duration
	Visitors    Evicter
	// Sessions and Index are optional.
	Sessions Purger
	Products ProductLister
	Index    Reindexer
}

type Scheduler struct {
	cron *cron.Cron
	cfg  Config
	log  *slog.Logger
}

func NewScheduler(cfg Config, log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		cfg:  cfg,
		log:  log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 * * * * *", s.EvictVisitors); err != nil {
		return err
	}
	if s.cfg.Sessions != nil {
		if _, err := s.cron.AddFunc("0 */10 * * * *", s.PurgeSessions); err != nil {
			return err
		}
	}
	if s.cfg.Index != nil && s.cfg.Products != nil {
		if _, err := s.cron.AddFunc("0 */15 * * * *", s.ReindexProducts); err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs, at most until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("jobs_stop_timeout")
	}
}

func (s *Scheduler) EvictVisitors() {
	if s.cfg.Visitors == nil {
		return
	}
	if n := s.cfg.Visitors.Evict(s.cfg.VisitorIdle); n > 0 {
		s.log.Info("visitors_evicted", "count", n, "active", s.cfg.Visitors.Len())
	}
}

func (s *Scheduler) PurgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.cfg.Sessions.PurgeExpired(ctx)
	if err != nil {
		s.log.Error("sessions_purge_failed", "error", err)
		return
	}
	if n > 0 {
		s.log.Info("sessions_purged", "count", n)
	}
}

func (s *Scheduler) ReindexProducts() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	products, err := s.cfg.Products.List(ctx)
	if err != nil {
		s.log.Error("reindex_list_failed", "error", err)
		return
	}
	if err := s.cfg.Index.Replace(ctx, products); err != nil {
		s.log.Error("reindex_failed", "error", err)
	}
}
