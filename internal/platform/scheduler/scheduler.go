package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/subwise/subtrack/internal/app/service/dispatch"
	"github.com/subwise/subtrack/internal/app/service/reminder"
	"github.com/subwise/subtrack/internal/app/service/renewal"
	"github.com/subwise/subtrack/pkg/config"
)

// Scheduler runs the periodic engine passes in-process. The HTTP batch
// trigger drives the same services; both paths are safe to overlap because
// every pass is idempotent.
type Scheduler struct {
	cron       *cron.Cron
	cfg        *config.Config
	advancer   *renewal.Service
	reconciler *reminder.Service
	dispatcher *dispatch.Service
	log        *zap.SugaredLogger
}

func New(cfg *config.Config, adv *renewal.Service, recon *reminder.Service, disp *dispatch.Service, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		cfg:        cfg,
		advancer:   adv,
		reconciler: recon,
		dispatcher: disp,
		log:        log,
	}
}

func (s *Scheduler) Start() error {
	if spec := s.cfg.Engine.AdvanceSpec; spec != "" {
		if _, err := s.cron.AddFunc(spec, s.runAdvance); err != nil {
			return err
		}
	}
	if spec := s.cfg.Engine.DispatchSpec; spec != "" {
		if _, err := s.cron.AddFunc(spec, s.runDispatch); err != nil {
			return err
		}
	}
	s.cron.Start()
	s.log.Infow("scheduler started", "advance_spec", s.cfg.Engine.AdvanceSpec, "dispatch_spec", s.cfg.Engine.DispatchSpec)
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runAdvance() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	now := time.Now()
	advRes, err := s.advancer.AdvanceOverdue(ctx, "", now)
	if err != nil {
		s.log.Errorw("scheduled advancement pass failed", "err", err)
		return
	}
	backRes, err := s.reconciler.Backfill(ctx, "", now)
	if err != nil {
		s.log.Errorw("scheduled backfill pass failed", "err", err)
		return
	}
	s.log.Infow("advancement pass completed",
		"scanned", advRes.Scanned,
		"advanced", advRes.Advanced,
		"backfilled", backRes.Created,
		"item_errors", len(advRes.Errors)+len(backRes.Errors),
	)
}

func (s *Scheduler) runDispatch() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	res, err := s.dispatcher.Run(ctx, time.Now())
	if err != nil {
		s.log.Errorw("scheduled dispatch pass failed", "err", err)
		return
	}
	s.log.Infow("dispatch pass completed",
		"due", res.Due,
		"dispatched", res.Dispatched,
		"suppressed", res.Suppressed,
		"item_errors", len(res.Errors),
	)
}

func register(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return s.Start() },
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(register),
)
