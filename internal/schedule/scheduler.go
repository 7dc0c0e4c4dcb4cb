package schedule

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Job is a named unit of periodic work, like the reminder scan.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// CronScheduler drives jobs on standard five-field cron expressions.
type CronScheduler struct {
	cron *cron.Cron
	ctx  context.Context
}

func NewCronScheduler() *CronScheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &CronScheduler{cron: cron.New(cron.WithParser(parser))}
}

func (s *CronScheduler) AddJob(job Job, spec string) error {
	if _, err := s.cron.AddFunc(spec, s.guarded(job)); err != nil {
		return err
	}
	logutil.GetLogger(context.Background()).Info("scheduled job",
		zap.String("job", job.Name()), zap.String("cron", spec))
	return nil
}

func (s *CronScheduler) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx = ctx
	s.cron.Start()
}

// Stop waits for any in-flight run to finish.
func (s *CronScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// guarded serializes runs of a single job: a tick that fires while the
// previous run is still going is dropped, not queued.
func (s *CronScheduler) guarded(job Job) func() {
	var inFlight atomic.Bool
	return func() {
		if !inFlight.CompareAndSwap(false, true) {
			logutil.GetLogger(context.Background()).Warn("tick dropped, previous run still going",
				zap.String("job", job.Name()))
			return
		}
		defer inFlight.Store(false)

		ctx := s.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		logger := logutil.GetLogger(ctx).With(zap.String("job", job.Name()))
		start := time.Now()
		if err := job.Run(ctx); err != nil {
			logger.Error("job run failed", zap.Error(err), zap.Duration("took", time.Since(start)))
			return
		}
		logger.Info("job run completed", zap.Duration("took", time.Since(start)))
	}
}
