package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/tropicaldog17/folio/internal/logger"
)

// Job is a unit of background work.
type Job interface {
	Run() error
	Name() string
}

// Scheduler runs named jobs on cron schedules. A job still running when its
// next tick fires is skipped for that tick.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger

	mu   sync.Mutex
	jobs map[string]cron.EntryID
}

// New creates a scheduler. Schedules use six fields, seconds first, or the
// cron descriptors ("@hourly", "@every 30s").
func New(log *zap.Logger) *Scheduler {
	l := logger.OrNop(log).Named("scheduler")
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger{l.Sugar()}),
			cron.WithChain(cron.Recover(cronLogger{l.Sugar()}), cron.SkipIfStillRunning(cronLogger{l.Sugar()})),
		),
		log:  l,
		jobs: make(map[string]cron.EntryID),
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop halts the schedule and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// AddJob registers job under its name. Names are unique.
func (s *Scheduler) AddJob(schedule string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.Name()]; ok {
		return fmt.Errorf("job %q already registered", job.Name())
	}
	id, err := s.cron.AddFunc(schedule, func() { _ = s.run(job, "schedule") })
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", job.Name(), err)
	}
	s.jobs[job.Name()] = id
	s.log.Info("job registered", zap.String("job", job.Name()), zap.String("schedule", schedule))
	return nil
}

// RunNow runs job once outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	return s.run(job, "manual")
}

func (s *Scheduler) run(job Job, trigger string) error {
	start := time.Now()
	err := job.Run()
	fields := []zap.Field{
		zap.String("job", job.Name()),
		zap.String("trigger", trigger),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		s.log.Error("job failed", append(fields, zap.Error(err))...)
		return err
	}
	s.log.Debug("job completed", fields...)
	return nil
}

// cronLogger routes cron's own messages into zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
