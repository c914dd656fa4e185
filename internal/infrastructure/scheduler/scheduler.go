// Package scheduler runs periodic background jobs, such as pre-warming the
// achievement report cache before instructors open their dashboards.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/competencias-hub/seguimiento/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Job is a unit of periodic work.
type Job interface {
	// Name returns the unique name of the job.
	Name() string

	// Run executes the job. The context is cancelled when the scheduler
	// is stopping.
	Run(ctx context.Context) error
}

// Schedule decides when a job runs next.
type Schedule interface {
	// Next returns the next run time after t.
	Next(t time.Time) time.Time

	// String returns a human-readable representation of the schedule.
	String() string
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

var (
	ErrAlreadyRunning = errors.New("scheduler is already running")
	ErrNotRunning     = errors.New("scheduler is not running")
)

// Scheduler manages and executes registered jobs.
type Scheduler struct {
	mu sync.Mutex

	log  *logger.Logger
	jobs []*scheduledJob

	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

type scheduledJob struct {
	job      Job
	schedule Schedule
	nextRun  time.Time
}

// New creates a scheduler. A nil logger falls back to the default one.
func New(log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Default()
	}
	return &Scheduler{log: log}
}

// Register adds a job with its schedule. Job names must be unique.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sj := range s.jobs {
		if sj.job.Name() == job.Name() {
			return fmt.Errorf("job %q is already registered", job.Name())
		}
	}

	sj := &scheduledJob{
		job:      job,
		schedule: schedule,
		nextRun:  schedule.Next(time.Now()),
	}
	s.jobs = append(s.jobs, sj)

	s.log.Info("job registered",
		logger.String("job", job.Name()),
		logger.String("schedule", schedule.String()),
	)
	return nil
}

// Start begins the scheduling loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.log.Info("scheduler started", logger.Int("jobs", len(s.jobs)))
	return nil
}

// Stop stops the loop and waits for any running job to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.runDue(ctx, now)
		}
	}
}

func (s *Scheduler) runDue(ctx context.Context, now time.Time) {
	s.mu.Lock()
	due := make([]*scheduledJob, 0)
	for _, sj := range s.jobs {
		if now.After(sj.nextRun) {
			sj.nextRun = sj.schedule.Next(now)
			due = append(due, sj)
		}
	}
	s.mu.Unlock()

	for _, sj := range due {
		s.runJob(ctx, sj.job)
	}
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	started := time.Now()

	if err := job.Run(ctx); err != nil {
		s.log.Warn("job failed",
			logger.String("job", job.Name()),
			logger.Duration("duration", time.Since(started)),
			logger.Err(err),
		)
		return
	}

	s.log.Debug("job completed",
		logger.String("job", job.Name()),
		logger.Duration("duration", time.Since(started)),
	)
}
