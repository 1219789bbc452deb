// Package cron runs named background jobs at fixed intervals.
package cron

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/coderhuBypassion/BriefBank/internal/pkg/logger"
	"go.uber.org/zap"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
)

// Job is a unit of periodic work.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// State is a snapshot of a job for reporting.
type State struct {
	Name      string     `json:"name"`
	Status    Status     `json:"status"`
	Message   string     `json:"message,omitempty"`
	LastRunAt *time.Time `json:"lastRunAt,omitempty"`
	NextRunAt time.Time  `json:"nextRunAt"`
}

type entry struct {
	Job
	mu    sync.Mutex
	state State
}

// Scheduler owns a set of jobs. Register every job before Start.
type Scheduler struct {
	mu   sync.RWMutex
	jobs map[string]*entry
	log  *zap.Logger
	now  func() time.Time
}

func New(log *zap.Logger) *Scheduler {
	return &Scheduler{
		jobs: make(map[string]*entry),
		log:  logger.OrNop(log).Named("cron"),
		now:  time.Now,
	}
}

func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name] = &entry{
		Job:   job,
		state: State{Name: job.Name, Status: StatusIdle, NextRunAt: s.now().Add(job.Interval)},
	}
}

// Start launches one loop per job; loops exit when ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.jobs {
		go s.loop(ctx, e)
	}
}

func (s *Scheduler) loop(ctx context.Context, e *entry) {
	timer := time.NewTimer(e.Interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.execute(ctx, e)
			timer.Reset(e.Interval)
		}
	}
}

// execute skips the run when the previous one is still going.
func (s *Scheduler) execute(ctx context.Context, e *entry) {
	e.mu.Lock()
	if e.state.Status == StatusRunning {
		e.mu.Unlock()
		return
	}
	e.state.Status = StatusRunning
	e.mu.Unlock()

	started := s.now()
	err := e.Fn(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.LastRunAt = &started
	e.state.NextRunAt = s.now().Add(e.Interval)
	if err != nil {
		e.state.Status, e.state.Message = StatusFailed, err.Error()
		s.log.Warn("job failed", zap.String("job", e.Name), zap.Error(err))
		return
	}
	e.state.Status, e.state.Message = StatusOK, ""
	s.log.Debug("job finished", zap.String("job", e.Name), zap.Duration("took", s.now().Sub(started)))
}

// Run executes a job synchronously, outside its schedule.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	s.mu.RLock()
	e, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q not found", name)
	}
	s.execute(ctx, e)
	return nil
}

// List returns job states ordered by name.
func (s *Scheduler) List() []State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]State, 0, len(s.jobs))
	for _, e := range s.jobs {
		e.mu.Lock()
		out = append(out, e.state)
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
