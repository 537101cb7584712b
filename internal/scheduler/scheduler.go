package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"newsreel/internal/logger"
	"newsreel/internal/state"
)

// HistoryResetter is the periodic history-clear dependency.
type HistoryResetter interface {
	Reset() error
}

// PostRunner is one full posting cycle.
type PostRunner interface {
	RunOnce(ctx context.Context) error
}

// Scheduler drives the two periodic jobs: the post cycle and the daily
// history reset. A single-slot lock guards the post cycle so a slow run
// cannot overlap the next tick.
type Scheduler struct {
	cron    *cron.Cron
	runner  PostRunner
	history HistoryResetter
	flag    *state.File

	postID  cron.EntryID
	resetID cron.EntryID

	running sync.Mutex // held while a post cycle executes

	active int
	mu     sync.Mutex
}

func New(runner PostRunner, history HistoryResetter, flag *state.File) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		runner:  runner,
		history: history,
		flag:    flag,
	}
}

// Start registers both jobs and starts the cron loop.
func (s *Scheduler) Start(postSpec, resetSpec string) error {
	id, err := s.cron.AddFunc(postSpec, s.postJob)
	if err != nil {
		return err
	}
	s.postID = id

	id, err = s.cron.AddFunc(resetSpec, s.resetJob)
	if err != nil {
		return err
	}
	s.resetID = id

	s.cron.Start()
	logger.Info("scheduler started", "post_spec", postSpec, "reset_spec", resetSpec)
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// NextRun returns the next scheduled post time, zero before Start.
func (s *Scheduler) NextRun() time.Time {
	entry := s.cron.Entry(s.postID)
	return entry.Next
}

// ActiveJobs returns how many jobs are executing right now.
func (s *Scheduler) ActiveJobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Scheduler) enter() {
	s.mu.Lock()
	s.active++
	s.mu.Unlock()
}

func (s *Scheduler) leave() {
	s.mu.Lock()
	s.active--
	s.mu.Unlock()
}

// postJob is the scheduled posting cycle. It honors the run/pause flag
// and refuses to overlap itself.
func (s *Scheduler) postJob() {
	defer recoverJob("post")

	if s.flag.Get() != state.Running {
		logger.Info("bot is paused, skipping post cycle")
		return
	}

	if !s.running.TryLock() {
		logger.Warn("previous post cycle still running, skipping this tick")
		return
	}
	defer s.running.Unlock()

	s.enter()
	defer s.leave()

	if err := s.runner.RunOnce(context.Background()); err != nil {
		logger.Error("post cycle failed", "error", err)
	}
}

// resetJob clears the headline history on its own schedule.
func (s *Scheduler) resetJob() {
	defer recoverJob("history reset")

	s.enter()
	defer s.leave()

	if err := s.history.Reset(); err != nil {
		logger.Error("history reset failed", "error", err)
		return
	}
	logger.Info("cleared news history")
}

// A panicking job must not take the scheduler down; it just forfeits its
// cycle.
func recoverJob(name string) {
	if r := recover(); r != nil {
		logger.Error("job panicked", "job", name, "panic", r)
	}
}
