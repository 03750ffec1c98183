package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/gateforge/internal/database"
	"github.com/example/gateforge/internal/logger"
	"github.com/example/gateforge/internal/planner"
)

// Default settings for background jobs
const (
	DefaultReminderHour   = 9
	DefaultBackupInterval = 6 * time.Hour
)

// Notifier receives the events produced by background jobs
type Notifier interface {
	SendReminder(due int) error
	NotifyPhaseChange(res planner.Resolution) error
}

// Options configures the background jobs
type Options struct {
	Location       *time.Location
	ReminderHour   int
	BackupInterval time.Duration
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	store     *database.Store
	schedule  *database.ScheduleRepository
	cards     *database.FlashcardRepository
	log       *logger.Logger
	opts      Options

	mu      sync.Mutex
	lastKey string
}

// New creates a new scheduler instance
func New(store *database.Store, notifier Notifier, log *logger.Logger, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.BackupInterval <= 0 {
		opts.BackupInterval = DefaultBackupInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(opts.Location),
		notifier:  notifier,
		store:     store,
		schedule:  database.NewScheduleRepository(store),
		cards:     database.NewFlashcardRepository(store),
		log:       log,
		opts:      opts,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	// Phase transitions are checked every minute, the countdown itself is
	// computed on demand
	if _, err := s.scheduler.Every(1).Minute().Do(s.runPhaseCheck); err != nil {
		return fmt.Errorf("failed to schedule phase check: %v", err)
	}

	at := fmt.Sprintf("%02d:00", s.opts.ReminderHour)
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.runReminder); err != nil {
		return fmt.Errorf("failed to schedule reminder: %v", err)
	}

	if _, err := s.scheduler.Every(s.opts.BackupInterval).Do(s.runBackup); err != nil {
		return fmt.Errorf("failed to schedule backup: %v", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	s.log.Infof("Scheduler started: reminder at %s, backup every %s", at, s.opts.BackupInterval)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// CheckPhaseTransition resolves the plan at the current time and notifies
// when the active phase or the gap target changed since the last check.
// The first check only records the situation.
func (s *Scheduler) CheckPhaseTransition(ctx context.Context) (bool, error) {
	phases, err := s.schedule.Load(ctx)
	if err != nil {
		return false, err
	}
	res := planner.Resolve(phases, s.store.Now())
	key := res.Key()

	s.mu.Lock()
	previous := s.lastKey
	s.lastKey = key
	s.mu.Unlock()

	if previous == "" || previous == key {
		return false, nil
	}

	s.log.Infof("Phase transition: %s -> %s", previous, key)
	if err := s.notifier.NotifyPhaseChange(res); err != nil {
		return true, fmt.Errorf("failed to notify phase change: %v", err)
	}
	return true, nil
}

// RunManualCheck sends a reminder if cards are due, returning the count
func (s *Scheduler) RunManualCheck(ctx context.Context) (int, error) {
	due, err := s.cards.Due(ctx)
	if err != nil {
		return 0, err
	}

	if len(due) > 0 {
		if err := s.notifier.SendReminder(len(due)); err != nil {
			return len(due), err
		}
	}
	return len(due), nil
}

func (s *Scheduler) runPhaseCheck() {
	if _, err := s.CheckPhaseTransition(context.Background()); err != nil {
		s.log.Errorf("Error checking phase transition: %v", err)
	}
}

func (s *Scheduler) runReminder() {
	count, err := s.RunManualCheck(context.Background())
	if err != nil {
		s.log.Errorf("Error sending review reminder: %v", err)
		return
	}
	s.log.Infof("Review reminder check done, %d cards due", count)
}

func (s *Scheduler) runBackup() {
	if err := s.store.CreateBackup(context.Background()); err != nil {
		s.log.Errorf("Scheduled backup failed: %v", err)
	}
}
