package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// DueCounter reports how many flashcards each user has due today.
type DueCounter interface {
	CountDueByUser(ctx context.Context) (map[uint]int64, error)
}

// Notifier delivers a due-card reminder to one user.
type Notifier interface {
	RemindDue(userID uint, count int64) error
}

// LogNotifier writes reminders to the application log.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) RemindDue(userID uint, count int64) error {
	n.Logger.Printf("user %d has %d flashcard(s) due for review", userID, count)
	return nil
}

// Scheduler runs the daily flashcard digest
type Scheduler struct {
	scheduler *gocron.Scheduler
	cards     DueCounter
	notifier  Notifier
	logger    *log.Logger
	hour      int
}

func New(cards DueCounter, notifier Notifier, loc *time.Location, hour int, logger *log.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		cards:     cards,
		notifier:  notifier,
		logger:    logger,
		hour:      hour,
	}
}

// Start schedules the digest at the configured hour. A negative hour disables it.
func (s *Scheduler) Start() error {
	if s.hour < 0 {
		s.logger.Println("Flashcard digest disabled")
		return nil
	}
	_, err := s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", s.hour)).Do(s.runDigest)
	if err != nil {
		return fmt.Errorf("schedule flashcard digest: %w", err)
	}
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := s.RunDigest(ctx); err != nil {
		s.logger.Printf("Error running flashcard digest: %v", err)
	}
}

// RunDigest notifies every user with due cards and returns the counts it sent.
func (s *Scheduler) RunDigest(ctx context.Context) (map[uint]int64, error) {
	due, err := s.cards.CountDueByUser(ctx)
	if err != nil {
		return nil, err
	}
	for userID, count := range due {
		if count == 0 {
			continue
		}
		if err := s.notifier.RemindDue(userID, count); err != nil {
			s.logger.Printf("Error sending reminder to user %d: %v", userID, err)
		}
	}
	return due, nil
}
