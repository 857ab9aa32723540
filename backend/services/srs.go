package services

import (
	"math"
	"time"
)

// Review grades.
const (
	QualityForgot = 0
	QualityHard   = 3
	QualityGood   = 4
	QualityEasy   = 5
)

const (
	MinEaseFactor     = 1.3
	DefaultEaseFactor = 2.5
	InitialInterval   = 1
)

// Schedule is the review state of one flashcard.
type Schedule struct {
	Interval       int     `json:"interval"`
	EaseFactor     float64 `json:"ease_factor"`
	NextReviewDate string  `json:"next_review_date"`
}

// Review applies one graded review to (interval, ease) and schedules the next one from today.
// Grades below 3 are lapses: the interval resets and the ease factor is kept.
func Review(interval int, ease float64, quality int, today time.Time) (Schedule, error) {
	if quality < QualityForgot || quality > QualityEasy {
		return Schedule{}, ErrInvalidQuality
	}
	if interval < InitialInterval {
		interval = InitialInterval
	}

	if quality < QualityHard {
		interval = InitialInterval
	} else {
		if interval == InitialInterval {
			if quality > QualityHard {
				interval = 6
			} else {
				interval = 3
			}
		} else {
			interval = int(math.Floor(float64(interval) * ease))
		}

		q := float64(QualityEasy - quality)
		ease += 0.1 - q*(0.08+q*0.02)
		if ease < MinEaseFactor {
			ease = MinEaseFactor
		}
	}

	return Schedule{
		Interval:       interval,
		EaseFactor:     ease,
		NextReviewDate: DateKey(civilDay(today).AddDate(0, 0, interval)),
	}, nil
}

// IsDue reports whether a card scheduled for nextReview should be shown on today.
func IsDue(nextReview string, today time.Time) bool {
	return nextReview == "" || nextReview <= DateKey(today)
}
