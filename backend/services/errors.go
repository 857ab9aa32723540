package services

import "errors"

var (
	ErrMissingVideoPath  = errors.New("video path is required")
	ErrInvalidPosition   = errors.New("position must be a non-negative number of seconds")
	ErrVideoNotFound     = errors.New("video not found")
	ErrCourseNotFound    = errors.New("course not found")
	ErrAnonymousUser     = errors.New("operation requires a logged-in user")
	ErrNegativeXP        = errors.New("xp award must be non-negative")
	ErrInvalidGoal       = errors.New("daily goal must be between 1 and 1440 minutes")
	ErrInvalidQuality    = errors.New("quality must be between 0 and 5")
	ErrFlashcardNotFound = errors.New("flashcard not found")
	ErrInvalidQuiz       = errors.New("correct answers must be between 0 and total questions")
	ErrUnsupportedBackup = errors.New("unsupported backup version")
	ErrInvalidBackup     = errors.New("invalid backup")
	ErrInvalidMastery    = errors.New("mastery score must be between 1 and 5")
	ErrNotFound          = errors.New("record not found")
	ErrMissingCourseID   = errors.New("course id is required")
	ErrInvalidResetScope = errors.New("reset scope must be all, course or video")
)
