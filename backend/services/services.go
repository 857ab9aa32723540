package services

import "gorm.io/gorm"

// Services bundles the engines the HTTP layer depends on.
type Services struct {
	Clock        Clock
	Catalog      *CatalogStore
	Ledger       *Ledger
	Activity     *Activity
	Achievements *Achievements
	XP           *XP
	Tracker      *Tracker
	Flashcards   *Flashcards
	Quiz         *Quiz
	Resetter     *Resetter
	Backups      *Backups
	Analytics    *Analytics
}

func New(db *gorm.DB, clock Clock) (*Services, error) {
	s := &Services{Clock: clock}
	s.Catalog = NewCatalogStore(db)
	s.Ledger = NewLedger(db, s.Catalog, clock)
	s.Activity = NewActivity(db)
	s.Achievements = NewAchievements(db, s.Activity, clock)
	s.XP = NewXP(db)
	s.Tracker = NewTracker(s.Ledger, s.Activity, s.Achievements, s.XP, clock)
	s.Flashcards = NewFlashcards(db, clock)
	s.Quiz = NewQuiz(db, s.XP, clock)
	s.Resetter = NewResetter(db)
	s.Backups = NewBackups(db, clock)

	analytics, err := NewAnalytics(db, s.Achievements, s.XP, clock)
	if err != nil {
		return nil, err
	}
	s.Analytics = analytics
	return s, nil
}
