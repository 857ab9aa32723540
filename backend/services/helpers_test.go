package services

import (
	"path/filepath"
	"testing"
	"time"

	"skillforge/backend/config"
	"skillforge/backend/models"
	"skillforge/backend/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := utils.InitDB(&config.Config{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// testClock is a settable clock.
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestClock(t time.Time) (*testClock, Clock) {
	c := &testClock{now: t}
	return c, c.Now
}

// at returns a local-time instant on the given date and hour.
func at(date string, hour int) time.Time {
	d, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		panic(err)
	}
	return d.Add(time.Duration(hour) * time.Hour)
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{Username: username, PasswordHash: "x", Role: "user"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// seedCourse stores a course with one module and a video per duration.
// Video paths are "<folder>/m1/v<i>.mp4".
func seedCourse(t *testing.T, db *gorm.DB, folder string, durations ...float64) models.Course {
	t.Helper()
	module := models.Module{Title: "m1"}
	for i, d := range durations {
		module.Videos = append(module.Videos, models.Video{
			Title:      "Video " + string(rune('A'+i)),
			Filename:   "v" + string(rune('1'+i)) + ".mp4",
			Path:       folder + "/m1/v" + string(rune('1'+i)) + ".mp4",
			OrderIndex: i,
			Duration:   d,
			ItemType:   "video",
		})
	}
	course := models.Course{Title: folder, FolderName: folder, Modules: []models.Module{module}}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func newTestServices(t *testing.T, clock Clock) (*gorm.DB, *Services) {
	t.Helper()
	db := newTestDB(t)
	svc, err := New(db, clock)
	require.NoError(t, err)
	return db, svc
}
