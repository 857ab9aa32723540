package services

import (
	"context"
	"testing"

	"skillforge/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupRoundTripIsIdempotent(t *testing.T) {
	_, clock := newTestClock(at("2024-05-10", 12))
	db, svc := newTestServices(t, clock)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	course := seedCourse(t, db, "go", 100, 100)
	ctx := context.Background()

	v1, v2 := course.Modules[0].Videos[0].Path, course.Modules[0].Videos[1].Path
	_, err := svc.Tracker.HandleTick(ctx, Tick{UserID: alice.ID, VideoPath: v1, Position: 95})
	require.NoError(t, err)
	_, err = svc.Tracker.HandleTick(ctx, Tick{UserID: alice.ID, VideoPath: v2, Position: 30})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.VideoNote{UserID: alice.ID, VideoPath: v1, Content: "goroutines"}).Error)
	require.NoError(t, db.Create(&models.Bookmark{UserID: alice.ID, VideoPath: v1, Timestamp: 42, Note: "select"}).Error)

	backup, err := svc.Backups.Export(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, BackupVersion, backup.Version)
	assert.Equal(t, "alice", backup.User.Username)
	assert.Len(t, backup.Progress, 2)
	assert.Len(t, backup.Notes, 1)
	assert.Len(t, backup.Bookmarks, 1)
	assert.Len(t, backup.Activity, 1)

	// bob already watched further into v2
	_, err = svc.Tracker.HandleTick(ctx, Tick{UserID: bob.ID, VideoPath: v2, Position: 60})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		report, err := svc.Backups.Restore(ctx, bob.ID, backup)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Progress)
		if i == 0 {
			assert.Equal(t, 1, report.Bookmarks)
		} else {
			assert.Zero(t, report.Bookmarks)
		}
	}

	progress, err := svc.Ledger.ProgressMap(ctx, bob.ID)
	require.NoError(t, err)
	assert.True(t, progress[v1].IsCompleted)
	assert.Equal(t, 95.0, progress[v1].WatchedTime)
	assert.Equal(t, 60.0, progress[v2].WatchedTime)

	var bookmarks int64
	require.NoError(t, db.Model(&models.Bookmark{}).Where("user_id = ?", bob.ID).Count(&bookmarks).Error)
	assert.Equal(t, int64(1), bookmarks)

	buckets, err := svc.Activity.DailyBuckets(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(2*TickCreditSeconds), buckets["2024-05-10"].Seconds)
}

func TestRestoreRejects(t *testing.T) {
	_, clock := newTestClock(at("2024-05-10", 12))
	db, svc := newTestServices(t, clock)
	user := seedUser(t, db, "alice")
	ctx := context.Background()

	_, err := svc.Backups.Restore(ctx, user.ID, Backup{Version: BackupVersion + 1})
	assert.ErrorIs(t, err, ErrUnsupportedBackup)
	_, err = svc.Backups.Restore(ctx, models.AnonymousUserID, Backup{Version: BackupVersion})
	assert.ErrorIs(t, err, ErrAnonymousUser)
	_, err = svc.Backups.Export(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestoreRejectsInvalidRows(t *testing.T) {
	_, clock := newTestClock(at("2024-05-10", 12))
	db, svc := newTestServices(t, clock)
	user := seedUser(t, db, "alice")
	ctx := context.Background()

	cases := map[string]Backup{
		"negative watched time": {
			Progress: []models.VideoProgress{
				{VideoPath: "go/m1/v1.mp4", WatchedTime: 30},
				{VideoPath: "go/m1/v2.mp4", WatchedTime: -5},
			},
		},
		"bad activity date": {
			Activity: []models.DailyActivity{{Date: "10.05.2024", SecondsWatched: 60}},
		},
		"negative activity seconds": {
			Progress: []models.VideoProgress{{VideoPath: "go/m1/v1.mp4", WatchedTime: 30}},
			Activity: []models.DailyActivity{{Date: "2024-05-10", SecondsWatched: -60}},
		},
		"negative completed count": {
			Activity: []models.DailyActivity{{Date: "2024-05-10", VideosCompleted: -1}},
		},
		"negative bookmark": {
			Bookmarks: []models.Bookmark{{VideoPath: "go/m1/v1.mp4", Timestamp: -1}},
		},
	}
	for name, backup := range cases {
		t.Run(name, func(t *testing.T) {
			backup.Version = BackupVersion
			_, err := svc.Backups.Restore(ctx, user.ID, backup)
			assert.ErrorIs(t, err, ErrInvalidBackup)

			for _, model := range []interface{}{&models.VideoProgress{}, &models.DailyActivity{}, &models.Bookmark{}} {
				assert.Zero(t, countRows(t, svc, model, user.ID))
			}
		})
	}
}
