package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"skillforge/backend/config"
	"skillforge/backend/models"
	"skillforge/backend/routes"
	"skillforge/backend/services"
	"skillforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Details map[string]string `json:"details"`
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"user"`
}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	app, _ := setupAppDB(t)
	return app
}

func setupAppDB(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	cfg := &config.Config{
		DBDriver:  "sqlite",
		DBPath:    filepath.Join(t.TempDir(), "api.db"),
		JWTSecret: "test-secret",
	}
	db, err := utils.InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	svc, err := services.New(db, services.SystemClock(time.Local))
	require.NoError(t, err)

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg, svc)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, url, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func register(t *testing.T, app *fiber.App, username string) authResponse {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out authResponse
	decode(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out
}

func createCourse(t *testing.T, app *fiber.App, adminToken string) uint {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/admin/courses/", adminToken, map[string]interface{}{
		"title":       "Go Basics",
		"folder_name": "go-basics",
		"modules": []map[string]interface{}{{
			"title": "intro",
			"videos": []map[string]interface{}{
				{"title": "Hello", "filename": "hello.mp4", "duration": 100},
				{"title": "Types", "filename": "types.mp4", "duration": 200},
			},
		}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var env envelope
	decode(t, resp, &env)
	var course struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &course))
	return course.ID
}

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)

	first := register(t, app, "alice")
	assert.Equal(t, "admin", first.User.Role)
	second := register(t, app, "bob")
	assert.Equal(t, "user", second.User.Role)
	// only the first account is promoted, whatever the name
	for _, name := range []string{"admin", "root"} {
		late := register(t, app, name)
		assert.Equal(t, "user", late.User.Role, name)
		resp := doJSON(t, app, "POST", "/api/admin/courses/", late.Token, map[string]string{"title": "x", "folder_name": "x"})
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, name)
	}

	resp := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{"username": "bob", "password": "secret123"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{"username": "x"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{"username": "bob", "password": "secret123"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var login authResponse
	decode(t, resp, &login)
	assert.Equal(t, second.User.ID, login.User.ID)

	resp = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{"username": "bob", "password": "wrong-pass"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/admin/courses/", second.Token, map[string]string{"title": "x", "folder_name": "x"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupApp(t)
	for _, route := range []string{"/api/xp", "/api/achievements", "/api/flashcards/due", "/api/analytics", "/api/backup", "/api/user/profile"} {
		resp := doJSON(t, app, "GET", route, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, route)
	}
	// optional auth still rejects a bad token
	resp := doJSON(t, app, "GET", "/api/courses", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestTickFlow(t *testing.T) {
	app := setupApp(t)
	admin := register(t, app, "alice")
	courseID := createCourse(t, app, admin.Token)

	// anonymous viewers are tracked
	resp := doJSON(t, app, "POST", "/api/progress/tick", "", map[string]interface{}{
		"video_path": "go-basics/intro/hello.mp4",
		"timestamp":  95,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var env envelope
	decode(t, resp, &env)
	var outcome struct {
		IsCompleted     bool              `json:"is_completed"`
		NewAchievements []json.RawMessage `json:"new_achievements"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &outcome))
	assert.True(t, outcome.IsCompleted)
	assert.Empty(t, outcome.NewAchievements)

	for _, ts := range []float64{10, 60, 190} {
		resp = doJSON(t, app, "POST", "/api/progress/tick", admin.Token, map[string]interface{}{
			"video_path": "go-basics/intro/types.mp4",
			"course_id":  courseID,
			"timestamp":  ts,
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/api/progress/video?path=go-basics/intro/types.mp4", admin.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &env)
	var row struct {
		WatchedTime float64 `json:"watched_time"`
		IsCompleted bool    `json:"is_completed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &row))
	assert.Equal(t, 190.0, row.WatchedTime)
	assert.True(t, row.IsCompleted)

	resp = doJSON(t, app, "GET", "/api/xp", admin.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &env)
	var xp struct {
		TotalXP int `json:"total_xp"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &xp))
	assert.Equal(t, 3*services.TickCreditSeconds*services.XPPerTickSecond+services.CompletionBonusXP, xp.TotalXP)

	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/progress/courses/%d", courseID), admin.Token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTickValidation(t *testing.T) {
	app := setupApp(t)
	admin := register(t, app, "alice")
	createCourse(t, app, admin.Token)

	resp := doJSON(t, app, "POST", "/api/progress/tick", admin.Token, map[string]interface{}{"video_path": "go-basics/intro/hello.mp4"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	var env envelope
	decode(t, resp, &env)
	assert.Equal(t, "required", env.Details["timestamp"])

	resp = doJSON(t, app, "POST", "/api/progress/tick", admin.Token, map[string]interface{}{"video_path": "go-basics/intro/hello.mp4", "timestamp": -1})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/progress/tick", admin.Token, map[string]interface{}{"video_path": "nope.mp4", "timestamp": 1})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/progress/reset", admin.Token, map[string]interface{}{"scope": "course"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestFlashcardsAndGoal(t *testing.T) {
	app := setupApp(t)
	alice := register(t, app, "alice")
	bob := register(t, app, "bob")

	resp := doJSON(t, app, "POST", "/api/flashcards/", alice.Token, map[string]interface{}{
		"cards": []map[string]string{{"front": "chan", "back": "pipe"}, {"front": "map", "back": "hash"}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var env envelope
	decode(t, resp, &env)
	var cards []struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cards))
	require.Len(t, cards, 2)

	resp = doJSON(t, app, "POST", "/api/flashcards/", alice.Token, map[string]string{"front": "missing back"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	review := fmt.Sprintf("/api/flashcards/%d/review", cards[0].ID)
	resp = doJSON(t, app, "POST", review, bob.Token, map[string]int{"quality": 4})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp = doJSON(t, app, "POST", review, alice.Token, map[string]int{"quality": 9})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	resp = doJSON(t, app, "POST", review, alice.Token, map[string]int{"quality": 0})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/flashcards/due", alice.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &env)
	require.NoError(t, json.Unmarshal(env.Data, &cards))
	assert.Len(t, cards, 1)

	resp = doJSON(t, app, "POST", "/api/xp/goal", alice.Token, map[string]int{"minutes": 45})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &env)
	var xp struct {
		DailyGoalMins int `json:"daily_goal_mins"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &xp))
	assert.Equal(t, 45, xp.DailyGoalMins)

	resp = doJSON(t, app, "POST", "/api/xp/goal", alice.Token, map[string]int{"minutes": 0})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestExportAndBackup(t *testing.T) {
	app := setupApp(t)
	alice := register(t, app, "alice")

	resp := doJSON(t, app, "GET", "/api/analytics/export", alice.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")

	resp = doJSON(t, app, "GET", "/api/backup", alice.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var backup services.Backup
	decode(t, resp, &backup)
	assert.Equal(t, services.BackupVersion, backup.Version)

	resp = doJSON(t, app, "POST", "/api/restore", alice.Token, backup)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	backup.Version = 99
	resp = doJSON(t, app, "POST", "/api/restore", alice.Token, backup)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	backup.Version = services.BackupVersion
	backup.Activity = []models.DailyActivity{{Date: "yesterday", SecondsWatched: -10}}
	resp = doJSON(t, app, "POST", "/api/restore", alice.Token, backup)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAddVideoOrder(t *testing.T) {
	app, db := setupAppDB(t)
	admin := register(t, app, "admin")
	courseID := createCourse(t, app, admin.Token)
	url := fmt.Sprintf("/api/admin/courses/%d/videos", courseID)

	addVideo := func(module, filename string) models.Video {
		t.Helper()
		resp := doJSON(t, app, "POST", url, admin.Token, map[string]interface{}{
			"module_title": module, "title": filename, "filename": filename, "duration": 60,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		var env envelope
		decode(t, resp, &env)
		var video models.Video
		require.NoError(t, json.Unmarshal(env.Data, &video))
		return video
	}

	v := addVideo("intro", "maps.mp4")
	assert.Equal(t, 2, v.OrderIndex)
	assert.Equal(t, "go-basics/intro/maps.mp4", v.Path)

	v = addVideo("extras", "generics.mp4")
	assert.Equal(t, 0, v.OrderIndex)
	var module models.Module
	require.NoError(t, db.First(&module, v.ModuleID).Error)
	assert.Equal(t, 1, module.OrderIndex)

	// a failing step rolls the new module back
	require.NoError(t, db.Migrator().DropTable(&models.Video{}))
	resp := doJSON(t, app, "POST", url, admin.Token, map[string]interface{}{
		"module_title": "broken", "title": "x", "filename": "x.mp4",
	})
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	var modules int64
	require.NoError(t, db.Model(&models.Module{}).Where("title = ?", "broken").Count(&modules).Error)
	assert.Zero(t, modules)
}
