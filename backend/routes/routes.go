package routes

import (
	"skillforge/backend/config"
	"skillforge/backend/controllers"
	"skillforge/backend/middleware"
	"skillforge/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, svc *services.Services) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	optionalAuth := middleware.OptionalAuth(cfg)
	adminMiddleware := middleware.AdminMiddleware(db)

	// User routes
	userController := controllers.NewUserController(db, cfg, svc)
	user := app.Group("/api/user", authMiddleware)
	user.Get("/profile", userController.GetProfile)
	user.Put("/profile", userController.UpdateProfile)
	user.Get("/settings", userController.GetSettings)
	user.Put("/settings", userController.UpdateSettings)
	user.Get("/activity", userController.GetActivity)

	// Progress routes, open to anonymous viewers
	progressController := controllers.NewProgressController(db, cfg, svc)
	progress := app.Group("/api/progress", optionalAuth)
	progress.Post("/tick", progressController.Tick)
	progress.Post("/reset", progressController.Reset)
	progress.Get("/video", progressController.GetVideoProgress)
	progress.Get("/courses/:id", progressController.GetCourseProgress)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg, svc)
	app.Get("/api/courses", optionalAuth, coursesController.ListCourses)
	app.Get("/api/courses/:id", optionalAuth, coursesController.GetCourse)
	app.Post("/api/courses/:id/favorite", authMiddleware, coursesController.ToggleFavorite)

	// Admin routes for courses
	adminCourses := app.Group("/api/admin/courses", authMiddleware, adminMiddleware)
	adminCourses.Post("/", coursesController.CreateCourse)
	adminCourses.Put("/:id/description", coursesController.UpdateCourseDescription)
	adminCourses.Post("/:id/videos", coursesController.AddVideo)

	// Quiz and mastery routes
	quizController := controllers.NewQuizController(db, cfg, svc)
	app.Post("/api/quiz/attempts", authMiddleware, quizController.SubmitAttempt)
	app.Get("/api/quiz/attempts", authMiddleware, quizController.ListAttempts)
	app.Post("/api/mastery", authMiddleware, quizController.SetMastery)

	// Overview routes
	overviewController := controllers.NewOverviewController(db, cfg, svc)
	app.Get("/api/xp", authMiddleware, overviewController.GetXP)
	app.Post("/api/xp/goal", authMiddleware, overviewController.SetGoal)
	app.Get("/api/achievements", authMiddleware, overviewController.GetAchievements)
	app.Get("/api/review", authMiddleware, overviewController.GetReview)

	// Flashcards routes
	flashcardsController := controllers.NewFlashcardsController(db, cfg, svc)
	flashcards := app.Group("/api/flashcards", authMiddleware)
	flashcards.Post("/", flashcardsController.AddFlashcards)
	flashcards.Get("/", flashcardsController.ListFlashcards)
	flashcards.Get("/due", flashcardsController.GetDue)
	flashcards.Post("/:id/review", flashcardsController.Review)
	flashcards.Delete("/:id", flashcardsController.DeleteFlashcard)

	// Notes and bookmarks routes
	notesController := controllers.NewNotesController(db, cfg)
	app.Get("/api/notes", authMiddleware, notesController.GetNote)
	app.Put("/api/notes", authMiddleware, notesController.SaveNote)
	app.Post("/api/bookmarks", authMiddleware, notesController.AddBookmark)
	app.Get("/api/bookmarks", authMiddleware, notesController.ListBookmarks)
	app.Delete("/api/bookmarks/:id", authMiddleware, notesController.DeleteBookmark)

	// Playlists routes
	playlistsController := controllers.NewPlaylistsController(db, cfg)
	playlists := app.Group("/api/playlists", authMiddleware)
	playlists.Post("/", playlistsController.CreatePlaylist)
	playlists.Get("/", playlistsController.ListPlaylists)
	playlists.Delete("/:id", playlistsController.DeletePlaylist)
	playlists.Post("/:id/items", playlistsController.AddItem)
	playlists.Delete("/:id/items", playlistsController.RemoveItem)

	// Analytics and backup routes
	analyticsController := controllers.NewAnalyticsController(db, cfg, svc)
	app.Get("/api/analytics", authMiddleware, analyticsController.GetSummary)
	app.Get("/api/analytics/export", authMiddleware, analyticsController.Export)

	backupController := controllers.NewBackupController(db, cfg, svc)
	app.Get("/api/backup", authMiddleware, backupController.Backup)
	app.Post("/api/restore", authMiddleware, backupController.Restore)
}
