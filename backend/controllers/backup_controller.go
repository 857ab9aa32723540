package controllers

import (
	"fmt"
	"io"

	"skillforge/backend/config"
	"skillforge/backend/services"
	"skillforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BackupController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Svc *services.Services
}

func NewBackupController(db *gorm.DB, cfg *config.Config, svc *services.Services) *BackupController {
	return &BackupController{DB: db, Cfg: cfg, Svc: svc}
}

// Backup godoc
// @Summary Download backup
// @Description Exports the user's progress, notes, bookmarks, playlists and activity as JSON
// @Tags backup
// @Produce json
// @Success 200 {object} services.Backup
// @Security ApiKeyAuth
// @Router /backup [get]
func (bc *BackupController) Backup(c *fiber.Ctx) error {
	backup, err := bc.Svc.Backups.Export(c.UserContext(), utils.CurrentUserID(c))
	if err != nil {
		return renderServiceError(c, err)
	}
	raw, err := c.App().Config().JSONEncoder(backup)
	if err != nil {
		return utils.InternalServerError(c, "Could not encode backup")
	}
	filename := fmt.Sprintf("backup-%s.json", services.DateKey(bc.Svc.Clock()))
	return utils.Download(c, filename, fiber.MIMEApplicationJSON, raw)
}

// Restore godoc
// @Summary Restore backup
// @Description Merges a backup into the user's data. Accepts a JSON body or a multipart "file".
// @Tags backup
// @Accept json,mpfd
// @Produce json
// @Success 200 {object} services.RestoreReport
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /restore [post]
func (bc *BackupController) Restore(c *fiber.Ctx) error {
	var backup services.Backup

	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return utils.BadRequest(c, "Cannot read file")
		}
		defer f.Close()
		raw, err := io.ReadAll(f)
		if err != nil {
			return utils.BadRequest(c, "Cannot read file")
		}
		if err := c.App().Config().JSONDecoder(raw, &backup); err != nil {
			return utils.BadRequest(c, "Invalid backup file")
		}
	} else if err := c.BodyParser(&backup); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	report, err := bc.Svc.Backups.Restore(c.UserContext(), utils.CurrentUserID(c), backup)
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, report)
}
