package controllers

import (
	"errors"

	"skillforge/backend/config"
	"skillforge/backend/models"
	"skillforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PlaylistsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewPlaylistsController(db *gorm.DB, cfg *config.Config) *PlaylistsController {
	return &PlaylistsController{DB: db, Cfg: cfg}
}

type CreatePlaylistRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type PlaylistItemRequest struct {
	VideoPath  string `json:"video_path" validate:"required"`
	VideoTitle string `json:"video_title"`
	CourseID   uint   `json:"course_id"`
}

var errPlaylistNotFound = errors.New("playlist not found")

// ownedPlaylist loads a playlist of the current user.
func (pc *PlaylistsController) ownedPlaylist(db *gorm.DB, c *fiber.Ctx) (models.Playlist, error) {
	var playlist models.Playlist
	id, err := paramID(c, "id")
	if err != nil {
		return playlist, errPlaylistNotFound
	}
	err = db.Where("id = ? AND user_id = ?", id, utils.CurrentUserID(c)).First(&playlist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return playlist, errPlaylistNotFound
	}
	return playlist, err
}

// CreatePlaylist godoc
// @Summary Create playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Param input body CreatePlaylistRequest true "Playlist"
// @Success 201 {object} models.Playlist
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /playlists [post]
func (pc *PlaylistsController) CreatePlaylist(c *fiber.Ctx) error {
	var input CreatePlaylistRequest
	if err := utils.ParseAndValidate(c, &input); err != nil {
		return utils.RenderValidation(c, err)
	}

	playlist := models.Playlist{UserID: utils.CurrentUserID(c), Title: input.Title}
	if err := pc.DB.WithContext(c.UserContext()).Create(&playlist).Error; err != nil {
		return utils.InternalServerError(c, "Could not create playlist")
	}
	return utils.Created(c, playlist)
}

// ListPlaylists godoc
// @Summary List playlists
// @Tags playlists
// @Produce json
// @Success 200 {array} models.Playlist
// @Security ApiKeyAuth
// @Router /playlists [get]
func (pc *PlaylistsController) ListPlaylists(c *fiber.Ctx) error {
	var playlists []models.Playlist
	err := pc.DB.WithContext(c.UserContext()).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Where("user_id = ?", utils.CurrentUserID(c)).
		Order("created_at DESC").
		Find(&playlists).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch playlists")
	}
	return utils.Success(c, fiber.StatusOK, playlists)
}

// AddItem godoc
// @Summary Add video to playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Param id path int true "Playlist ID"
// @Param input body PlaylistItemRequest true "Item"
// @Success 201 {object} models.PlaylistItem
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /playlists/{id}/items [post]
func (pc *PlaylistsController) AddItem(c *fiber.Ctx) error {
	var input PlaylistItemRequest
	if err := utils.ParseAndValidate(c, &input); err != nil {
		return utils.RenderValidation(c, err)
	}

	var item models.PlaylistItem
	err := pc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		playlist, err := pc.ownedPlaylist(tx, c)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.PlaylistItem{}).Where("playlist_id = ?", playlist.ID).Count(&count).Error; err != nil {
			return err
		}
		item = models.PlaylistItem{
			PlaylistID: playlist.ID,
			VideoPath:  input.VideoPath,
			VideoTitle: input.VideoTitle,
			CourseID:   input.CourseID,
			OrderIndex: int(count),
		}
		return tx.Create(&item).Error
	})
	if errors.Is(err, errPlaylistNotFound) {
		return utils.NotFound(c, "Playlist not found")
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not add playlist item")
	}
	return utils.Created(c, item)
}

// RemoveItem godoc
// @Summary Remove video from playlist
// @Tags playlists
// @Param id path int true "Playlist ID"
// @Param path query string true "Video path"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /playlists/{id}/items [delete]
func (pc *PlaylistsController) RemoveItem(c *fiber.Ctx) error {
	videoPath := c.Query("path")
	if videoPath == "" {
		return utils.BadRequest(c, "Video path is required")
	}
	db := pc.DB.WithContext(c.UserContext())

	playlist, err := pc.ownedPlaylist(db, c)
	if errors.Is(err, errPlaylistNotFound) {
		return utils.NotFound(c, "Playlist not found")
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	res := db.Where("playlist_id = ? AND video_path = ?", playlist.ID, videoPath).Delete(&models.PlaylistItem{})
	if res.Error != nil {
		return utils.InternalServerError(c, "Could not remove playlist item")
	}
	if res.RowsAffected == 0 {
		return utils.NotFound(c, "Item not in playlist")
	}
	return utils.NoContent(c)
}

// DeletePlaylist godoc
// @Summary Delete playlist
// @Tags playlists
// @Param id path int true "Playlist ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /playlists/{id} [delete]
func (pc *PlaylistsController) DeletePlaylist(c *fiber.Ctx) error {
	err := pc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		playlist, err := pc.ownedPlaylist(tx, c)
		if err != nil {
			return err
		}
		if err := tx.Where("playlist_id = ?", playlist.ID).Delete(&models.PlaylistItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&playlist).Error
	})
	if errors.Is(err, errPlaylistNotFound) {
		return utils.NotFound(c, "Playlist not found")
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not delete playlist")
	}
	return utils.NoContent(c)
}
