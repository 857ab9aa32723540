package controllers

import (
	"fmt"

	"skillforge/backend/config"
	"skillforge/backend/services"
	"skillforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Svc *services.Services
}

func NewAnalyticsController(db *gorm.DB, cfg *config.Config, svc *services.Services) *AnalyticsController {
	return &AnalyticsController{DB: db, Cfg: cfg, Svc: svc}
}

// GetSummary godoc
// @Summary Learning analytics
// @Description Totals, activity heatmap, streak, achievements, quiz and mastery summaries and level progress
// @Tags analytics
// @Produce json
// @Success 200 {object} models.AnalyticsSummary
// @Security ApiKeyAuth
// @Router /analytics [get]
func (ac *AnalyticsController) GetSummary(c *fiber.Ctx) error {
	summary, err := ac.Svc.Analytics.Summary(c.UserContext(), utils.CurrentUserID(c))
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, summary)
}

// Export godoc
// @Summary Export progress workbook
// @Description Downloads the ledger and daily activity as an XLSX workbook
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Security ApiKeyAuth
// @Router /analytics/export [get]
func (ac *AnalyticsController) Export(c *fiber.Ctx) error {
	buf, err := ac.Svc.Analytics.ExportWorkbook(c.UserContext(), utils.CurrentUserID(c))
	if err != nil {
		return renderServiceError(c, err)
	}

	filename := fmt.Sprintf("progress-%s.xlsx", services.DateKey(ac.Svc.Clock()))
	return utils.Download(c, filename, xlsxContentType, buf.Bytes())
}
