package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/myiephero/matchengine/database"
	"github.com/myiephero/matchengine/models"
)

type SummaryHandler struct{}

func NewSummaryHandler() *SummaryHandler { return &SummaryHandler{} }

// GET /admin/match/summary
// Per-status proposal counts backing the matching dashboard.
func (h *SummaryHandler) Summary(c echo.Context) error {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := database.DB.WithContext(c.Request().Context()).
		Model(&models.MatchProposal{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	counts := map[string]int64{
		models.StatusProposed:       0,
		models.StatusIntroRequested: 0,
		models.StatusScheduled:      0,
		models.StatusAccepted:       0,
		models.StatusDeclined:       0,
	}
	var total int64
	for _, r := range rows {
		counts[r.Status] = r.Count
		total += r.Count
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total":     total,
		"by_status": counts,
	})
}
