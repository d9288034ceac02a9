package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resto-tracker/internal/services"
)

// ReportController handles HTTP requests for the read-only reports.
type ReportController interface {
	ReportOrders(c *gin.Context)
	ReportTopItems(c *gin.Context)
}

type reportController struct {
	reports services.ReportService
}

// NewReportController creates a new instance of ReportController
func NewReportController(reports services.ReportService) ReportController {
	return &reportController{reports: reports}
}

// ReportOrders godoc
// @Summary Orders created inside a time window
// @Description Closed interval [start, end]; each row carries the total from its line snapshots
// @Tags reports
// @Produce json
// @Param start query string true "Window start (RFC 3339)"
// @Param end query string true "Window end (RFC 3339)"
// @Param statuses query string false "Comma-separated status codes"
// @Success 200 {array} services.ReportOrderRow
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/reports/orders [get]
func (rc *reportController) ReportOrders(ctx *gin.Context) {
	start, end, statuses, ok := reportWindow(ctx)
	if !ok {
		return
	}

	rows, err := rc.reports.ReportOrders(start, end, statuses)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, rows)
}

// ReportTopItems godoc
// @Summary Best-selling items inside a time window
// @Description Quantity and revenue per item name, ordered by quantity desc then revenue desc
// @Tags reports
// @Produce json
// @Param start query string true "Window start (RFC 3339)"
// @Param end query string true "Window end (RFC 3339)"
// @Param statuses query string false "Comma-separated status codes"
// @Param limit query int false "Row cap"
// @Success 200 {array} services.TopItemRow
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/reports/top-items [get]
func (rc *reportController) ReportTopItems(ctx *gin.Context) {
	start, end, statuses, ok := reportWindow(ctx)
	if !ok {
		return
	}

	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(ctx, "Invalid limit format")
			return
		}
		limit = parsed
	}

	rows, err := rc.reports.ReportTopItems(start, end, statuses, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, rows)
}

func reportWindow(ctx *gin.Context) (time.Time, time.Time, []string, bool) {
	start, err := time.Parse(time.RFC3339, ctx.Query("start"))
	if err != nil {
		respondBadRequest(ctx, "Invalid start format, expected RFC 3339")
		return time.Time{}, time.Time{}, nil, false
	}
	end, err := time.Parse(time.RFC3339, ctx.Query("end"))
	if err != nil {
		respondBadRequest(ctx, "Invalid end format, expected RFC 3339")
		return time.Time{}, time.Time{}, nil, false
	}

	var statuses []string
	if raw := ctx.Query("statuses"); raw != "" {
		for _, status := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(status); trimmed != "" {
				statuses = append(statuses, trimmed)
			}
		}
	}
	return start, end, statuses, true
}
