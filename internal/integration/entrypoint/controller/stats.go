// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pocketledger/backend/internal/application/usecase/stats"
	domainerror "github.com/pocketledger/backend/internal/domain/error"
	"github.com/pocketledger/backend/internal/integration/entrypoint/dto"
	"github.com/pocketledger/backend/internal/integration/entrypoint/middleware"
)

// StatsController handles stats endpoints.
type StatsController struct {
	getSummaryUseCase *stats.GetSummaryUseCase
}

// NewStatsController creates a new stats controller instance.
func NewStatsController(getSummaryUseCase *stats.GetSummaryUseCase) *StatsController {
	return &StatsController{
		getSummaryUseCase: getSummaryUseCase,
	}
}

// GetSummary handles GET /stats/summary requests.
// Query parameters: filter (required), pivot (YYYY-MM-DD, defaults to today),
// start/end (YYYY-MM-DD, required for the custom filter).
func (c *StatsController) GetSummary(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not identified",
			Code:  domainerror.ErrCodeMissingUserID,
		})
		return
	}

	filter := stats.RangeFilter(ctx.DefaultQuery("filter", string(stats.FilterMonth)))

	pivot := time.Now().UTC()
	if pivotStr := ctx.Query("pivot"); pivotStr != "" {
		parsed, err := time.Parse("2006-01-02", pivotStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid pivot date format. Use YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidPivot),
			})
			return
		}
		pivot = parsed
	}

	var custom *stats.CustomBounds
	startStr, endStr := ctx.Query("start"), ctx.Query("end")
	if startStr != "" || endStr != "" {
		start, startErr := time.Parse("2006-01-02", startStr)
		end, endErr := time.Parse("2006-01-02", endStr)
		if startErr != nil || endErr != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid custom range format. Use YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeMissingCustomBounds),
			})
			return
		}
		custom = &stats.CustomBounds{Start: start, End: end}
	}

	input := stats.GetSummaryInput{
		UserID: userID,
		Filter: filter,
		Pivot:  pivot,
		Custom: custom,
	}

	output, err := c.getSummaryUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleStatsError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStatsSummaryResponse(output))
}

// handleStatsError maps stats errors to HTTP responses. An aborted run means
// the caller superseded this request with a newer one; it is reported as a
// conflict, never as an empty summary.
func (c *StatsController) handleStatsError(ctx *gin.Context, err error) {
	var statsErr *domainerror.StatsError
	if errors.As(err, &statsErr) {
		ctx.JSON(c.statusCodeForStatsError(statsErr.Code), dto.ErrorResponse{
			Error: statsErr.Message,
			Code:  string(statsErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusCodeForStatsError maps stats error codes to HTTP status codes.
func (c *StatsController) statusCodeForStatsError(code domainerror.StatsErrorCode) int {
	switch code {
	case domainerror.ErrCodeUnknownFilter,
		domainerror.ErrCodeMissingCustomBounds,
		domainerror.ErrCodeInvalidPivot:
		return http.StatusBadRequest
	case domainerror.ErrCodeRunAborted:
		return http.StatusConflict
	case domainerror.ErrCodeSourceFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
