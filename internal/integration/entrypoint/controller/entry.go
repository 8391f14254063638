// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pocketledger/backend/internal/application/usecase/entry"
	"github.com/pocketledger/backend/internal/domain/entity"
	domainerror "github.com/pocketledger/backend/internal/domain/error"
	"github.com/pocketledger/backend/internal/integration/entrypoint/dto"
	"github.com/pocketledger/backend/internal/integration/entrypoint/middleware"
)

// EntryController handles entry endpoints.
type EntryController struct {
	createUseCase *entry.CreateEntryUseCase
	listUseCase   *entry.ListEntriesUseCase
}

// NewEntryController creates a new entry controller instance.
func NewEntryController(
	createUseCase *entry.CreateEntryUseCase,
	listUseCase *entry.ListEntriesUseCase,
) *EntryController {
	return &EntryController{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
	}
}

// Create handles POST /entries requests.
func (c *EntryController) Create(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not identified",
			Code:  domainerror.ErrCodeMissingUserID,
		})
		return
	}

	var req dto.CreateEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidEntryType),
		})
		return
	}

	input := entry.CreateEntryInput{
		UserID:   userID,
		Type:     entity.EntryType(req.Type),
		Amount:   req.Amount.Decimal,
		Date:     req.ResolvedDate(),
		Category: req.Category,
		Currency: req.Currency,
		Note:     req.Note,
		Tags:     req.Tags,
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleEntryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToEntryResponse(output.Entry))
}

// List handles GET /entries requests.
func (c *EntryController) List(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not identified",
			Code:  domainerror.ErrCodeMissingUserID,
		})
		return
	}

	input := entry.ListEntriesInput{
		UserID:   userID,
		Category: ctx.Query("category"),
	}

	if startDateStr := ctx.Query("startDate"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			input.StartDate = &startDate
		}
	}
	if endDateStr := ctx.Query("endDate"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			input.EndDate = &endDate
		}
	}

	if typeStr := ctx.Query("type"); typeStr != "" {
		entryType := entity.EntryType(typeStr)
		input.Type = &entryType
	}

	if pageStr := ctx.Query("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil {
			input.Page = page
		}
	}
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			input.Limit = limit
		}
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve entries",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToEntryListResponse(output.Result))
}

// handleEntryError maps entry errors to HTTP responses.
func (c *EntryController) handleEntryError(ctx *gin.Context, err error) {
	var entryErr *domainerror.EntryError
	if errors.As(err, &entryErr) {
		ctx.JSON(c.statusCodeForEntryError(entryErr.Code), dto.ErrorResponse{
			Error: entryErr.Message,
			Code:  string(entryErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusCodeForEntryError maps entry error codes to HTTP status codes.
func (c *EntryController) statusCodeForEntryError(code domainerror.EntryErrorCode) int {
	switch code {
	case domainerror.ErrCodeEntryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidEntryType,
		domainerror.ErrCodeNegativeAmount,
		domainerror.ErrCodeNoteTooLong:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
