package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gridops/utility_ledger_app/internal/apperrors"
	portssvc "github.com/gridops/utility_ledger_app/internal/core/ports/services"
	"github.com/gridops/utility_ledger_app/internal/dto"
	"github.com/gridops/utility_ledger_app/internal/middleware"
)

// treasuryHandler handles HTTP requests related to treasuries.
type treasuryHandler struct {
	treasuryService portssvc.TreasurySvcFacade
}

func newTreasuryHandler(ts portssvc.TreasurySvcFacade) *treasuryHandler {
	return &treasuryHandler{treasuryService: ts}
}

// registerTreasuryRoutes registers routes related to treasuries.
func registerTreasuryRoutes(rg *gin.RouterGroup, treasuryService portssvc.TreasurySvcFacade) {
	h := newTreasuryHandler(treasuryService)

	treasuries := rg.Group("/treasuries")
	{
		treasuries.POST("", h.createTreasury)
		treasuries.GET("/:id", h.getTreasury)
		treasuries.GET("", h.listTreasuries)
		treasuries.GET("/:id/balance", h.currentBalance)
		treasuries.GET("/:id/movements", h.listMovements)
		treasuries.POST("/transfer", h.transfer)
	}
}

// createTreasury godoc
// @Summary Create a new treasury
// @Description Creates a cash/bank pool backed by exactly one asset account
// @Tags treasuries
// @Accept  json
// @Produce  json
// @Param   treasury body dto.CreateTreasuryRequest true "Treasury details"
// @Success 201 {object} dto.TreasuryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Treasury code already exists"
// @Failure 500 {object} map[string]string "Failed to create treasury"
// @Security BearerAuth
// @Router /treasuries [post]
func (h *treasuryHandler) createTreasury(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTreasuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTreasury", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	businessID, userID, ok := scopeFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	treasury, err := h.treasuryService.CreateTreasury(c.Request.Context(), businessID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicateCode):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create treasury in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create treasury"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTreasuryResponse(treasury))
}

// getTreasury godoc
// @Summary Get a treasury by ID
// @Tags treasuries
// @Produce  json
// @Param   id path string true "Treasury ID"
// @Success 200 {object} dto.TreasuryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Treasury not found"
// @Failure 500 {object} map[string]string "Failed to retrieve treasury"
// @Security BearerAuth
// @Router /treasuries/{id} [get]
func (h *treasuryHandler) getTreasury(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	treasuryID := c.Param("id")

	businessID, _, ok := scopeFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	treasury, err := h.treasuryService.GetTreasuryByID(c.Request.Context(), businessID, treasuryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Treasury not found"})
		} else {
			logger.Error("Failed to get treasury from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve treasury"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTreasuryResponse(treasury))
}

// listTreasuries godoc
// @Summary List treasuries
// @Tags treasuries
// @Produce  json
// @Success 200 {array} dto.TreasuryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list treasuries"
// @Security BearerAuth
// @Router /treasuries [get]
func (h *treasuryHandler) listTreasuries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	businessID, _, ok := scopeFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	treasuries, err := h.treasuryService.ListTreasuries(c.Request.Context(), businessID)
	if err != nil {
		logger.Error("Failed to list treasuries from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list treasuries"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTreasuryResponses(treasuries))
}

// currentBalance godoc
// @Summary Get a treasury's current balance
// @Description Returns the balance after cross-checking the stored snapshot against the movement history
// @Tags treasuries
// @Produce  json
// @Param   id path string true "Treasury ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Treasury not found"
// @Failure 500 {object} map[string]string "Balance diverged from history or lookup failed"
// @Security BearerAuth
// @Router /treasuries/{id}/balance [get]
func (h *treasuryHandler) currentBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	treasuryID := c.Param("id")

	businessID, _, ok := scopeFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balance, err := h.treasuryService.CurrentBalance(c.Request.Context(), businessID, treasuryID)
	if err != nil {
		var fault *apperrors.ConsistencyFault
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Treasury not found"})
		case errors.As(err, &fault):
			// Surface the divergence; this is an operator problem, never auto-repaired.
			c.JSON(http.StatusInternalServerError, gin.H{"error": fault.Error()})
		default:
			logger.Error("Failed to get treasury balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"treasuryID": treasuryID, "balance": balance})
}

// listMovements godoc
// @Summary List a treasury's movement history
// @Tags treasuries
// @Produce  json
// @Param   id path string true "Treasury ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Treasury not found"
// @Failure 500 {object} map[string]string "Failed to list movements"
// @Security BearerAuth
// @Router /treasuries/{id}/movements [get]
func (h *treasuryHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	treasuryID := c.Param("id")

	businessID, _, ok := scopeFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	resp, err := h.treasuryService.ListMovements(c.Request.Context(), businessID, treasuryID, limit, nextToken)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Treasury not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to list movements", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list movements"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// transfer godoc
// @Summary Transfer funds between two treasuries
// @Description Posts a balanced journal entry with one OUT and one IN movement
// @Tags treasuries
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Treasury not found"
// @Failure 409 {object} map[string]string "Lock contention, retries exhausted"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 500 {object} map[string]string "Failed to post transfer"
// @Security BearerAuth
// @Router /treasuries/transfer [post]
func (h *treasuryHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	businessID, userID, ok := scopeFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.treasuryService.Transfer(c.Request.Context(), businessID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Treasury not found"})
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Transfer could not be posted due to contention, please retry"})
		default:
			logger.Error("Failed to post transfer", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post transfer"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}
