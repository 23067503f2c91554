package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gridops/utility_ledger_app/internal/apperrors"
	portssvc "github.com/gridops/utility_ledger_app/internal/core/ports/services"
	"github.com/gridops/utility_ledger_app/internal/middleware"
)

// reconcileHandler exposes read-only consistency checks between stored
// balances and balances recomputed from the journal.
type reconcileHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newReconcileHandler(rs portssvc.ReconciliationSvcFacade) *reconcileHandler {
	return &reconcileHandler{reconciliationService: rs}
}

// registerReconcileRoutes registers routes for balance reconciliation.
func registerReconcileRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconcileHandler(reconciliationService)

	reconcile := rg.Group("/reconcile")
	{
		reconcile.GET("/treasuries/:id", h.reconcileTreasury)
		reconcile.GET("/accounts/:id", h.reconcileAccount)
		reconcile.GET("/parties/:id", h.reconcileParty)
	}
}

// reconcileTreasury godoc
// @Summary Reconcile a treasury balance
// @Description Recomputes the treasury balance from its movement history and compares it to the stored balance; never mutates state
// @Tags reconcile
// @Produce  json
// @Param   id path string true "Treasury ID"
// @Success 200 {object} dto.ReconcileResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Treasury not found"
// @Failure 500 {object} map[string]string "Failed to reconcile treasury"
// @Security BearerAuth
// @Router /reconcile/treasuries/{id} [get]
func (h *reconcileHandler) reconcileTreasury(c *gin.Context) {
	h.serve(c, "treasury", func(ctx *gin.Context, businessID, id string) (any, error) {
		return h.reconciliationService.ReconcileTreasury(ctx.Request.Context(), businessID, id)
	})
}

// reconcileAccount godoc
// @Summary Reconcile an account balance
// @Description Recomputes the account balance from posted journal lines and compares it to the stored running balance
// @Tags reconcile
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.ReconcileResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to reconcile account"
// @Security BearerAuth
// @Router /reconcile/accounts/{id} [get]
func (h *reconcileHandler) reconcileAccount(c *gin.Context) {
	h.serve(c, "account", func(ctx *gin.Context, businessID, id string) (any, error) {
		return h.reconciliationService.ReconcileAccount(ctx.Request.Context(), businessID, id)
	})
}

// reconcileParty godoc
// @Summary Reconcile a party balance
// @Description Recomputes the party balance from its transaction history and compares it to the stored balance
// @Tags reconcile
// @Produce  json
// @Param   id path string true "Party ID"
// @Success 200 {object} dto.ReconcileResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Party not found"
// @Failure 500 {object} map[string]string "Failed to reconcile party"
// @Security BearerAuth
// @Router /reconcile/parties/{id} [get]
func (h *reconcileHandler) reconcileParty(c *gin.Context) {
	h.serve(c, "party", func(ctx *gin.Context, businessID, id string) (any, error) {
		return h.reconciliationService.ReconcileParty(ctx.Request.Context(), businessID, id)
	})
}

func (h *reconcileHandler) serve(c *gin.Context, kind string, fn func(*gin.Context, string, string) (any, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id := c.Param("id")

	businessID, _, ok := scopeFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := fn(c, businessID, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		} else {
			logger.Error("Failed to reconcile "+kind, slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile " + kind})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
