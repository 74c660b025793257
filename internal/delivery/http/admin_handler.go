package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"propshare/internal/delivery/http/dto"
	"propshare/internal/usecase"
)

// HealthChecker reports whether the ledger store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// AdminHandler handles operator requests
type AdminHandler struct {
	ledger *usecase.LedgerService
	health HealthChecker
	driver string
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(ledger *usecase.LedgerService, health HealthChecker, driver string) *AdminHandler {
	return &AdminHandler{
		ledger: ledger,
		health: health,
		driver: driver,
	}
}

// ListWithdrawals returns withdrawal requests, optionally filtered by status
// GET /api/admin/withdrawals?status=pending
func (h *AdminHandler) ListWithdrawals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	requests, err := h.ledger.ListWithdrawals(ctx, c.QueryParam("status"))
	if err != nil {
		return LedgerErrorResponse(c, err)
	}
	return SuccessResponse(c, requests)
}

// ApproveWithdrawal settles a pending withdrawal
// POST /api/admin/withdrawals/:id/approve
func (h *AdminHandler) ApproveWithdrawal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid withdrawal request ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	req, err := h.ledger.ApproveWithdrawal(ctx, id)
	if err != nil {
		return LedgerErrorResponse(c, err)
	}
	return SuccessMessageResponse(c, "Withdrawal approved", req)
}

// RejectWithdrawal releases the hold of a pending withdrawal
// POST /api/admin/withdrawals/:id/reject
func (h *AdminHandler) RejectWithdrawal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid withdrawal request ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	req, err := h.ledger.RejectWithdrawal(ctx, id)
	if err != nil {
		return LedgerErrorResponse(c, err)
	}
	return SuccessMessageResponse(c, "Withdrawal rejected", req)
}

// AdjustBalance applies a signed manual correction to a user's balance
// POST /api/admin/balances/:userId/adjust
func (h *AdminHandler) AdjustBalance(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return BadRequestResponse(c, "Invalid user ID")
	}

	var req dto.AdjustBalanceRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.ledger.AdjustBalance(ctx, userID, req.Amount, req.Note)
	if err != nil {
		return LedgerErrorResponse(c, err)
	}
	return SuccessMessageResponse(c, "Balance adjusted", tx)
}

// SweepMaturations releases every matured investment now
// POST /api/admin/maturations/sweep
func (h *AdminHandler) SweepMaturations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	released, err := h.ledger.SweepMaturations(ctx)
	if err != nil {
		return LedgerErrorResponse(c, err)
	}
	return SuccessResponse(c, map[string]interface{}{
		"released": released,
	})
}

// GetStatistics returns ledger totals
// GET /api/admin/statistics
func (h *AdminHandler) GetStatistics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	stats, err := h.ledger.Statistics(ctx)
	if err != nil {
		return LedgerErrorResponse(c, err)
	}
	return SuccessResponse(c, stats)
}

// GetDocument exports the whole ledger without password hashes
// GET /api/admin/document
func (h *AdminHandler) GetDocument(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	doc, err := h.ledger.ExportDocument(ctx)
	if err != nil {
		return LedgerErrorResponse(c, err)
	}
	return SuccessResponse(c, doc)
}

// GetSystemHealth returns system health check
// GET /api/admin/system/health
func (h *AdminHandler) GetSystemHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	storeStatus := "online"
	if err := h.health.Ping(ctx); err != nil {
		storeStatus = "degraded"
	}

	return SuccessResponse(c, map[string]interface{}{
		"status":       "healthy",
		"timestamp":    time.Now().Format(time.RFC3339),
		"store_driver": h.driver,
		"store_status": storeStatus,
	})
}
