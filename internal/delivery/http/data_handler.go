package http

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"propshare/internal/delivery/http/dto"
	"propshare/internal/middleware"
	"propshare/internal/usecase"
)

// DataHandler serves the investor dashboard and its actions
type DataHandler struct {
	ledger *usecase.LedgerService
}

// NewDataHandler creates a new DataHandler
func NewDataHandler(ledger *usecase.LedgerService) *DataHandler {
	return &DataHandler{ledger: ledger}
}

// GetData returns the caller's dashboard. Due investments are matured first.
// GET /api/data[?userId=]
func (h *DataHandler) GetData(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Unauthorized")
	}

	if !ownsUserID(c, userID, c.QueryParam("userId")) {
		return ForbiddenResponse(c, "You can only access your own data")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	dash, err := h.ledger.Dashboard(ctx, userID)
	if err != nil {
		return LedgerErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.NewDashboardOutput(dash))
}

// ownsUserID reports whether a userId sent by the client names the caller.
// Either the internal id or the public id is accepted; an empty value means the caller.
func ownsUserID(c echo.Context, userID uuid.UUID, requested string) bool {
	if requested == "" {
		return true
	}
	publicID, _ := c.Get("public_id").(string)
	return requested == userID.String() || requested == publicID
}

// PostData runs a deposit, withdraw or invest action for the caller
// POST /api/data
func (h *DataHandler) PostData(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Unauthorized")
	}

	var req dto.DataActionRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if !ownsUserID(c, userID, req.UserID) {
		return ForbiddenResponse(c, "You can only act on your own account")
	}
	if len(req.Payload) == 0 {
		return BadRequestResponse(c, "Payload is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch req.Action {
	case dto.ActionDeposit:
		var p dto.DepositPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return BadRequestResponse(c, "Invalid deposit payload")
		}
		tx, err := h.ledger.Deposit(ctx, userID, p.Amount)
		if err != nil {
			return LedgerErrorResponse(c, err)
		}
		return SuccessMessageResponse(c, fmt.Sprintf("Deposited $%s", p.Amount.StringFixed(2)), tx)

	case dto.ActionWithdraw:
		var p dto.WithdrawPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return BadRequestResponse(c, "Invalid withdraw payload")
		}
		wr, err := h.ledger.Withdraw(ctx, usecase.WithdrawInput{
			UserID:            userID,
			Amount:            p.Amount,
			Clabe:             p.Clabe,
			AccountHolderName: p.AccountHolderName,
		})
		if err != nil {
			return LedgerErrorResponse(c, err)
		}
		return SuccessMessageResponse(c, "Withdrawal request submitted for review", wr)

	case dto.ActionInvest:
		var p dto.InvestPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return BadRequestResponse(c, "Invalid invest payload")
		}
		inv, err := h.ledger.Invest(ctx, usecase.InvestInput{
			UserID:     userID,
			PropertyID: p.PropertyID,
			Amount:     p.Amount,
			Term:       p.Term,
		})
		if err != nil {
			return LedgerErrorResponse(c, err)
		}
		return SuccessMessageResponse(c, fmt.Sprintf("Invested $%s for %d days", p.Amount.StringFixed(2), p.Term), inv)

	default:
		return BadRequestResponse(c, fmt.Sprintf("Unknown action %q", req.Action))
	}
}
