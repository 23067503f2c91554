package dto

import (
	"time"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTreasuryRequest defines the payload for creating a cash/bank pool.
type CreateTreasuryRequest struct {
	Code            string `json:"code" binding:"required"`
	Name            string `json:"name" binding:"required"`
	TreasuryType    string `json:"treasuryType" binding:"required,oneof=CASH BANK"`
	LinkedAccountID string `json:"linkedAccountID" binding:"required"`
	CurrencyCode    string `json:"currencyCode" binding:"required,len=3"`
}

// TreasuryResponse defines the data returned for a treasury.
type TreasuryResponse struct {
	TreasuryID      string          `json:"treasuryID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	TreasuryType    string          `json:"treasuryType"`
	LinkedAccountID string          `json:"linkedAccountID"`
	CurrencyCode    string          `json:"currencyCode"`
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// TransferRequest defines the payload for a treasury-to-treasury transfer.
type TransferRequest struct {
	FromTreasuryID string          `json:"fromTreasuryID" binding:"required"`
	ToTreasuryID   string          `json:"toTreasuryID" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"dgt0"`
	Date           time.Time       `json:"date" binding:"required"`
	Description    string          `json:"description"`
}

// MovementResponse defines the data returned for one treasury movement.
type MovementResponse struct {
	MovementID    string          `json:"movementID"`
	Direction     string          `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	VoucherID     string          `json:"voucherID,omitempty"`
	EntryID       string          `json:"entryID"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListMovementsResponse wraps a page of treasury movements.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToTreasuryResponse converts a domain.Treasury to TreasuryResponse DTO.
func ToTreasuryResponse(t *domain.Treasury) TreasuryResponse {
	return TreasuryResponse{
		TreasuryID:      t.TreasuryID,
		Code:            t.Code,
		Name:            t.Name,
		TreasuryType:    string(t.TreasuryType),
		LinkedAccountID: t.LinkedAccountID,
		CurrencyCode:    t.CurrencyCode,
		IsActive:        t.IsActive,
		Balance:         t.Balance,
		CreatedAt:       t.CreatedAt,
	}
}

// ToTreasuryResponses converts a slice of domain treasuries to response DTOs.
func ToTreasuryResponses(treasuries []domain.Treasury) []TreasuryResponse {
	responses := make([]TreasuryResponse, len(treasuries))
	for i := range treasuries {
		responses[i] = ToTreasuryResponse(&treasuries[i])
	}
	return responses
}

// ToMovementResponse converts a domain.TreasuryMovement to MovementResponse DTO.
func ToMovementResponse(m *domain.TreasuryMovement) MovementResponse {
	return MovementResponse{
		MovementID:    m.MovementID,
		Direction:     string(m.Direction),
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		VoucherID:     m.VoucherID,
		EntryID:       m.EntryID,
		CreatedAt:     m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of domain movements to response DTOs.
func ToMovementResponses(movements []domain.TreasuryMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}
