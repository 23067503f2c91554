package dto

import (
	"time"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateVoucherRequest defines the payload for creating a draft voucher.
type CreateVoucherRequest struct {
	Direction        string          `json:"direction" binding:"required,oneof=RECEIPT PAYMENT"`
	TreasuryID       string          `json:"treasuryID" binding:"required"`
	PartyID          string          `json:"partyID"` // optional
	CounterAccountID string          `json:"counterAccountID" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"dgt0"`
	CurrencyCode     string          `json:"currencyCode" binding:"required,len=3"`
	Date             time.Time       `json:"date" binding:"required"`
	Description      string          `json:"description" binding:"required"`
}

// VoucherResponse defines the data returned for a voucher.
type VoucherResponse struct {
	VoucherID        string          `json:"voucherID"`
	Direction        string          `json:"direction"`
	TreasuryID       string          `json:"treasuryID"`
	PartyID          string          `json:"partyID,omitempty"`
	CounterAccountID string          `json:"counterAccountID"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currencyCode"`
	Date             time.Time       `json:"date"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	EntryID          string          `json:"entryID,omitempty"`
	ReversingEntryID string          `json:"reversingEntryID,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// ListVouchersParams holds parameters for listing vouchers.
type ListVouchersParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListVouchersResponse wraps a page of vouchers.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToVoucherResponse converts a domain.Voucher to VoucherResponse DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	return VoucherResponse{
		VoucherID:        v.VoucherID,
		Direction:        string(v.Direction),
		TreasuryID:       v.TreasuryID,
		PartyID:          v.PartyID,
		CounterAccountID: v.CounterAccountID,
		Amount:           v.Amount,
		CurrencyCode:     v.CurrencyCode,
		Date:             v.VoucherDate,
		Description:      v.Description,
		Status:           string(v.Status),
		EntryID:          v.EntryID,
		ReversingEntryID: v.ReversingEntryID,
		CreatedAt:        v.CreatedAt,
		CreatedBy:        v.CreatedBy,
	}
}

// ToVoucherResponses converts a slice of domain vouchers to response DTOs.
func ToVoucherResponses(vouchers []domain.Voucher) []VoucherResponse {
	responses := make([]VoucherResponse, len(vouchers))
	for i := range vouchers {
		responses[i] = ToVoucherResponse(&vouchers[i])
	}
	return responses
}
