package dto

import (
	"time"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePartyRequest defines the payload for creating a customer/supplier.
type CreatePartyRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
	Kind string `json:"kind" binding:"required,oneof=CUSTOMER SUPPLIER"`
}

// PartyResponse defines the data returned for a party.
type PartyResponse struct {
	PartyID   string          `json:"partyID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	IsActive  bool            `json:"isActive"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}

// PartyTransactionResponse defines one step of a party statement.
type PartyTransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	ReferenceType string          `json:"referenceType"`
	ReferenceID   string          `json:"referenceID"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListPartyTransactionsResponse wraps a page of party transactions.
type ListPartyTransactionsResponse struct {
	Transactions []PartyTransactionResponse `json:"transactions"`
	NextToken    *string                    `json:"nextToken,omitempty"`
}

// ToPartyResponse converts a domain.Party to PartyResponse DTO.
func ToPartyResponse(p *domain.Party) PartyResponse {
	return PartyResponse{
		PartyID:   p.PartyID,
		Code:      p.Code,
		Name:      p.Name,
		Kind:      string(p.Kind),
		IsActive:  p.IsActive,
		Balance:   p.Balance,
		CreatedAt: p.CreatedAt,
	}
}

// ToPartyResponses converts a slice of domain parties to response DTOs.
func ToPartyResponses(parties []domain.Party) []PartyResponse {
	responses := make([]PartyResponse, len(parties))
	for i := range parties {
		responses[i] = ToPartyResponse(&parties[i])
	}
	return responses
}

// ToPartyTransactionResponses converts domain party transactions to response DTOs.
func ToPartyTransactionResponses(txns []domain.PartyTransaction) []PartyTransactionResponse {
	responses := make([]PartyTransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = PartyTransactionResponse{
			TransactionID: txn.TransactionID,
			Kind:          string(txn.Kind),
			Amount:        txn.Amount,
			BalanceBefore: txn.BalanceBefore,
			BalanceAfter:  txn.BalanceAfter,
			ReferenceType: txn.ReferenceType,
			ReferenceID:   txn.ReferenceID,
			CreatedAt:     txn.CreatedAt,
		}
	}
	return responses
}
