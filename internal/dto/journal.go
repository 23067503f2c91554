package dto

import (
	"time"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest defines one line of a postEntry request. Exactly one of
// Debit/Credit must be positive; the other must be zero or absent.
type EntryLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Debit        decimal.Decimal `json:"debit" binding:"dgte0"`
	Credit       decimal.Decimal `json:"credit" binding:"dgte0"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate decimal.Decimal `json:"exchangeRate" binding:"dgt0"`
	Description  string          `json:"description"`
}

// PostEntryRequest defines the payload for posting a generic journal entry.
type PostEntryRequest struct {
	SourceType  string             `json:"sourceType" binding:"required"`
	SourceID    string             `json:"sourceID" binding:"required"`
	Date        time.Time          `json:"date" binding:"required"`
	Description string             `json:"description" binding:"required"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// LineResponse defines the data returned for one journal line.
type LineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	BaseDebit    decimal.Decimal `json:"baseDebit"`
	BaseCredit   decimal.Decimal `json:"baseCredit"`
	LineNo       int             `json:"lineNo"`
	Description  string          `json:"description,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID          string         `json:"entryID"`
	EntryNumber      string         `json:"entryNumber"`
	Date             time.Time      `json:"date"`
	SourceType       string         `json:"sourceType"`
	SourceID         string         `json:"sourceID"`
	Description      string         `json:"description"`
	Status           string         `json:"status"`
	OriginalEntryID  *string        `json:"originalEntryID,omitempty"`
	ReversingEntryID *string        `json:"reversingEntryID,omitempty"`
	Lines            []LineResponse `json:"lines,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	CreatedBy        string         `json:"createdBy"`
}

// ListEntriesParams holds parameters for listing journal entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of journal entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLineResponses converts domain journal lines to response DTOs.
func ToLineResponses(lines []domain.JournalLine) []LineResponse {
	responses := make([]LineResponse, len(lines))
	for i, line := range lines {
		responses[i] = LineResponse{
			LineID:       line.LineID,
			AccountID:    line.AccountID,
			Debit:        line.Debit,
			Credit:       line.Credit,
			CurrencyCode: line.CurrencyCode,
			ExchangeRate: line.ExchangeRate,
			BaseDebit:    line.BaseDebit,
			BaseCredit:   line.BaseCredit,
			LineNo:       line.LineNo,
			Description:  line.Description,
		}
	}
	return responses
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:          e.EntryID,
		EntryNumber:      e.EntryNumber,
		Date:             e.EntryDate,
		SourceType:       e.SourceType,
		SourceID:         e.SourceID,
		Description:      e.Description,
		Status:           string(e.Status),
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
		Lines:            ToLineResponses(e.Lines),
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
}
