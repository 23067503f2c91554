package mapping

import (
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/gridops/utility_ledger_app/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		BusinessID:       d.BusinessID,
		EntryNumber:      d.EntryNumber,
		EntryDate:        d.EntryDate,
		SourceType:       d.SourceType,
		SourceID:         d.SourceID,
		Description:      d.Description,
		Status:           models.EntryStatus(d.Status),
		OriginalEntryID:  d.OriginalEntryID,
		ReversingEntryID: d.ReversingEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		BusinessID:       m.BusinessID,
		EntryNumber:      m.EntryNumber,
		EntryDate:        m.EntryDate,
		SourceType:       m.SourceType,
		SourceID:         m.SourceID,
		Description:      m.Description,
		Status:           domain.EntryStatus(m.Status),
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		AccountID:    d.AccountID,
		Debit:        d.Debit,
		Credit:       d.Credit,
		CurrencyCode: d.CurrencyCode,
		ExchangeRate: d.ExchangeRate,
		BaseDebit:    d.BaseDebit,
		BaseCredit:   d.BaseCredit,
		LineNo:       d.LineNo,
		Description:  d.Description,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		AccountID:    m.AccountID,
		Debit:        m.Debit,
		Credit:       m.Credit,
		CurrencyCode: m.CurrencyCode,
		ExchangeRate: m.ExchangeRate,
		BaseDebit:    m.BaseDebit,
		BaseCredit:   m.BaseCredit,
		LineNo:       m.LineNo,
		Description:  m.Description,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
