package mapping

import (
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/gridops/utility_ledger_app/internal/models"
)

// ToModelParty converts a domain Party to a model Party
func ToModelParty(d domain.Party) models.Party {
	return models.Party{
		PartyID:     d.PartyID,
		BusinessID:  d.BusinessID,
		Code:        d.Code,
		Name:        d.Name,
		Kind:        models.PartyKind(d.Kind),
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
		Balance:     d.Balance,
	}
}

// ToDomainParty converts a model Party to a domain Party
func ToDomainParty(m models.Party) domain.Party {
	return domain.Party{
		PartyID:     m.PartyID,
		BusinessID:  m.BusinessID,
		Code:        m.Code,
		Name:        m.Name,
		Kind:        domain.PartyKind(m.Kind),
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
		Balance:     m.Balance,
	}
}

// ToDomainPartyTransaction converts a model PartyTransaction to a domain PartyTransaction
func ToDomainPartyTransaction(m models.PartyTransaction) domain.PartyTransaction {
	return domain.PartyTransaction{
		TransactionID: m.TransactionID,
		PartyID:       m.PartyID,
		Kind:          domain.PartyTransactionKind(m.Kind),
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPartyTransactionSlice converts a slice of model party transactions to domain
func ToDomainPartyTransactionSlice(ms []models.PartyTransaction) []domain.PartyTransaction {
	ds := make([]domain.PartyTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPartyTransaction(m)
	}
	return ds
}
