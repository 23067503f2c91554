package mapping

import (
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/gridops/utility_ledger_app/internal/models"
)

// ToModelTreasury converts a domain Treasury to a model Treasury
func ToModelTreasury(d domain.Treasury) models.Treasury {
	return models.Treasury{
		TreasuryID:      d.TreasuryID,
		BusinessID:      d.BusinessID,
		Code:            d.Code,
		Name:            d.Name,
		TreasuryType:    models.TreasuryType(d.TreasuryType),
		LinkedAccountID: d.LinkedAccountID,
		CurrencyCode:    d.CurrencyCode,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
		Balance:         d.Balance,
	}
}

// ToDomainTreasury converts a model Treasury to a domain Treasury
func ToDomainTreasury(m models.Treasury) domain.Treasury {
	return domain.Treasury{
		TreasuryID:      m.TreasuryID,
		BusinessID:      m.BusinessID,
		Code:            m.Code,
		Name:            m.Name,
		TreasuryType:    domain.TreasuryType(m.TreasuryType),
		LinkedAccountID: m.LinkedAccountID,
		CurrencyCode:    m.CurrencyCode,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
		Balance:         m.Balance,
	}
}

// ToDomainTreasuryMovement converts a model TreasuryMovement to a domain TreasuryMovement
func ToDomainTreasuryMovement(m models.TreasuryMovement) domain.TreasuryMovement {
	return domain.TreasuryMovement{
		MovementID:    m.MovementID,
		TreasuryID:    m.TreasuryID,
		Direction:     domain.MovementDirection(m.Direction),
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		VoucherID:     m.VoucherID,
		EntryID:       m.EntryID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTreasuryMovementSlice converts a slice of model movements to domain movements
func ToDomainTreasuryMovementSlice(ms []models.TreasuryMovement) []domain.TreasuryMovement {
	ds := make([]domain.TreasuryMovement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTreasuryMovement(m)
	}
	return ds
}
