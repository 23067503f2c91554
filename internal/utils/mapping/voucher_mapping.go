package mapping

import (
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/gridops/utility_ledger_app/internal/models"
)

// ToModelVoucher converts a domain Voucher to a model Voucher
func ToModelVoucher(d domain.Voucher) models.Voucher {
	return models.Voucher{
		VoucherID:        d.VoucherID,
		BusinessID:       d.BusinessID,
		Direction:        models.VoucherDirection(d.Direction),
		TreasuryID:       d.TreasuryID,
		PartyID:          d.PartyID,
		CounterAccountID: d.CounterAccountID,
		Amount:           d.Amount,
		CurrencyCode:     d.CurrencyCode,
		VoucherDate:      d.VoucherDate,
		Description:      d.Description,
		Status:           models.VoucherStatus(d.Status),
		EntryID:          d.EntryID,
		ReversingEntryID: d.ReversingEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucher converts a model Voucher to a domain Voucher
func ToDomainVoucher(m models.Voucher) domain.Voucher {
	return domain.Voucher{
		VoucherID:        m.VoucherID,
		BusinessID:       m.BusinessID,
		Direction:        domain.VoucherDirection(m.Direction),
		TreasuryID:       m.TreasuryID,
		PartyID:          m.PartyID,
		CounterAccountID: m.CounterAccountID,
		Amount:           m.Amount,
		CurrencyCode:     m.CurrencyCode,
		VoucherDate:      m.VoucherDate,
		Description:      m.Description,
		Status:           domain.VoucherStatus(m.Status),
		EntryID:          m.EntryID,
		ReversingEntryID: m.ReversingEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainVoucherSlice converts a slice of model Vouchers to domain Vouchers
func ToDomainVoucherSlice(ms []models.Voucher) []domain.Voucher {
	ds := make([]domain.Voucher, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainVoucher(m)
	}
	return ds
}
