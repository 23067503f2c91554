package services

import (
	"context"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/gridops/utility_ledger_app/internal/dto"
)

// VoucherSvcFacade defines the voucher engine operations exposed to callers.
type VoucherSvcFacade interface {
	// CreateVoucher records a draft receipt/payment voucher. Amount must be
	// strictly positive; fails with ErrInvalidAmount otherwise.
	CreateVoucher(ctx context.Context, businessID string, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error)

	// GetVoucherByID retrieves a voucher scoped to the business.
	GetVoucherByID(ctx context.Context, businessID, voucherID string) (*domain.Voucher, error)

	// ListVouchers retrieves a page of the business vouchers, newest first.
	ListVouchers(ctx context.Context, businessID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)

	// PostVoucher transitions a draft voucher to posted, creating its balanced
	// journal entry, treasury movement and optional party transaction in one
	// atomic unit of work. Fails with ErrAlreadyPosted if not draft and with
	// ErrInsufficientFunds if a payment exceeds the treasury balance.
	PostVoucher(ctx context.Context, businessID, voucherID, userID string) (*domain.Voucher, error)

	// VoidVoucher reverses a posted voucher with an offsetting entry and
	// reversing movements, then marks it void. Historical rows are never
	// deleted or mutated.
	VoidVoucher(ctx context.Context, businessID, voucherID, userID string) (*domain.Voucher, error)
}
