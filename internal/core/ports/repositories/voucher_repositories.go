package repositories

import (
	"context"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
)

// VoucherReader defines read operations for voucher data
type VoucherReader interface {
	// FindVoucherByID retrieves a voucher by its unique identifier.
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// ListVouchersByBusiness retrieves a paginated list of vouchers, newest first.
	ListVouchersByBusiness(ctx context.Context, businessID string, limit int, nextToken *string) ([]domain.Voucher, *string, error)
}

// VoucherWriter defines write operations for voucher data. Posting and voiding
// are not here: they belong to the posting engine's atomic unit of work.
type VoucherWriter interface {
	// SaveVoucher inserts a new draft voucher.
	SaveVoucher(ctx context.Context, voucher domain.Voucher) error
}

// VoucherRepositoryFacade combines all voucher repository interfaces
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
}
