package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gridops/utility_ledger_app/internal/apperrors"
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	portsrepo "github.com/gridops/utility_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/gridops/utility_ledger_app/internal/core/ports/services"
	"github.com/gridops/utility_ledger_app/internal/dto"
	"github.com/gridops/utility_ledger_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// accountService provides chart-of-accounts operations.
type accountService struct {
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, currencyRepo portsrepo.CurrencyRepository) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a node of the chart of accounts after validating the
// code, the currency and the parent linkage.
func (s *accountService) CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountType := domain.AccountType(req.AccountType)
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown currency %q", apperrors.ErrValidation, req.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency: %w", err)
	}

	// Codes are unique per business scope
	if existing, err := s.accountRepo.FindAccountByCode(ctx, businessID, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: account code %q", apperrors.ErrDuplicateCode, req.Code)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code uniqueness: %w", err)
	}

	level := 1
	if req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent %s not found", apperrors.ErrInvalidParent, req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}
		if parent.BusinessID != businessID {
			return nil, fmt.Errorf("%w: parent %s belongs to a different business", apperrors.ErrInvalidParent, req.ParentAccountID)
		}
		if !parent.IsActive {
			return nil, fmt.Errorf("%w: parent %s is inactive", apperrors.ErrInvalidParent, req.ParentAccountID)
		}
		level = parent.Level + 1
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		BusinessID:      businessID,
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     accountType,
		CurrencyCode:    req.CurrencyCode,
		ParentAccountID: req.ParentAccountID,
		Level:           level,
		IsActive:        true,
		Balance:         decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account code %q", apperrors.ErrDuplicateCode, req.Code)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// UpdateAccount updates the mutable account fields. A type change is rejected
// once any posted journal line references the account.
func (s *accountService) UpdateAccount(ctx context.Context, businessID, accountID string, req dto.UpdateAccountRequest, updaterUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, businessID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	if req.AccountType != nil {
		newType := domain.AccountType(*req.AccountType)
		if !newType.IsValid() {
			return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *req.AccountType)
		}
		if newType != account.AccountType {
			referenced, err := s.accountRepo.HasPostedLines(ctx, accountID)
			if err != nil {
				return nil, fmt.Errorf("failed to check posted lines: %w", err)
			}
			if referenced {
				return nil, fmt.Errorf("%w: account type is immutable once posted lines reference the account", apperrors.ErrValidation)
			}
			account.AccountType = newType
		}
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = updaterUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// GetAccountByID retrieves an account, obscuring existence across businesses.
func (s *accountService) GetAccountByID(ctx context.Context, businessID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountsByIDs retrieves multiple accounts, all of which must belong to the business.
func (s *accountService) GetAccountsByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for id, acc := range accounts {
		if acc.BusinessID != businessID {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// ListAccounts retrieves the business chart of accounts.
func (s *accountService) ListAccounts(ctx context.Context, businessID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccountsByBusiness(ctx, businessID)
}

// ResolveBalance recomputes an account balance from posted journal lines up to
// asOf. The cached balance column is deliberately not consulted here.
func (s *accountService) ResolveBalance(ctx context.Context, businessID, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	if _, err := s.GetAccountByID(ctx, businessID, accountID); err != nil {
		return decimal.Zero, err
	}
	return s.accountRepo.ResolveBalance(ctx, accountID, asOf)
}
