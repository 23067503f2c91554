package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gridops/utility_ledger_app/internal/apperrors"
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	portsrepo "github.com/gridops/utility_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/gridops/utility_ledger_app/internal/core/ports/services"
	"github.com/gridops/utility_ledger_app/internal/dto"
	"github.com/gridops/utility_ledger_app/internal/middleware"
)

type partyService struct {
	partyRepo portsrepo.PartyRepositoryFacade
}

// NewPartyService creates a new PartyService.
func NewPartyService(partyRepo portsrepo.PartyRepositoryFacade) portssvc.PartySvcFacade {
	return &partyService{partyRepo: partyRepo}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

// CreateParty registers a customer or supplier with a zero opening balance.
func (s *partyService) CreateParty(ctx context.Context, businessID string, req dto.CreatePartyRequest, creatorUserID string) (*domain.Party, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	kind := domain.PartyKind(req.Kind)
	if kind != domain.Customer && kind != domain.Supplier {
		return nil, fmt.Errorf("%w: invalid party kind %q", apperrors.ErrValidation, req.Kind)
	}

	now := time.Now().UTC()
	party := domain.Party{
		PartyID:    uuid.NewString(),
		BusinessID: businessID,
		Code:       req.Code,
		Name:       req.Name,
		Kind:       kind,
		IsActive:   true,
		Balance:    decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.partyRepo.SaveParty(ctx, party); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: party code %q already exists", apperrors.ErrDuplicateCode, req.Code)
		}
		logger.Error("Failed to save party", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save party: %w", err)
	}

	logger.Info("Party created", slog.String("party_id", party.PartyID), slog.String("code", party.Code))
	return &party, nil
}

// GetPartyByID retrieves a party scoped to the business.
func (s *partyService) GetPartyByID(ctx context.Context, businessID, partyID string) (*domain.Party, error) {
	party, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if party.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}
	return party, nil
}

// ListParties retrieves all parties of the business.
func (s *partyService) ListParties(ctx context.Context, businessID string) ([]domain.Party, error) {
	return s.partyRepo.ListPartiesByBusiness(ctx, businessID)
}

// ListTransactions retrieves a page of the party's statement, newest first.
func (s *partyService) ListTransactions(ctx context.Context, businessID, partyID string, limit int, nextToken *string) (*dto.ListPartyTransactionsResponse, error) {
	if _, err := s.GetPartyByID(ctx, businessID, partyID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	txns, token, err := s.partyRepo.ListTransactionsByPartyID(ctx, partyID, limit, nextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve party transactions: %w", err)
	}
	return &dto.ListPartyTransactionsResponse{Transactions: dto.ToPartyTransactionResponses(txns), NextToken: token}, nil
}
