package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/dto"
	"github.com/fincast/fincast/internal/platform/logging"
)

// systemAccountNames maps each provisioned system account type to its
// display name.
var systemAccountNames = map[domain.AccountType]string{
	domain.Income:          "Income",
	domain.Expense:         "Expenses",
	domain.InterestExpense: "Interest Expense",
	domain.Equity:          "Equity",
}

// ownerService manages owners. Creating an owner also provisions the system
// accounts every posted event needs to balance against, plus the starter set
// of expense categories.
type ownerService struct {
	ownerRepo    portsrepo.OwnerRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewOwnerService creates a new OwnerService.
func NewOwnerService(ownerRepo portsrepo.OwnerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.OwnerSvcFacade {
	return &ownerService{
		ownerRepo:    ownerRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
	}
}

var _ portssvc.OwnerSvcFacade = (*ownerService)(nil)

// CreateOwner registers an owner, hashes the password, sets the initial
// simulated date and provisions the per-owner system accounts.
func (s *ownerService) CreateOwner(ctx context.Context, req dto.CreateOwnerRequest) (*domain.Owner, error) {
	logger := logging.FromCtx(ctx)

	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.ownerRepo.FindOwnerByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %s", apperrors.ErrDuplicate, req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	owner := domain.Owner{
		OwnerID:      uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
		CurrentDate:  req.StartDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.Username,
			LastUpdatedAt: now,
			LastUpdatedBy: req.Username,
		},
	}

	if err := s.ownerRepo.SaveOwner(ctx, owner); err != nil {
		logger.Error("Failed to save owner", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save owner: %w", err)
	}

	for accountType, name := range systemAccountNames {
		account := domain.Account{
			AccountID:   uuid.NewString(),
			OwnerID:     owner.OwnerID,
			Name:        name,
			AccountType: accountType,
			Balance:     decimal.Zero,
			IsSystem:    true,
			IsActive:    true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     owner.OwnerID,
				LastUpdatedAt: now,
				LastUpdatedBy: owner.OwnerID,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			logger.Error("Failed to provision system account",
				slog.String("error", err.Error()),
				slog.String("type", string(accountType)),
				slog.String("owner_id", owner.OwnerID))
			return nil, fmt.Errorf("failed to provision %s account: %w", accountType, err)
		}
	}

	for _, def := range defaultCategories {
		category := domain.Category{
			CategoryID: uuid.NewString(),
			OwnerID:    owner.OwnerID,
			Name:       def.name,
			Color:      def.color,
			IsDefault:  def.isDefault,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     owner.OwnerID,
				LastUpdatedAt: now,
				LastUpdatedBy: owner.OwnerID,
			},
		}
		if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
			logger.Error("Failed to provision category",
				slog.String("error", err.Error()),
				slog.String("name", def.name),
				slog.String("owner_id", owner.OwnerID))
			return nil, fmt.Errorf("failed to provision category %s: %w", def.name, err)
		}
	}

	logger.Info("Owner created", slog.String("owner_id", owner.OwnerID), slog.String("start_date", owner.CurrentDate.String()))
	return &owner, nil
}

// GetOwner retrieves an owner by ID.
func (s *ownerService) GetOwner(ctx context.Context, ownerID string) (*domain.Owner, error) {
	return s.ownerRepo.FindOwnerByID(ctx, ownerID)
}

// VerifyPassword checks credentials. Both a missing username and a wrong
// password come back as ErrNotFound so callers cannot probe for usernames.
func (s *ownerService) VerifyPassword(ctx context.Context, username, password string) (*domain.Owner, error) {
	owner, err := s.ownerRepo.FindOwnerByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find owner: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrNotFound
	}
	return owner, nil
}

// DeleteOwner soft-deletes the owner and removes all dependent state.
func (s *ownerService) DeleteOwner(ctx context.Context, ownerID string) error {
	logger := logging.FromCtx(ctx)

	if _, err := s.ownerRepo.FindOwnerByID(ctx, ownerID); err != nil {
		return err
	}
	if err := s.ownerRepo.DeleteOwner(ctx, ownerID, time.Now().UTC()); err != nil {
		logger.Error("Failed to delete owner", slog.String("error", err.Error()), slog.String("owner_id", ownerID))
		return fmt.Errorf("failed to delete owner: %w", err)
	}
	logger.Info("Owner deleted", slog.String("owner_id", ownerID))
	return nil
}
