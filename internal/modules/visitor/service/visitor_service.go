package service

import (
	"context"
	"errors"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"visitlog/internal/modules/visitor/domain"
	visitorout "visitlog/internal/modules/visitor/port/out"
	"visitlog/internal/platform/clock"
	apperrors "visitlog/internal/platform/errors"
	"visitlog/internal/platform/id"
)

type VisitorService struct {
	clock  clock.Clock
	idGen  id.Generator
	store  visitorout.ProfileStore
	hasher visitorout.PasswordHasher
	logger hclog.Logger
}

func NewVisitorService(clock clock.Clock, idGen id.Generator, store visitorout.ProfileStore, hasher visitorout.PasswordHasher, logger hclog.Logger) *VisitorService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &VisitorService{clock: clock, idGen: idGen, store: store, hasher: hasher, logger: logger}
}

// Register creates a self-service account with the user role.
func (s *VisitorService) Register(ctx context.Context, reg domain.Registration) (domain.Profile, error) {
	reg = reg.Normalize()
	reg.Role = domain.RoleUser
	if err := reg.ValidateSelf(s.clock.Now()); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return s.create(ctx, reg)
}

// RegisterByAdmin creates an account on behalf of an administrator. An empty
// role defaults to user.
func (s *VisitorService) RegisterByAdmin(ctx context.Context, reg domain.Registration) (domain.Profile, error) {
	reg = reg.Normalize()
	if reg.Role == "" {
		reg.Role = domain.RoleUser
	}
	if err := reg.ValidateAdmin(); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return s.create(ctx, reg)
}

func (s *VisitorService) Authenticate(ctx context.Context, username, password string) (domain.Profile, error) {
	profile, err := s.store.FindByUsername(ctx, username)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.Profile{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return domain.Profile{}, err
	}
	if err := s.hasher.Compare(profile.PasswordHash, password); err != nil {
		return domain.Profile{}, apperrors.ErrInvalidCredentials
	}
	return profile, nil
}

func (s *VisitorService) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	return s.store.FindByID(ctx, id)
}

func (s *VisitorService) create(ctx context.Context, reg domain.Registration) (domain.Profile, error) {
	dob, err := reg.BirthDate()
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("hash password: %w", err)
	}
	profile := domain.Profile{
		ID:           s.idGen.New(),
		Username:     reg.Username,
		FirstName:    reg.FirstName,
		MiddleName:   reg.MiddleName,
		LastName:     reg.LastName,
		Gender:       reg.Gender,
		DateOfBirth:  dob,
		Phone:        reg.Phone,
		PasswordHash: hash,
		Role:         reg.Role,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.store.Create(ctx, profile); err != nil {
		return domain.Profile{}, err
	}
	s.logger.Info("visitor registered", "visitor_id", profile.ID, "role", profile.Role)
	return profile, nil
}
