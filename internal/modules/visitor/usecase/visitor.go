package usecase

import (
	"context"

	"visitlog/internal/modules/visitor/domain"
	"visitlog/internal/modules/visitor/dto"
	visitorin "visitlog/internal/modules/visitor/port/in"
	"visitlog/internal/modules/visitor/service"
	"visitlog/internal/platform/calendar"
)

type Interactor struct {
	svc *service.VisitorService
}

func NewInteractor(svc *service.VisitorService) visitorin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) (dto.ProfileOutput, error) {
	profile, err := i.svc.Register(ctx, toRegistration(input))
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toOutput(profile), nil
}

func (i *Interactor) RegisterByAdmin(ctx context.Context, input dto.RegisterInput) (dto.ProfileOutput, error) {
	profile, err := i.svc.RegisterByAdmin(ctx, toRegistration(input))
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toOutput(profile), nil
}

func (i *Interactor) Authenticate(ctx context.Context, input dto.LoginInput) (dto.ProfileOutput, error) {
	profile, err := i.svc.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toOutput(profile), nil
}

func (i *Interactor) GetProfile(ctx context.Context, id string) (dto.ProfileOutput, error) {
	profile, err := i.svc.GetProfile(ctx, id)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toOutput(profile), nil
}

func toRegistration(input dto.RegisterInput) domain.Registration {
	return domain.Registration{
		FirstName:       input.FirstName,
		MiddleName:      input.MiddleName,
		LastName:        input.LastName,
		Username:        input.Username,
		Gender:          input.Gender,
		DateOfBirth:     input.DateOfBirth,
		Phone:           input.Phone,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
		Role:            domain.Role(input.Role),
	}
}

func toOutput(p domain.Profile) dto.ProfileOutput {
	out := dto.ProfileOutput{
		ID:         p.ID,
		Username:   p.Username,
		FullName:   p.FullName(),
		FirstName:  p.FirstName,
		MiddleName: p.MiddleName,
		LastName:   p.LastName,
		Gender:     p.Gender,
		Phone:      p.Phone,
		Role:       string(p.Role),
		CreatedAt:  p.CreatedAt,
	}
	if !p.DateOfBirth.IsZero() {
		out.DateOfBirth = p.DateOfBirth.Format(calendar.DateLayout)
	}
	return out
}
