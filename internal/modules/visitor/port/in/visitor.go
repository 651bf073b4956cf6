package in

import (
	"context"

	"visitlog/internal/modules/visitor/dto"
)

type Usecase interface {
	Register(ctx context.Context, input dto.RegisterInput) (dto.ProfileOutput, error)
	RegisterByAdmin(ctx context.Context, input dto.RegisterInput) (dto.ProfileOutput, error)
	Authenticate(ctx context.Context, input dto.LoginInput) (dto.ProfileOutput, error)
	GetProfile(ctx context.Context, id string) (dto.ProfileOutput, error)
}
