package in

import (
	"context"

	"visitlog/internal/modules/presence/dto"
)

type Usecase interface {
	CheckIn(ctx context.Context, input dto.CheckInInput) (dto.CheckInOutput, error)
	CheckOut(ctx context.Context, input dto.CheckOutInput) (dto.CheckOutOutput, error)
	ForceCheckOut(ctx context.Context, input dto.CheckOutInput) (dto.CheckOutOutput, error)
	ForceCheckOutAll(ctx context.Context, input dto.ForceCheckOutAllInput) (dto.DeactivateAllOutput, error)
	ListActive(ctx context.Context) ([]dto.ActiveVisitorOutput, error)
	ListAll(ctx context.Context) ([]dto.VisitorOutput, error)
	Status(ctx context.Context, visitorID string) (dto.StatusOutput, error)
	Audit(ctx context.Context) ([]dto.ViolationOutput, error)
}
