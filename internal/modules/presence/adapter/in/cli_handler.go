package in

import (
	"context"

	"visitlog/internal/modules/presence/dto"
	presencein "visitlog/internal/modules/presence/port/in"
)

type CLIHandler struct {
	usecase presencein.Usecase
}

func NewCLIHandler(usecase presencein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) CheckIn(ctx context.Context, visitorID, purpose string) (dto.CheckInOutput, error) {
	return h.usecase.CheckIn(ctx, dto.CheckInInput{VisitorID: visitorID, Purpose: purpose})
}

func (h CLIHandler) CheckOut(ctx context.Context, visitorID, experience, targetMet string) (dto.CheckOutOutput, error) {
	return h.usecase.CheckOut(ctx, dto.CheckOutInput{VisitorID: visitorID, Experience: experience, TargetMet: targetMet})
}

func (h CLIHandler) ForceCheckOut(ctx context.Context, visitorID string) (dto.CheckOutOutput, error) {
	return h.usecase.ForceCheckOut(ctx, dto.CheckOutInput{VisitorID: visitorID})
}

func (h CLIHandler) ForceCheckOutAll(ctx context.Context) (dto.DeactivateAllOutput, error) {
	return h.usecase.ForceCheckOutAll(ctx, dto.ForceCheckOutAllInput{})
}

func (h CLIHandler) ListActive(ctx context.Context) ([]dto.ActiveVisitorOutput, error) {
	return h.usecase.ListActive(ctx)
}

func (h CLIHandler) ListAll(ctx context.Context) ([]dto.VisitorOutput, error) {
	return h.usecase.ListAll(ctx)
}

func (h CLIHandler) Audit(ctx context.Context) ([]dto.ViolationOutput, error) {
	return h.usecase.Audit(ctx)
}
