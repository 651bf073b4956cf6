package in

import (
	"context"

	"visitlog/internal/modules/visitor/dto"
	visitorin "visitlog/internal/modules/visitor/port/in"
)

type CLIHandler struct {
	usecase visitorin.Usecase
}

func NewCLIHandler(usecase visitorin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Register creates an account from the operator's terminal, so it follows
// the administrator rules.
func (h CLIHandler) Register(ctx context.Context, input dto.RegisterInput) (dto.ProfileOutput, error) {
	return h.usecase.RegisterByAdmin(ctx, input)
}

func (h CLIHandler) Profile(ctx context.Context, id string) (dto.ProfileOutput, error) {
	return h.usecase.GetProfile(ctx, id)
}
