package usecase

import (
	"context"
	"time"

	"visitlog/internal/modules/presence/domain"
	"visitlog/internal/modules/presence/dto"
	presencein "visitlog/internal/modules/presence/port/in"
	"visitlog/internal/modules/presence/service"
	"visitlog/internal/platform/clock"
)

type Interactor struct {
	svc   *service.PresenceService
	clock clock.Clock
}

func NewInteractor(svc *service.PresenceService, clock clock.Clock) presencein.Usecase {
	return &Interactor{svc: svc, clock: clock}
}

func (i *Interactor) CheckIn(ctx context.Context, input dto.CheckInInput) (dto.CheckInOutput, error) {
	session, err := i.svc.CheckIn(ctx, input.VisitorID, domain.Purpose(input.Purpose))
	if err != nil {
		return dto.CheckInOutput{}, err
	}
	return dto.CheckInOutput{
		SessionID:   session.ID,
		VisitorID:   session.VisitorID,
		Purpose:     string(session.Purpose),
		CheckInTime: session.CheckInTime,
	}, nil
}

func (i *Interactor) CheckOut(ctx context.Context, input dto.CheckOutInput) (dto.CheckOutOutput, error) {
	session, closed, err := i.svc.CheckOut(ctx, input.VisitorID, domain.Outcome{Experience: input.Experience, TargetMet: input.TargetMet})
	if err != nil {
		return dto.CheckOutOutput{}, err
	}
	return i.checkOutOutput(input.VisitorID, session, closed), nil
}

func (i *Interactor) ForceCheckOut(ctx context.Context, input dto.CheckOutInput) (dto.CheckOutOutput, error) {
	session, closed, err := i.svc.ForceCheckOut(ctx, input.VisitorID, domain.Outcome{Experience: input.Experience, TargetMet: input.TargetMet})
	if err != nil {
		return dto.CheckOutOutput{}, err
	}
	return i.checkOutOutput(input.VisitorID, session, closed), nil
}

func (i *Interactor) ForceCheckOutAll(ctx context.Context, input dto.ForceCheckOutAllInput) (dto.DeactivateAllOutput, error) {
	results, err := i.svc.ForceCheckOutAll(ctx, domain.Outcome{Experience: input.Experience, TargetMet: input.TargetMet})
	if err != nil {
		return dto.DeactivateAllOutput{}, err
	}
	out := dto.DeactivateAllOutput{Attempted: len(results), Results: make([]dto.DeactivationOutput, 0, len(results))}
	for _, r := range results {
		item := dto.DeactivationOutput{VisitorID: r.VisitorID, Closed: r.Closed}
		switch {
		case r.Err != nil:
			item.Error = r.Err.Error()
			out.Failed++
		case r.Closed:
			out.Closed++
		}
		out.Results = append(out.Results, item)
	}
	return out, nil
}

func (i *Interactor) ListActive(ctx context.Context) ([]dto.ActiveVisitorOutput, error) {
	active, err := i.svc.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActiveVisitorOutput, 0, len(active))
	for _, a := range active {
		out = append(out, dto.ActiveVisitorOutput{Visitor: toVisitorOutput(a.Visitor), SessionID: a.SessionID, CheckInTime: a.CheckInTime})
	}
	return out, nil
}

func (i *Interactor) ListAll(ctx context.Context) ([]dto.VisitorOutput, error) {
	visitors, err := i.svc.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VisitorOutput, 0, len(visitors))
	for _, v := range visitors {
		out = append(out, toVisitorOutput(v))
	}
	return out, nil
}

func (i *Interactor) Status(ctx context.Context, visitorID string) (dto.StatusOutput, error) {
	visitor, open, err := i.svc.Status(ctx, visitorID)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	return dto.StatusOutput{Visitor: toVisitorOutput(visitor), CheckInTime: open.CheckInTime}, nil
}

func (i *Interactor) Audit(ctx context.Context) ([]dto.ViolationOutput, error) {
	violations, err := i.svc.Audit(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ViolationOutput, 0, len(violations))
	for _, v := range violations {
		out = append(out, dto.ViolationOutput{VisitorID: v.VisitorID, Problem: v.Problem})
	}
	return out, nil
}

func (i *Interactor) checkOutOutput(visitorID string, session domain.Session, closed bool) dto.CheckOutOutput {
	if !closed {
		return dto.CheckOutOutput{VisitorID: visitorID}
	}
	return dto.CheckOutOutput{
		VisitorID:    visitorID,
		Closed:       true,
		SessionID:    session.ID,
		Purpose:      string(session.Purpose),
		CheckInTime:  session.CheckInTime,
		CheckOutTime: session.CheckOutTime,
		DurationMin:  int(session.Duration(i.clock.Now()) / time.Minute),
	}
}

func toVisitorOutput(v domain.Visitor) dto.VisitorOutput {
	return dto.VisitorOutput{
		ID:             v.ID,
		FullName:       v.FullName(),
		FirstName:      v.FirstName,
		Role:           string(v.Role),
		Active:         v.Active,
		CurrentPurpose: string(v.CurrentPurpose),
	}
}
