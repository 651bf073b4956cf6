package in

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	hclog "github.com/hashicorp/go-hclog"

	"visitlog/internal/modules/presence/dto"
	presencein "visitlog/internal/modules/presence/port/in"
	"visitlog/internal/platform/httpx"
	"visitlog/internal/platform/token"
)

type HTTPHandler struct {
	usecase presencein.Usecase
	logger  hclog.Logger
}

func NewHTTPHandler(usecase presencein.Usecase, logger hclog.Logger) HTTPHandler {
	return HTTPHandler{usecase: usecase, logger: logger}
}

type Middleware func(http.Handler) http.Handler

// Register mounts visitor routes behind authed and admin routes behind admin.
func (h HTTPHandler) Register(r *mux.Router, authed, admin Middleware) {
	r.Handle("/dashboard", authed(http.HandlerFunc(h.dashboard))).Methods(http.MethodGet)
	r.Handle("/check-in", authed(http.HandlerFunc(h.checkIn))).Methods(http.MethodPost)
	r.Handle("/check-out", authed(http.HandlerFunc(h.checkOut))).Methods(http.MethodPost)
	r.Handle("/admin/active", admin(http.HandlerFunc(h.listActive))).Methods(http.MethodGet)
	r.Handle("/admin/visitors", admin(http.HandlerFunc(h.listAll))).Methods(http.MethodGet)
	r.Handle("/admin/visitors/{id}/deactivate", admin(http.HandlerFunc(h.deactivate))).Methods(http.MethodPost)
	r.Handle("/admin/deactivate-all", admin(http.HandlerFunc(h.deactivateAll))).Methods(http.MethodPost)
	r.Handle("/admin/audit", admin(http.HandlerFunc(h.audit))).Methods(http.MethodGet)
}

type visitorJSON struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	FirstName      string `json:"firstName"`
	Active         bool   `json:"active"`
	CurrentPurpose string `json:"currentPurpose,omitempty"`
}

type activeJSON struct {
	visitorJSON
	SessionID   string    `json:"sessionId"`
	CheckInTime time.Time `json:"checkInTime"`
}

type checkOutJSON struct {
	Closed       bool       `json:"closed"`
	SessionID    string     `json:"sessionId,omitempty"`
	Purpose      string     `json:"purpose,omitempty"`
	CheckInTime  *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty"`
	DurationMin  int        `json:"durationMinutes"`
}

type deactivationJSON struct {
	VisitorID string `json:"visitorId"`
	Closed    bool   `json:"closed"`
	Error     string `json:"error,omitempty"`
}

func (h HTTPHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	p, _ := token.FromContext(r.Context())
	out, err := h.usecase.Status(r.Context(), p.VisitorID)
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	body := struct {
		ID          string     `json:"_id"`
		FirstName   string     `json:"firstName"`
		Active      bool       `json:"active"`
		Purpose     string     `json:"purpose,omitempty"`
		CheckInTime *time.Time `json:"checkInTime,omitempty"`
	}{ID: out.Visitor.ID, FirstName: out.Visitor.FirstName, Active: out.Visitor.Active, Purpose: out.Visitor.CurrentPurpose}
	if !out.CheckInTime.IsZero() {
		body.CheckInTime = &out.CheckInTime
	}
	httpx.WriteJSON(w, http.StatusOK, body)
}

func (h HTTPHandler) checkIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Purpose string `json:"purpose"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	p, _ := token.FromContext(r.Context())
	out, err := h.usecase.CheckIn(r.Context(), dto.CheckInInput{VisitorID: p.VisitorID, Purpose: req.Purpose})
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"sessionId":   out.SessionID,
		"purpose":     out.Purpose,
		"checkInTime": out.CheckInTime,
	})
}

func (h HTTPHandler) checkOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Experience string `json:"experience"`
		TargetMet  string `json:"targetMet"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	p, _ := token.FromContext(r.Context())
	out, err := h.usecase.CheckOut(r.Context(), dto.CheckOutInput{VisitorID: p.VisitorID, Experience: req.Experience, TargetMet: req.TargetMet})
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCheckOutJSON(out))
}

func (h HTTPHandler) listActive(w http.ResponseWriter, r *http.Request) {
	active, err := h.usecase.ListActive(r.Context())
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	body := make([]activeJSON, 0, len(active))
	for _, a := range active {
		body = append(body, activeJSON{visitorJSON: toVisitorJSON(a.Visitor), SessionID: a.SessionID, CheckInTime: a.CheckInTime})
	}
	httpx.WriteJSON(w, http.StatusOK, body)
}

func (h HTTPHandler) listAll(w http.ResponseWriter, r *http.Request) {
	visitors, err := h.usecase.ListAll(r.Context())
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	body := make([]visitorJSON, 0, len(visitors))
	for _, v := range visitors {
		body = append(body, toVisitorJSON(v))
	}
	httpx.WriteJSON(w, http.StatusOK, body)
}

func (h HTTPHandler) deactivate(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.ForceCheckOut(r.Context(), dto.CheckOutInput{VisitorID: mux.Vars(r)["id"]})
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCheckOutJSON(out))
}

func (h HTTPHandler) deactivateAll(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.ForceCheckOutAll(r.Context(), dto.ForceCheckOutAllInput{})
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	results := make([]deactivationJSON, 0, len(out.Results))
	for _, res := range out.Results {
		results = append(results, deactivationJSON{VisitorID: res.VisitorID, Closed: res.Closed, Error: res.Error})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"attempted": out.Attempted,
		"closed":    out.Closed,
		"failed":    out.Failed,
		"results":   results,
	})
}

func (h HTTPHandler) audit(w http.ResponseWriter, r *http.Request) {
	violations, err := h.usecase.Audit(r.Context())
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	type violationJSON struct {
		VisitorID string `json:"visitorId"`
		Problem   string `json:"problem"`
	}
	body := make([]violationJSON, 0, len(violations))
	for _, v := range violations {
		body = append(body, violationJSON{VisitorID: v.VisitorID, Problem: v.Problem})
	}
	httpx.WriteJSON(w, http.StatusOK, body)
}

func toVisitorJSON(v dto.VisitorOutput) visitorJSON {
	return visitorJSON{ID: v.ID, FullName: v.FullName, FirstName: v.FirstName, Active: v.Active, CurrentPurpose: v.CurrentPurpose}
}

func toCheckOutJSON(out dto.CheckOutOutput) checkOutJSON {
	body := checkOutJSON{Closed: out.Closed, SessionID: out.SessionID, Purpose: out.Purpose, DurationMin: out.DurationMin}
	if out.Closed {
		body.CheckInTime = &out.CheckInTime
		body.CheckOutTime = &out.CheckOutTime
	}
	return body
}
