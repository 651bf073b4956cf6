package in

import (
	"net/http"

	"github.com/gorilla/mux"
	hclog "github.com/hashicorp/go-hclog"

	"visitlog/internal/modules/visitor/dto"
	visitorin "visitlog/internal/modules/visitor/port/in"
	"visitlog/internal/platform/httpx"
	"visitlog/internal/platform/token"
)

type HTTPHandler struct {
	usecase visitorin.Usecase
	tokens  *token.Issuer
	logger  hclog.Logger
}

func NewHTTPHandler(usecase visitorin.Usecase, tokens *token.Issuer, logger hclog.Logger) HTTPHandler {
	return HTTPHandler{usecase: usecase, tokens: tokens, logger: logger}
}

// Register mounts the public auth routes and the admin registration route.
func (h HTTPHandler) Register(r *mux.Router, admin func(http.Handler) http.Handler) {
	r.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	r.Handle("/admin/register", admin(http.HandlerFunc(h.registerByAdmin))).Methods(http.MethodPost)
}

type registerRequest struct {
	FirstName       string `json:"firstName"`
	MiddleName      string `json:"middleName"`
	LastName        string `json:"lastName"`
	Username        string `json:"username"`
	Gender          string `json:"gender"`
	DateOfBirth     string `json:"dateOfBirth"`
	PhoneNumber     string `json:"phoneNumber"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
}

func (r registerRequest) input() dto.RegisterInput {
	return dto.RegisterInput{
		FirstName:       r.FirstName,
		MiddleName:      r.MiddleName,
		LastName:        r.LastName,
		Username:        r.Username,
		Gender:          r.Gender,
		DateOfBirth:     r.DateOfBirth,
		Phone:           r.PhoneNumber,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		Role:            r.Role,
	}
}

type profileJSON struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	FirstName string `json:"firstName"`
	Role      string `json:"role"`
}

func toProfileJSON(p dto.ProfileOutput) profileJSON {
	return profileJSON{ID: p.ID, Username: p.Username, FullName: p.FullName, FirstName: p.FirstName, Role: p.Role}
}

func (h HTTPHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	out, err := h.usecase.Register(r.Context(), req.input())
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProfileJSON(out))
}

func (h HTTPHandler) registerByAdmin(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	out, err := h.usecase.RegisterByAdmin(r.Context(), req.input())
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProfileJSON(out))
}

func (h HTTPHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	out, err := h.usecase.Authenticate(r.Context(), dto.LoginInput{Username: req.Username, Password: req.Password})
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	signed, err := h.tokens.Issue(token.Principal{VisitorID: out.ID, Role: out.Role})
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"token": signed, "visitor": toProfileJSON(out)})
}
