package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	visitoradapter "visitlog/internal/modules/visitor/adapter/out"
	"visitlog/internal/modules/visitor/domain"
	"visitlog/internal/modules/visitor/service"
	"visitlog/internal/platform/clock"
	apperrors "visitlog/internal/platform/errors"
	"visitlog/internal/platform/id"
	"visitlog/internal/platform/storage/sqlite"
)

func newService(t *testing.T) *service.VisitorService {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "visitlog.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	now := clock.Fixed(time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC))
	return service.NewVisitorService(now, id.UUID{}, visitoradapter.NewSQLiteProfileStore(db), visitoradapter.NewBcryptHasher(bcrypt.MinCost), nil)
}

func registration() domain.Registration {
	return domain.Registration{
		FirstName:       "Kofi",
		MiddleName:      "Yaw",
		LastName:        "Boateng",
		Username:        "kofi_b",
		Gender:          "male",
		DateOfBirth:     "2007-03-09",
		Phone:           "0201234567",
		Password:        "Library1ok",
		ConfirmPassword: "Library1ok",
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	ctx := context.Background()

	profile, err := svc.Register(ctx, registration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if profile.Role != domain.RoleUser || profile.PasswordHash == "Library1ok" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	got, err := svc.Authenticate(ctx, "kofi_b", "Library1ok")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != profile.ID || got.FullName() != "Kofi Yaw Boateng" {
		t.Fatalf("unexpected authenticated profile %+v", got)
	}
	if got.DateOfBirth.Format("2006-01-02") != "2007-03-09" {
		t.Fatalf("expected date of birth to round trip, got %s", got.DateOfBirth)
	}
	if _, err := svc.Authenticate(ctx, "kofi_b", "wrong-Pass1"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "Library1ok"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, registration()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, registration()); !errors.Is(err, apperrors.ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	reg := registration()
	reg.Phone = "12345"
	if _, err := svc.Register(context.Background(), reg); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSelfRegistrationCannotChooseRole(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	reg := registration()
	reg.Role = domain.RoleAdmin
	profile, err := svc.Register(context.Background(), reg)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if profile.Role != domain.RoleUser {
		t.Fatalf("expected user role, got %s", profile.Role)
	}
}

func TestRegisterByAdmin(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	ctx := context.Background()
	reg := registration()
	reg.Username = "desk.admin"
	reg.Gender, reg.DateOfBirth, reg.Phone = "", "", ""
	reg.Role = domain.RoleAdmin
	profile, err := svc.RegisterByAdmin(ctx, reg)
	if err != nil {
		t.Fatalf("register by admin: %v", err)
	}
	got, err := svc.GetProfile(ctx, profile.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got.Role != domain.RoleAdmin || !got.DateOfBirth.IsZero() {
		t.Fatalf("unexpected admin profile %+v", got)
	}
	if _, err := svc.GetProfile(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
