package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prajwalbasnet/kinmel-backend/internal/users"
	pkgAuth "github.com/prajwalbasnet/kinmel-backend/pkg/auth"
	"github.com/prajwalbasnet/kinmel-backend/pkg/config"
	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
	pkgerrors "github.com/prajwalbasnet/kinmel-backend/pkg/errors"
	"github.com/prajwalbasnet/kinmel-backend/pkg/security"
)

func TestServiceLoginMintsAdminClaim(t *testing.T) {
	password := "admin-secret"
	hashed := mustHashPassword(t, password)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "admin@example.com",
		PasswordHash: hashed,
		FirstName:    "Admin",
		LastName:     "User",
		IsActive:     true,
		IsAdmin:      true,
	}
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "kinmel",
		ExpirationMinutes: 30,
	}

	svc, _, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if !claims.IsAdmin {
		t.Fatal("expected admin claim")
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, claims.UserID)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token to be set")
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatalf("unexpected user payload %v", resp.User)
	}
}

func TestServiceLoginRejectsWrongPassword(t *testing.T) {
	hashed := mustHashPassword(t, "correct-password")
	user := &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: hashed,
		IsActive:     true,
	}
	cfg := config.JWTConfig{Secret: "secret", Issuer: "kinmel", ExpirationMinutes: 30}

	svc, _, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginRejectsInactiveUser(t *testing.T) {
	password := "secret-pass"
	hashed := mustHashPassword(t, password)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "inactive@example.com",
		PasswordHash: hashed,
		IsActive:     false,
	}
	cfg := config.JWTConfig{Secret: "secret", Issuer: "kinmel", ExpirationMinutes: 30}

	svc, _, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceRegisterRejectsDuplicateEmail(t *testing.T) {
	existing := &models.User{
		ID:    uuid.New(),
		Email: "taken@example.com",
	}
	cfg := config.JWTConfig{Secret: "secret", Issuer: "kinmel", ExpirationMinutes: 30}

	svc, _, err := buildTestService(existing, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterRequest{
		FirstName:   "New",
		LastName:    "User",
		Email:       "taken@example.com",
		PhoneNumber: "9800000001",
		Password:    "long-enough-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestServiceRegisterCreatesUser(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "kinmel", ExpirationMinutes: 30}

	svc, _, err := buildTestService(nil, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	dto, err := svc.Register(context.Background(), RegisterRequest{
		FirstName:   "Prakriti",
		LastName:    "Sharma",
		Email:       "Prakriti@Example.com",
		PhoneNumber: "9800000002",
		Password:    "long-enough-password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.Email != "prakriti@example.com" {
		t.Fatalf("expected lowercased email, got %s", dto.Email)
	}
	if dto.IsAdmin {
		t.Fatal("self-registered users must not be admins")
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	password := "secret-pass"
	hashed := mustHashPassword(t, password)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: hashed,
		IsActive:     true,
	}
	cfg := config.JWTConfig{Secret: "secret", Issuer: "kinmel", ExpirationMinutes: 30}

	svc, sessionMgr, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected rotated token pair")
	}
	if !sessionMgr.rotated {
		t.Fatal("expected session rotation")
	}
}

func buildTestService(existing *models.User, jwtCfg config.JWTConfig) (Service, *stubSessionManager, error) {
	repo := &stubUserRepo{}
	if existing != nil {
		repo.byEmail = map[string]*models.User{existing.Email: existing}
	}
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessionMgr,
		JWTConfig:      jwtCfg,
	})
	return svc, sessionMgr, err
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	byEmail map[string]*models.User
	created []*models.User
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.created = append(s.created, user)
	if s.byEmail == nil {
		s.byEmail = map[string]*models.User{}
	}
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type stubSessionManager struct {
	refreshToken string
	rotated      bool
	revoked      []string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	s.rotated = true
	return uuid.NewString(), "rotated-refresh-token", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}
