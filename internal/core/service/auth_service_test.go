package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

func createInput(name, email, password, role string) ports.CreateUserInput {
	return ports.CreateUserInput{Name: name, Email: email, Password: password, Role: role}
}

func TestAuthService_CreateUser_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	user, err := svc.CreateUser(context.Background(), createInput("Alice", " Alice@Example.com ", "pass123", ""))
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user == nil || user.ID == 0 {
		t.Fatalf("expected stored user, got %+v", user)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleEmployee {
		t.Fatalf("expected default employee role, got %s", user.Role)
	}
}

func TestAuthService_CreateUser_Validation(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	if _, err := svc.CreateUser(context.Background(), createInput("", "a@example.com", "pass", "")); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.CreateUser(context.Background(), createInput("Bob", "bob@example.com", "pass", "client")); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole for bad role, got %v", err)
	}
}

func TestAuthService_CreateUser_Duplicate(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	_, _ = svc.CreateUser(context.Background(), createInput("Bob", "bob@example.com", "pass", ""))
	if _, err := svc.CreateUser(context.Background(), createInput("Bobby", "BOB@example.com", "pass2", "")); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	created, err := svc.CreateUser(context.Background(), createInput("Carol", "carol@example.com", "s3cret", domain.RoleAdmin))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Name != "Carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleAdmin {
		t.Fatalf("expected role %s, got %v", domain.RoleAdmin, claims["role"])
	}
	if sub, _ := claims.GetSubject(); sub != "1" || created.ID != 1 {
		t.Fatalf("expected subject 1, got %q", sub)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	_, _ = svc.CreateUser(context.Background(), createInput("Dave", "dave@example.com", "goodpass", ""))
	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	_, _ = svc.CreateUser(context.Background(), createInput("Erin", "erin@example.com", "rightpass", ""))

	_, _, unknown := svc.Login(context.Background(), "ghost@example.com", "pass")
	_, _, wrong := svc.Login(context.Background(), "erin@example.com", "wrongpass")

	if unknown != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknown)
	}
	if unknown != wrong {
		t.Fatalf("unknown email and wrong password must be indistinguishable: %v vs %v", unknown, wrong)
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	repo := newStubUserRepo()
	boom := errors.New("boom")
	repo.findErr = boom
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, boom) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	in := createInput("", "admin@example.com", "changeme", "")

	created, err := svc.EnsureAdmin(context.Background(), in)
	if err != nil || !created {
		t.Fatalf("expected admin created, got %v err=%v", created, err)
	}
	admin, _ := repo.FindByEmail(context.Background(), "admin@example.com")
	if admin.Role != domain.RoleAdmin || admin.Name != "Administrator" {
		t.Fatalf("unexpected admin: %+v", admin)
	}

	created, err = svc.EnsureAdmin(context.Background(), in)
	if err != nil || created {
		t.Fatalf("second call should be a no-op, got %v err=%v", created, err)
	}
}

func TestAuthService_EnsureAdmin_SkipsWithoutCredentials(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	created, err := svc.EnsureAdmin(context.Background(), ports.CreateUserInput{})
	if err != nil || created {
		t.Fatalf("expected skip, got %v err=%v", created, err)
	}
}

func TestAuthService_EnsureAdmin_RepoError(t *testing.T) {
	repo := newStubUserRepo()
	boom := errors.New("boom")
	repo.findErr = boom
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.EnsureAdmin(context.Background(), createInput("", "admin@example.com", "x", "")); !errors.Is(err, boom) {
		t.Fatalf("expected repo error, got %v", err)
	}
}
