package service

import (
	"context"
	"testing"

	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/pkg/apperror"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(context.Background(), &RegisterInput{
		Username:    "pablo",
		Email:       "pablo@example.com",
		Password:    "s3cret-pass",
		AccountType: enum.AccountTypeFreelancer,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Password == "s3cret-pass" {
		t.Error("password was stored in plaintext")
	}

	out, err := env.auth.Login(context.Background(), &LoginInput{
		Email:    "pablo@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		t.Error("login did not issue tokens")
	}

	if _, err := env.auth.Login(context.Background(), &LoginInput{
		Email:    "pablo@example.com",
		Password: "wrong",
	}); err != apperror.ErrInvalidCredentials {
		t.Errorf("wrong password: err = %v, want invalid credentials", err)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.auth.Register(context.Background(), &RegisterInput{
		Username:    "pablo",
		Email:       "pablo@example.com",
		Password:    "s3cret-pass",
		AccountType: enum.AccountTypeFreelancer,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := env.auth.Register(context.Background(), &RegisterInput{
		Username:    "pablo2",
		Email:       "pablo@example.com",
		Password:    "s3cret-pass",
		AccountType: enum.AccountTypeFreelancer,
	}); !apperror.IsKind(err, apperror.KindConflict) {
		t.Errorf("duplicate email: err = %v, want conflict", err)
	}

	if _, err := env.auth.Register(context.Background(), &RegisterInput{
		Username:    "pablo",
		Email:       "pablo2@example.com",
		Password:    "s3cret-pass",
		AccountType: enum.AccountTypeFreelancer,
	}); !apperror.IsKind(err, apperror.KindConflict) {
		t.Errorf("duplicate username: err = %v, want conflict", err)
	}

	if _, err := env.auth.Register(context.Background(), &RegisterInput{
		Username:    "oddball",
		Email:       "oddball@example.com",
		Password:    "s3cret-pass",
		AccountType: enum.AccountType("admin"),
	}); !apperror.IsKind(err, apperror.KindValidation) {
		t.Errorf("unknown account type: err = %v, want validation error", err)
	}
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.auth.Register(context.Background(), &RegisterInput{
		Username:    "pablo",
		Email:       "pablo@example.com",
		Password:    "s3cret-pass",
		AccountType: enum.AccountTypeClient,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	out, err := env.auth.Login(context.Background(), &LoginInput{
		Email:    "pablo@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := env.auth.RefreshToken(context.Background(), out.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("refresh did not issue a new access token")
	}

	if _, err := env.auth.RefreshToken(context.Background(), "not-a-token"); err != apperror.ErrInvalidToken {
		t.Errorf("garbage token: err = %v, want invalid token", err)
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(context.Background(), &RegisterInput{
		Username:    "pablo",
		Email:       "pablo@example.com",
		Password:    "s3cret-pass",
		AccountType: enum.AccountTypeFreelancer,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := env.auth.ChangePassword(context.Background(), &ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "wrong",
		NewPassword:     "new-pass-123",
	}); !apperror.IsKind(err, apperror.KindValidation) {
		t.Errorf("wrong current password: err = %v, want validation error", err)
	}

	if err := env.auth.ChangePassword(context.Background(), &ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "s3cret-pass",
		NewPassword:     "new-pass-123",
	}); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := env.auth.Login(context.Background(), &LoginInput{
		Email:    "pablo@example.com",
		Password: "new-pass-123",
	}); err != nil {
		t.Errorf("login with new password: err = %v, want nil", err)
	}
}
