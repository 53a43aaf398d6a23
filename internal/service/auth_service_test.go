package service

import (
	"errors"
	"testing"
	"time"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/config"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/repository"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/util"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "unit-test-secret-key-of-decent-size",
			ExpireTime: time.Hour,
		},
	}
}

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	db := testDB(t)
	cfg := testAuthConfig()
	svc := NewAuthService(repository.NewUserRepository(db), cfg)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "hunter2hunter2"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != model.Student {
		t.Fatalf("default role = %s, want student", user.Role)
	}
	if user.Password == "hunter2hunter2" {
		t.Fatal("password stored in plaintext")
	}

	token, err := svc.Login("ada@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := util.ParseJWT(token, cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != "ada@example.com" {
		t.Fatalf("claims = %+v, want the registered user", claims)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := testDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testAuthConfig())

	first := &model.User{Name: "Ada", Email: "dup@example.com", Password: "hunter2hunter2"}
	if err := svc.Register(first); err != nil {
		t.Fatalf("register: %v", err)
	}

	second := &model.User{Name: "Grace", Email: "dup@example.com", Password: "different-pass"}
	if err := svc.Register(second); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("duplicate register err = %v, want ErrEmailRegistered", err)
	}
}

func TestLoginRejectsBadPasswordAndDisabled(t *testing.T) {
	db := testDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testAuthConfig())

	user := &model.User{Name: "Ada", Email: "ada2@example.com", Password: "hunter2hunter2"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login("ada2@example.com", "wrong"); err == nil {
		t.Fatal("login with wrong password succeeded")
	}

	db.Model(&model.User{}).Where("id = ?", user.ID).Update("disabled", true)
	if _, err := svc.Login("ada2@example.com", "hunter2hunter2"); err == nil {
		t.Fatal("login on disabled account succeeded")
	}
}
