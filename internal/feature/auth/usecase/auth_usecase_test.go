package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"gadget_backend/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

// mockUserRepository is a mock implementation of UserRepository.
type mockUserRepository struct {
	// CreateFunc is called when the Create method is invoked.
	CreateFunc func(user *entity.User) error
	// FindByEmailFunc is called when the FindByEmail method is invoked.
	FindByEmailFunc func(email string) (*entity.User, error)
}

// Create is the mock implementation of the Create method.
func (m *mockUserRepository) Create(_ context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(user)
	}
	return nil
}

// FindByEmail is the mock implementation of the FindByEmail method.
func (m *mockUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(email)
	}
	return nil, ErrUserNotFound
}

// memoryUserRepository keeps users in a map and enforces email uniqueness like a unique index.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]entity.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: map[string]entity.User{}}
}

func (r *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return ErrUserAlreadyExists
	}
	r.users[user.Email] = *user
	return nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// mockTokenGenerator is a mock implementation of TokenGenerator.
type mockTokenGenerator struct {
	GenerateTokenFunc func(email, name string) (string, error)
}

// GenerateToken is the mock implementation of the GenerateToken method.
func (m *mockTokenGenerator) GenerateToken(email, name string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(email, name)
	}
	return "mock-jwt-token", nil
}

func TestAuthUsecase_Register(t *testing.T) {
	t.Run("successful registration hashes the password", func(t *testing.T) {
		var created *entity.User
		mockRepo := &mockUserRepository{
			CreateFunc: func(user *entity.User) error {
				created = user
				return nil
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenGenerator{})
		err := uc.Register(context.Background(), "Ada", "ada@example.com", "password123")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created == nil {
			t.Fatal("expected Create to be called")
		}
		if created.Name != "Ada" || created.Email != "ada@example.com" {
			t.Errorf("unexpected user stored: %+v", created)
		}
		if created.Password == "password123" {
			t.Error("password is not hashed")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password123")); err != nil {
			t.Errorf("invalid bcrypt hash: %v", err)
		}
		if cost, _ := bcrypt.Cost([]byte(created.Password)); cost != passwordCost {
			t.Errorf("expected bcrypt cost %d, got %d", passwordCost, cost)
		}
	})

	t.Run("existing email is rejected before hashing", func(t *testing.T) {
		createCalled := false
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(email string) (*entity.User, error) {
				return &entity.User{Email: email}, nil
			},
			CreateFunc: func(user *entity.User) error {
				createCalled = true
				return nil
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenGenerator{})
		err := uc.Register(context.Background(), "Ada", "ada@example.com", "password123")

		if !errors.Is(err, ErrUserAlreadyExists) {
			t.Errorf("expected ErrUserAlreadyExists, got %v", err)
		}
		if createCalled {
			t.Error("Create should not be called for a duplicate email")
		}
	})

	t.Run("unique index violation on insert maps to duplicate", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			CreateFunc: func(user *entity.User) error { return ErrUserAlreadyExists },
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenGenerator{})
		err := uc.Register(context.Background(), "Ada", "ada@example.com", "password123")

		if !errors.Is(err, ErrUserAlreadyExists) {
			t.Errorf("expected ErrUserAlreadyExists, got %v", err)
		}
	})

	t.Run("lookup failure is propagated", func(t *testing.T) {
		expectedErr := errors.New("connection reset")
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(email string) (*entity.User, error) { return nil, expectedErr },
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenGenerator{})
		err := uc.Register(context.Background(), "Ada", "ada@example.com", "password123")

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error '%v', got: %v", expectedErr, err)
		}
	})

	t.Run("repository create failure", func(t *testing.T) {
		expectedErr := errors.New("database error")
		mockRepo := &mockUserRepository{
			CreateFunc: func(user *entity.User) error { return expectedErr },
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenGenerator{})
		err := uc.Register(context.Background(), "Ada", "ada@example.com", "password123")

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error '%v', got: %v", expectedErr, err)
		}
	})

	t.Run("second registration leaves the first record unchanged", func(t *testing.T) {
		repo := newMemoryUserRepository()
		uc := NewAuthUsecase(repo, &mockTokenGenerator{})

		if err := uc.Register(context.Background(), "First", "same@example.com", "first-pass"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		before, _ := repo.FindByEmail(context.Background(), "same@example.com")

		err := uc.Register(context.Background(), "Second", "same@example.com", "second-pass")
		if !errors.Is(err, ErrUserAlreadyExists) {
			t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
		}

		after, _ := repo.FindByEmail(context.Background(), "same@example.com")
		if *before != *after {
			t.Errorf("first record changed: before=%+v after=%+v", before, after)
		}
	})

	t.Run("password over 72 bytes is rejected before any store call", func(t *testing.T) {
		called := false
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(email string) (*entity.User, error) {
				called = true
				return nil, ErrUserNotFound
			},
			CreateFunc: func(user *entity.User) error {
				called = true
				return nil
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenGenerator{})
		err := uc.Register(context.Background(), "Ada", "ada@example.com", strings.Repeat("x", 80))

		if !errors.Is(err, ErrPasswordTooLong) {
			t.Errorf("expected ErrPasswordTooLong, got %v", err)
		}
		if called {
			t.Error("repository should not be called for an oversized password")
		}
	})

	t.Run("password of exactly 72 bytes is accepted", func(t *testing.T) {
		repo := newMemoryUserRepository()
		uc := NewAuthUsecase(repo, &mockTokenGenerator{})
		password := strings.Repeat("x", 72)

		if err := uc.Register(context.Background(), "Ada", "ada@example.com", password); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uc.Login(context.Background(), "ada@example.com", password); err != nil {
			t.Errorf("unexpected login error: %v", err)
		}
	})

	t.Run("same password yields different hashes", func(t *testing.T) {
		repo := newMemoryUserRepository()
		uc := NewAuthUsecase(repo, &mockTokenGenerator{})

		_ = uc.Register(context.Background(), "A", "a@example.com", "shared-password")
		_ = uc.Register(context.Background(), "B", "b@example.com", "shared-password")

		a, _ := repo.FindByEmail(context.Background(), "a@example.com")
		b, _ := repo.FindByEmail(context.Background(), "b@example.com")
		if a.Password == b.Password {
			t.Error("expected salted hashes to differ")
		}
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	testUser := &entity.User{
		ID:       "u1",
		Name:     "Test User",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	findTestUser := func(email string) (*entity.User, error) {
		if email == testUser.Email {
			return testUser, nil
		}
		return nil, ErrUserNotFound
	}

	t.Run("successful login", func(t *testing.T) {
		mockRepo := &mockUserRepository{FindByEmailFunc: findTestUser}
		mockJWT := &mockTokenGenerator{
			GenerateTokenFunc: func(email, name string) (string, error) {
				if email != testUser.Email || name != testUser.Name {
					t.Errorf("unexpected claims: email=%s, name=%s", email, name)
				}
				return "mock-jwt-token", nil
			},
		}

		uc := NewAuthUsecase(mockRepo, mockJWT)
		token, err := uc.Login(context.Background(), "test@example.com", "password123")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "mock-jwt-token" {
			t.Errorf("expected token 'mock-jwt-token', got: '%s'", token)
		}
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		mockRepo := &mockUserRepository{FindByEmailFunc: findTestUser}
		uc := NewAuthUsecase(mockRepo, &mockTokenGenerator{})

		_, errUnknown := uc.Login(context.Background(), "wrong@example.com", "password123")
		_, errWrongPass := uc.Login(context.Background(), "test@example.com", "wrong-password")

		if !errors.Is(errUnknown, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", errUnknown)
		}
		if !errors.Is(errWrongPass, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", errWrongPass)
		}
		if errUnknown.Error() != errWrongPass.Error() {
			t.Errorf("error messages differ: %q vs %q", errUnknown, errWrongPass)
		}
	})

	t.Run("repository failure is not reported as bad credentials", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(email string) (*entity.User, error) {
				return nil, errors.New("server selection timeout")
			},
		}
		uc := NewAuthUsecase(mockRepo, &mockTokenGenerator{})

		_, err := uc.Login(context.Background(), "test@example.com", "password123")

		if err == nil || errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected storage error, got %v", err)
		}
	})

	t.Run("JWT generation failure", func(t *testing.T) {
		mockRepo := &mockUserRepository{FindByEmailFunc: findTestUser}
		mockJWT := &mockTokenGenerator{
			GenerateTokenFunc: func(email, name string) (string, error) {
				return "", errors.New("failed to sign token")
			},
		}

		uc := NewAuthUsecase(mockRepo, mockJWT)
		_, err := uc.Login(context.Background(), "test@example.com", "password123")

		if err == nil {
			t.Fatal("expected error but got nil")
		}
		expectedErrMsg := "failed to generate token: failed to sign token"
		if err.Error() != expectedErrMsg {
			t.Errorf("expected error message '%s', got: '%s'", expectedErrMsg, err.Error())
		}
	})

	t.Run("register then login round trip", func(t *testing.T) {
		repo := newMemoryUserRepository()
		uc := NewAuthUsecase(repo, &mockTokenGenerator{})

		if err := uc.Register(context.Background(), "Round Trip", "rt@example.com", "s3cret!"); err != nil {
			t.Fatalf("unexpected register error: %v", err)
		}
		token, err := uc.Login(context.Background(), "rt@example.com", "s3cret!")
		if err != nil {
			t.Fatalf("unexpected login error: %v", err)
		}
		if token == "" {
			t.Error("token is empty")
		}
	})
}
