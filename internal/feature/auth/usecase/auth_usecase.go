package usecase

import (
	"context"
	"errors"
	"fmt"

	"gadget_backend/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt work factor (2^10 rounds).
const passwordCost = 10

// maxPasswordBytes is the longest input bcrypt hashes.
const maxPasswordBytes = 72

// dummyHash is compared against when the email is unknown so both failure paths pay for bcrypt.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. It returns ErrUserAlreadyExists if the email is taken.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves the user with the given email, or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// TokenGenerator issues signed access tokens.
type TokenGenerator interface {
	// GenerateToken returns a signed token carrying the user's email and name.
	GenerateToken(email, name string) (string, error)
}

// authUsecase implements registration and login.
type authUsecase struct {
	users  UserRepository
	tokens TokenGenerator
}

// NewAuthUsecase creates a new authUsecase.
func NewAuthUsecase(users UserRepository, tokens TokenGenerator) *authUsecase {
	return &authUsecase{
		users:  users,
		tokens: tokens,
	}
}

// Register stores a new user with a bcrypt-hashed password.
// The existence check is a fast path; the store's unique index on email is what
// guarantees uniqueness under concurrent registrations.
func (u *authUsecase) Register(ctx context.Context, name, email, password string) error {
	// bcrypt hashes at most 72 bytes.
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}

	existing, err := u.users.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return ErrUserAlreadyExists
	case err != nil && !errors.Is(err, ErrUserNotFound):
		return fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Name: name, Email: email, Password: string(hashed)}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Login verifies the credentials and returns a signed token.
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	passwordHash := dummyHash
	if user != nil {
		passwordHash = user.Password
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if user == nil || compareErr != nil {
		return "", ErrInvalidCredentials
	}

	token, err := u.tokens.GenerateToken(user.Email, user.Name)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
