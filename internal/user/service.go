package user

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates an unconfirmed account with a fresh confirmation code.
// The caller hashes the password; plaintext never reaches this layer.
func (s *Service) Register(ctx context.Context, email, handle, hashedPassword string) (User, error) {
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return User{}, ErrAlreadyExists
	}

	code, err := confirmCode()
	if err != nil {
		return User{}, err
	}

	newUser := &User{
		Email:       email,
		Handle:      handle,
		Password:    hashedPassword,
		Role:        "USER",
		ConfirmCode: &code,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return User{}, err
	}
	return *newUser, nil
}

// Confirm completes registration with the emailed code.
func (s *Service) Confirm(ctx context.Context, email, code string) error {
	return s.repo.Confirm(ctx, email, code)
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// confirmCode returns a 6 digit zero-padded code.
func confirmCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
