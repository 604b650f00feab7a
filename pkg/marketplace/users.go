package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/agbado/pkg/models"
	"github.com/example/agbado/pkg/store"
	"golang.org/x/crypto/bcrypt"
)

type RegisterUserInput struct {
	Username   string `json:"username" validate:"required,min=3,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	IsProvider bool   `json:"isProvider"`
}

// RegisterUser stores a new user with a bcrypt password hash. Username and
// email must be unused.
func (s *Service) RegisterUser(ctx context.Context, in RegisterUserInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if err := s.ensureUnused(ctx, "username", in.Username, s.store.GetUserByUsername); err != nil {
		return nil, err
	}
	if err := s.ensureUnused(ctx, "email", in.Email, s.store.GetUserByEmail); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, models.User{
		Username:   in.Username,
		Email:      in.Email,
		Password:   string(hash),
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Phone:      in.Phone,
		City:       in.City,
		IsProvider: in.IsProvider,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publish(Event{Kind: EventUserRegistered, UserID: user.ID, EntityID: user.ID, At: user.CreatedAt})
	return user, nil
}

func (s *Service) ensureUnused(ctx context.Context, field, value string, get func(context.Context, string) (*models.User, error)) error {
	_, err := get(ctx, value)
	switch {
	case err == nil:
		return invalid(field, "unique")
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check %s: %w", field, err)
	}
}

func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	return lookup(u, err, "user", id)
}
