package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/minhtran24/meethub/internal/auth"
	"github.com/minhtran24/meethub/internal/domain"
	"github.com/minhtran24/meethub/internal/repository"
	"github.com/minhtran24/meethub/lib/logger/sl"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotApproved    = errors.New("account is awaiting approval")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

type UserService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	log    *slog.Logger
}

func NewUserService(users repository.UserRepository, tokens *auth.TokenManager, log *slog.Logger) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{users: users, tokens: tokens, log: log}
}

func (s *UserService) Register(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	const op = "service.user.register"
	log := s.log.With("op", op)

	if fullName == "" || email == "" {
		return nil, errors.New("full name and email are required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))
		return nil, err
	}

	user := domain.NewUser(fullName, email, string(hash))
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	log.Info("user registered", "user_id", user.ID.String())
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	const op = "service.user.login"
	log := s.log.With("op", op)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !user.Approved {
		return "", nil, ErrUserNotApproved
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		return "", nil, err
	}

	log.Info("user logged in", "user_id", user.ID.String())
	return token, user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ApproveUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Approved {
		return user, nil
	}

	user.Approved = true
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user approved", "user_id", id.String())
	return user, nil
}
