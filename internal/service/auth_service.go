package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/auth"
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/domain"
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/repository"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/applog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	RegisterAdmin(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	cartRepo repository.CartRepository
	pool     *pgxpool.Pool
	logger   *zap.Logger
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	pool *pgxpool.Pool,
	logger *zap.Logger,
	secret string,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		userRepo: userRepo,
		cartRepo: cartRepo,
		pool:     pool,
		logger:   logger,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	return s.register(ctx, username, email, password, domain.RoleCustomer)
}

func (s *authService) RegisterAdmin(ctx context.Context, username, email, password string) (*domain.User, error) {
	return s.register(ctx, username, email, password, domain.RoleAdmin)
}

// register creates the user and the user's cart in one transaction: a cart
// exists for the whole lifetime of every account.
func (s *authService) register(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		applog.Error(
			ctx,
			s.logger,
			"Error hashing password",
			zap.Error(err),
		)

		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		applog.Error(ctx, s.logger, "Failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)

		err := tx.Rollback(cleanupCtx)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			applog.Warn(
				cleanupCtx,
				s.logger,
				"Error rolling back transaction",
				zap.Error(err),
			)
		}
	}()

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, tx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			applog.Warn(
				ctx,
				s.logger,
				"Registration rejected, user exists",
				zap.String("username", username),
			)

			return nil, err
		}

		applog.Error(ctx, s.logger, "Failed to create user", zap.Error(err))
		return nil, err
	}

	if _, err := s.cartRepo.CreateForUser(ctx, tx, user.ID); err != nil {
		applog.Error(
			ctx,
			s.logger,
			"Failed to create cart for user",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)

		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		applog.Error(ctx, s.logger, "Failed to commit transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	applog.Info(
		ctx,
		s.logger,
		"User registered",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(role)),
	)

	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}

		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.secret, s.tokenTTL, user)
	if err != nil {
		applog.Error(
			ctx,
			s.logger,
			"Failed to sign token",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)

		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, user, nil
}
