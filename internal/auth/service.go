// internal/auth/service.go

package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/orbitstudy/orbit-backend/internal/common/utils"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// ProfileEnsurer creates the orbit profile backing a fresh account.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, userID int64, displayName string) error
}

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
}

type Config struct {
	JWTSecret          string
	BCryptCost         int
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type service struct {
	repo     Repository
	profiles ProfileEnsurer
	cfg      Config
}

func NewService(repo Repository, profiles ProfileEnsurer, cfg Config) Service {
	if cfg.BCryptCost < bcrypt.MinCost || cfg.BCryptCost > bcrypt.MaxCost {
		cfg.BCryptCost = bcrypt.DefaultCost
	}
	if cfg.AccessTokenExpiry <= 0 {
		cfg.AccessTokenExpiry = 15 * time.Minute
	}
	if cfg.RefreshTokenExpiry <= 0 {
		cfg.RefreshTokenExpiry = 7 * 24 * time.Hour
	}
	return &service{repo: repo, profiles: profiles, cfg: cfg}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BCryptCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}
	if s.profiles != nil {
		if err := s.profiles.EnsureProfile(ctx, user.ID, displayName); err != nil {
			// The account exists; the profile can be backfilled on first
			// profile read.
			log.Printf("auth: creating profile for user %d failed: %v", user.ID, err)
		}
	}

	return s.issueTokens(user)
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateJWT(refreshToken, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	if claims.Type != "refresh" {
		return nil, utils.ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *service) ValidateToken(_ context.Context, token string) (*utils.JWTClaims, error) {
	return utils.ValidateJWT(token, s.cfg.JWTSecret)
}

func (s *service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) issueTokens(user *User) (*AuthResponse, error) {
	access, err := utils.GenerateJWT(user.ID, user.Username, "access", s.cfg.JWTSecret, s.cfg.AccessTokenExpiry)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateJWT(user.ID, user.Username, "refresh", s.cfg.JWTSecret, s.cfg.RefreshTokenExpiry)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.cfg.AccessTokenExpiry.Seconds()),
		TokenType:    "Bearer",
	}, nil
}
