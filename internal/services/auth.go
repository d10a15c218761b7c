package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	userrepo "github.com/daftaros/daftar-backend/internal/data/repos/user"
	types "github.com/daftaros/daftar-backend/internal/domain"
	pkgerrors "github.com/daftaros/daftar-backend/internal/pkg/errors"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
	"github.com/daftaros/daftar-backend/internal/requestdata"
)

type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName, role string) (*types.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	// SetContextFromToken validates an access token and attaches the acting
	// identity to the context.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthConfig struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type authClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	log    *logger.Logger
	cfg    AuthConfig
	users  userrepo.UserRepo
	tokens userrepo.UserTokenRepo
}

func NewAuthService(log *logger.Logger, cfg AuthConfig, users userrepo.UserRepo, tokens userrepo.UserTokenRepo) AuthService {
	return &authService{
		log:    log.With("service", "AuthService"),
		cfg:    cfg,
		users:  users,
		tokens: tokens,
	}
}

func (s *authService) Register(ctx context.Context, email, password, firstName, lastName, role string) (*types.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: email and password required", pkgerrors.ErrInvalidArgument)
	}
	if role != types.RoleFounder && role != types.RoleInvestor {
		return nil, nil, fmt.Errorf("%w: role must be founder or investor", pkgerrors.ErrInvalidArgument)
	}
	exists, err := s.users.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, fmt.Errorf("%w: email already registered", pkgerrors.ErrInvalidArgument)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.users.Create(ctx, nil, []*types.User{{
		ID:        uuid.New(),
		Email:     email,
		Password:  string(hashed),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}})
	if err != nil {
		return nil, nil, err
	}
	user := rows[0]

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, nil, pkgerrors.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, pkgerrors.ErrUnauthorized
	}
	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	row, err := s.tokens.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	if time.Now().After(row.ExpiresAt) {
		return nil, pkgerrors.ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, nil, row.UserID)
	if err != nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	// Rotate: a refresh token is single-use.
	if err := s.tokens.DeleteByUser(ctx, nil, user.ID); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.DeleteByUser(ctx, nil, userID)
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, pkgerrors.ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, pkgerrors.ErrUnauthorized
	}
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Email:       claims.Email,
		Role:        claims.Role,
	}), nil
}

func (s *authService) issueTokens(ctx context.Context, user *types.User) (*TokenPair, error) {
	now := time.Now()
	claims := &authClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()
	if err := s.tokens.Create(ctx, nil, &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.cfg.RefreshTokenTTL),
	}); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
