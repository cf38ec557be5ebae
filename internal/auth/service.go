package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/krishimitra/farmer-portal-backend/config"
	"github.com/krishimitra/farmer-portal-backend/internal/auditlog"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidRole        = errors.New("invalid role")
	ErrRoleNotAllowed     = errors.New("admin registration is not allowed")
)

// ProfileProvisioner creates the blank farmer profile that every new user owns.
type ProfileProvisioner interface {
	ProvisionProfile(ctx context.Context, userID uint) error
}

type RegisterInput struct {
	Username string
	Password string
	Role     string
}

type LoginInput struct {
	Username string
	Password string
}

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResponse, error)
	Login(ctx context.Context, in LoginInput) (*AuthResponse, error)
	Refresh(ctx context.Context, userID uint) (*AuthResponse, error)
	GetUserByID(ctx context.Context, userID uint) (*User, error)
	ParseToken(token string) (*Claims, error)
}

// Claims carried by every access token.
type Claims struct {
	UserID   uint
	Username string
	Role     string
}

type service struct {
	repo       Repository
	profiles   ProfileProvisioner
	audit      auditlog.Service
	logger     *zap.Logger
	secret     []byte
	ttl        time.Duration
	bcryptCost int
}

func NewService(r Repository, profiles ProfileProvisioner, audit auditlog.Service, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		repo:       r,
		profiles:   profiles,
		audit:      audit,
		logger:     logger,
		secret:     []byte(cfg.JWTSecret),
		ttl:        time.Duration(cfg.JWTTTLHours) * time.Hour,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// =============================
// Register
// =============================

func (s *service) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	switch role {
	case "":
		role = RoleFarmer
	case RoleFarmer, RoleAgent:
	case RoleAdmin:
		return nil, ErrRoleNotAllowed
	default:
		return nil, ErrInvalidRole
	}

	if _, err := s.repo.FindByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.profiles.ProvisionProfile(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("provision farmer profile: %w", err)
	}

	s.audit.LogAction(auditlog.WithUserID(ctx, user.ID), nil, auditlog.ActionRegister,
		map[string]interface{}{"username": user.Username, "role": user.Role}, auditlog.StatusSuccess)

	return s.issue(user)
}

// =============================
// Login
// =============================

func (s *service) Login(ctx context.Context, in LoginInput) (*AuthResponse, error) {
	user, err := s.repo.FindByUsername(ctx, in.Username)
	if errors.Is(err, ErrUserNotFound) {
		s.audit.LogAction(ctx, nil, auditlog.ActionLogin,
			map[string]interface{}{"username": in.Username, "reason": "unknown user"}, auditlog.StatusFailure)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		s.audit.LogAction(auditlog.WithUserID(ctx, user.ID), nil, auditlog.ActionLogin,
			map[string]interface{}{"username": in.Username, "reason": "wrong password"}, auditlog.StatusFailure)
		return nil, ErrInvalidCredentials
	}

	s.audit.LogAction(auditlog.WithUserID(ctx, user.ID), nil, auditlog.ActionLogin,
		map[string]interface{}{"username": user.Username}, auditlog.StatusSuccess)

	return s.issue(user)
}

// Refresh issues a fresh token for an already authenticated user.
func (s *service) Refresh(ctx context.Context, userID uint) (*AuthResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *service) GetUserByID(ctx context.Context, userID uint) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

// =============================
// Tokens
// =============================

func (s *service) issue(user *User) (*AuthResponse, error) {
	token, err := s.generateToken(user)
	if err != nil {
		s.logger.Error("token signing failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	return &AuthResponse{User: user.Public(), Token: token}, nil
}

func (s *service) generateToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken validates the signature and expiry and extracts the claims.
func (s *service) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	rawID, ok := mc["user_id"].(float64)
	if !ok || rawID <= 0 {
		return nil, ErrInvalidToken
	}

	claims := &Claims{UserID: uint(rawID)}
	claims.Username, _ = mc["username"].(string)
	claims.Role, _ = mc["role"].(string)
	return claims, nil
}
