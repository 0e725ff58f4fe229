package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvestbites/storefront/internal/events"
	"github.com/harvestbites/storefront/internal/models"
	"github.com/harvestbites/storefront/internal/statestore"
	"github.com/harvestbites/storefront/pkg/hash"
	"github.com/harvestbites/storefront/pkg/logging"
	"github.com/harvestbites/storefront/pkg/tokens"
)

var (
	ErrValidation          = errors.New("validation")
	ErrConflict            = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrOTPMismatch         = errors.New("otp mismatch")
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
	otpTTL     = 10 * time.Minute
)

type Service struct {
	Repo          *GormRepo
	Store         statestore.Store
	Producer      events.Publisher
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	UserID       uuid.UUID
	Email        string
	Name         string
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *Service) createAccessToken(userID uuid.UUID, email, name string, exp time.Time) (string, error) {
	claims := tokens.AccessClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
}

func (s *Service) createRefreshToken(userID uuid.UUID, exp time.Time) (string, error) {
	claims := tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.RefreshSecret)
}

func (s *Service) Register(ctx context.Context, email, password, name string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = strings.TrimSpace(strings.ToLower(email))
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email required", ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password too short", ErrValidation)
	}

	if _, err := s.Repo.UserByEmail(ctx, email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	created := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, created); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TopicUserEvents, created.ID.String(), map[string]any{
		"type":   "user_registered",
		"userID": created.ID,
		"email":  created.Email,
	})

	l.Info("register_success", "user_id", created.ID)
	return s.issueTokens(ctx, created.ID, created.Email, created.Name)
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	s.publish(ctx, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return s.issueTokens(ctx, user.ID, user.Email, user.Name)
}

func (s *Service) issueTokens(ctx context.Context, userID uuid.UUID, email, name string) (*LoginResult, error) {
	accessExp := time.Now().Add(accessTTL)
	accessToken, err := s.createAccessToken(userID, email, name, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	refreshToken, err := s.createRefreshToken(userID, refreshExp)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SaveRefreshToken(ctx, refreshToken, userID, refreshExp); err != nil {
		return nil, err
	}

	return &LoginResult{
		UserID:       userID,
		Email:        email,
		Name:         name,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	usable, err := s.Repo.RefreshUsable(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !usable {
		return nil, fmt.Errorf("%w: expired or revoked", ErrInvalidRefreshToken)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidRefreshToken)
	}
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown user", ErrInvalidRefreshToken)
	}

	if err := s.Repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user.ID, user.Email, user.Name)
}

// SendOTP stores a 6-digit code for the email and hands delivery to the
// notification pipeline. The code expires after ten minutes.
func (s *Service) SendOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email required", ErrValidation)
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.Store.Set(ctx, statestore.OTPKey(email), code, otpTTL); err != nil {
		return err
	}

	s.publish(ctx, events.TopicNotificationEvents, email, map[string]any{
		"type":  "email_otp_requested",
		"email": email,
		"otp":   code,
	})
	return nil
}

// VerifyOTP compares and consumes the stored code.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || code == "" {
		return fmt.Errorf("%w: email and otp required", ErrValidation)
	}

	var stored string
	found, err := s.Store.Get(ctx, statestore.OTPKey(email), &stored)
	if err != nil {
		return err
	}
	if !found || stored != code {
		return ErrOTPMismatch
	}
	return s.Store.Delete(ctx, statestore.OTPKey(email))
}

func (s *Service) publish(ctx context.Context, topic, key string, event map[string]any) {
	if s.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", topic, "error", err)
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
