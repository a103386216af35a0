package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/grimsl/GameShelf/internal/session"
	"github.com/grimsl/GameShelf/internal/user"
)

var ErrUnauthorized = errors.New("unauthorized")

const (
	accessTokenTTL       = 15 * time.Minute
	refreshTokenTTL      = 30 * 24 * time.Hour
	rememberedRefreshTTL = 90 * 24 * time.Hour
)

type Service struct {
	secret         string
	userService    *user.Service
	sessionService *session.Service
}

func NewService(secret string, userService *user.Service, sessionService *session.Service) *Service {
	return &Service{
		secret:         secret,
		userService:    userService,
		sessionService: sessionService,
	}
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func newRefreshToken() (token, tokenHash string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(raw)
	return token, hashToken(token), nil
}

// Login verifies credentials and mints an access/refresh token pair. The
// password comparison runs even for unknown emails so both failure modes
// cost the same.
func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool, userAgent, ipAddress string) (string, string, int, error) {
	u, err := s.userService.GetByEmail(ctx, email)
	if err != nil || !VerifyPassword(u.Password, password) {
		return "", "", 0, ErrUnauthorized
	}

	refreshTTL := refreshTokenTTL
	if rememberMe {
		refreshTTL = rememberedRefreshTTL
	}

	accessToken, _, err := GenerateToken(s.secret, u.ID, u.Role, accessTokenTTL)
	if err != nil {
		return "", "", 0, err
	}

	refreshToken, tokenHash, err := newRefreshToken()
	if err != nil {
		return "", "", 0, err
	}

	sess := &session.Session{
		UserID:           u.ID,
		RefreshTokenHash: tokenHash,
		UserAgent:        userAgent,
		IPAddress:        ipAddress,
		RememberMe:       rememberMe,
		ExpiresAt:        time.Now().Add(refreshTTL),
	}
	if err := s.sessionService.Create(ctx, sess); err != nil {
		return "", "", 0, err
	}

	return accessToken, refreshToken, int(accessTokenTTL.Seconds()), nil
}

// RefreshToken rotates the refresh token: the presented one is consumed and
// a new session row replaces it.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, string, int, error) {
	tokenHash := hashToken(refreshToken)
	sess, err := s.sessionService.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return "", "", 0, ErrUnauthorized
	}

	u, err := s.userService.GetByID(ctx, sess.UserID)
	if err != nil {
		return "", "", 0, ErrUnauthorized
	}

	if err := s.sessionService.DeleteByTokenHash(ctx, tokenHash); err != nil {
		return "", "", 0, err
	}

	refreshTTL := refreshTokenTTL
	if sess.RememberMe {
		refreshTTL = rememberedRefreshTTL
	}

	accessToken, _, err := GenerateToken(s.secret, u.ID, u.Role, accessTokenTTL)
	if err != nil {
		return "", "", 0, err
	}

	newToken, newHash, err := newRefreshToken()
	if err != nil {
		return "", "", 0, err
	}

	newSess := sess
	newSess.ID = ""
	newSess.RefreshTokenHash = newHash
	newSess.ExpiresAt = time.Now().Add(refreshTTL)
	if err := s.sessionService.Create(ctx, &newSess); err != nil {
		return "", "", 0, err
	}

	return accessToken, newToken, int(accessTokenTTL.Seconds()), nil
}

// Logout blacklists the presented access token until it would have expired.
func (s *Service) Logout(ctx context.Context, token string, userID string) error {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return ErrUnauthorized
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.sessionService.AddToBlacklist(ctx, claims.ID, userID, expiresAt)
}
