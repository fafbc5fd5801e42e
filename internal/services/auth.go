package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/lovepattern-backend/internal/platform/ctxutil"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

const tokenIssuer = "lovepattern"

// AuthService issues and verifies session tokens. The "login" of the product
// is a stub flag on the session; the token only binds a browser to its
// session id.
type AuthService interface {
	IssueToken(sessionID string) (string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetTokenTTL() time.Duration
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey []byte
	tokenTTL     time.Duration
	timeNow      func() time.Time
}

// NewAuthService generates a per-process key when secret is empty; tokens
// then stop verifying after a restart, which matches in-memory sessions.
func NewAuthService(log *logger.Logger, secret string, ttl time.Duration) (AuthService, error) {
	serviceLog := log.With("service", "AuthService")
	key := []byte(strings.TrimSpace(secret))
	if len(key) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate jwt key: %w", err)
		}
		key = []byte(hex.EncodeToString(buf))
		serviceLog.Warn("JWT_SECRET_KEY not set; using a per-process key")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{
		log:          serviceLog,
		jwtSecretKey: key,
		tokenTTL:     ttl,
		timeNow:      time.Now,
	}, nil
}

func (as *authService) IssueToken(sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("session id required")
	}
	now := as.timeNow()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(as.jwtSecretKey)
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, fmt.Errorf("missing token")
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(as.timeNow),
	)
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid || strings.TrimSpace(claims.Subject) == "" {
		return ctx, fmt.Errorf("invalid or expired token")
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		rd = &ctxutil.RequestData{}
	} else {
		cp := *rd
		rd = &cp
	}
	rd.SessionID = claims.Subject
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetTokenTTL() time.Duration {
	return as.tokenTTL
}
