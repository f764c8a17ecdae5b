package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"admincore/internal/shared/biztime"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Sentinel errors surfaced by Verify*. Callers map these onto the public
// error taxonomy.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims carries the authenticated identity through both token kinds.
type Claims struct {
	PrincipalID uint      `json:"principal_id"`
	Username    string    `json:"username"`
	DeviceID    string    `json:"device_id"`
	TokenType   TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// JWTService signs and verifies HS256 token pairs. Access and refresh
// tokens use independent secrets so a leaked access secret cannot mint
// refresh tokens.
type JWTService struct {
	accessSecret     []byte
	refreshSecret    []byte
	accessExpMinutes int
	refreshExpDays   int
}

func NewJWTService(accessSecret, refreshSecret string, accessExpMinutes, refreshExpDays int) *JWTService {
	return &JWTService{
		accessSecret:     []byte(accessSecret),
		refreshSecret:    []byte(refreshSecret),
		accessExpMinutes: accessExpMinutes,
		refreshExpDays:   refreshExpDays,
	}
}

// GeneratePair issues an access/refresh token pair bound to a device
// session.
func (s *JWTService) GeneratePair(principalID uint, username, deviceID string) (*TokenPair, error) {
	now := biztime.NowUTC()

	accessToken, err := s.sign(principalID, username, deviceID, TokenTypeAccess, s.accessSecret,
		now, now.Add(time.Duration(s.accessExpMinutes)*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := s.sign(principalID, username, deviceID, TokenTypeRefresh, s.refreshSecret,
		now, now.Add(time.Duration(s.refreshExpDays)*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessExpMinutes * 60),
	}, nil
}

func (s *JWTService) sign(principalID uint, username, deviceID string, tokenType TokenType, secret []byte, now, exp time.Time) (string, error) {
	claims := &Claims{
		PrincipalID: principalID,
		Username:    username,
		DeviceID:    deviceID,
		TokenType:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			// iat/exp have second granularity; the jti keeps two tokens
			// minted within the same second distinct so re-login always
			// supersedes the stored refresh token
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccess validates an access token and returns its claims.
func (s *JWTService) VerifyAccess(tokenString string) (*Claims, error) {
	return s.verify(tokenString, TokenTypeAccess, s.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (s *JWTService) VerifyRefresh(tokenString string) (*Claims, error) {
	return s.verify(tokenString, TokenTypeRefresh, s.refreshSecret)
}

func (s *JWTService) verify(tokenString string, expected TokenType, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != expected {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// HashRefreshToken digests a refresh token for storage. Only the digest is
// persisted next to a device session.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
