package http

import (
	"admincore/internal/application/auth/usecases"
	"admincore/internal/infrastructure/auth"
)

// tokenServiceAdapter adapts JWTService to the usecases.TokenService port.
type tokenServiceAdapter struct {
	*auth.JWTService
}

func (a *tokenServiceAdapter) GeneratePair(principalID uint, username, deviceID string) (*usecases.TokenPair, error) {
	pair, err := a.JWTService.GeneratePair(principalID, username, deviceID)
	if err != nil {
		return nil, err
	}
	return &usecases.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func (a *tokenServiceAdapter) VerifyRefresh(token string) (*usecases.RefreshClaims, error) {
	claims, err := a.JWTService.VerifyRefresh(token)
	if err != nil {
		return nil, err
	}
	return &usecases.RefreshClaims{
		PrincipalID: claims.PrincipalID,
		Username:    claims.Username,
		DeviceID:    claims.DeviceID,
	}, nil
}

func (a *tokenServiceAdapter) HashToken(token string) string {
	return auth.HashRefreshToken(token)
}
