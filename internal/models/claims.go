package models

import "github.com/golang-jwt/jwt/v4"

// AccessClaims identify the caller on every authenticated request.
type AccessClaims struct {
	UserID string `json:"_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// RefreshClaims only carry the user id.
type RefreshClaims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
