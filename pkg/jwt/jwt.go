package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token emitidos.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrWrongTokenType el token es válido pero no es del tipo esperado (ej. refresh usado como access).
var ErrWrongTokenType = errors.New("jwt: tipo de token incorrecto")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Los roles no viajan en el token: se resuelven por sesión en el servidor.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	SessionID string `json:"sid"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"typ"`
}

// Params datos para firmar un token.
type Params struct {
	Secret     string
	Issuer     string
	UserID     string
	SessionID  string
	Email      string
	TokenType  string
	ExpMinutes int
}

// Generate genera un token JWT HS256 con el usuario y la sesión.
func Generate(p Params) (string, time.Time, error) {
	if p.Secret == "" {
		return "", time.Time{}, fmt.Errorf("jwt: secret vacío")
	}
	if p.TokenType == "" {
		p.TokenType = TypeAccess
	}
	now := time.Now()
	exp := now.Add(time.Duration(p.ExpMinutes) * time.Minute)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    p.Issuer,
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:    p.UserID,
		SessionID: p.SessionID,
		Email:     p.Email,
		TokenType: p.TokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(p.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse valida firma, expiración y tipo del token y devuelve sus claims.
func Parse(secret, tokenString, wantType string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if wantType != "" && claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
