// Package auth emite e valida os tokens de sessão e guarda no Redis o que
// precisa sobreviver entre requisições: tokens revogados e tokens de reset
// de senha.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("auth: invalid token")

// Claims é o que o middleware precisa saber do token.
type Claims struct {
	UserID    uint
	Role      string
	ID        string // jti
	ExpiresAt time.Time
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue assina um HS256 com sub, role, jti, iat e exp.
func (i *Issuer) Issue(userID uint, role string) (string, Claims, error) {
	now := i.now()
	c := Claims{
		UserID:    userID,
		Role:      role,
		ID:        uuid.NewString(),
		ExpiresAt: now.Add(i.ttl),
	}

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"jti":  c.ID,
		"exp":  c.ExpiresAt.Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, c, nil
}

func (i *Issuer) Parse(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	sub, ok1 := mc["sub"].(float64)
	jti, ok2 := mc["jti"].(string)
	role, _ := mc["role"].(string)
	if !ok1 || !ok2 || sub <= 0 {
		return Claims{}, ErrInvalidToken
	}

	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		UserID:    uint(sub),
		Role:      role,
		ID:        jti,
		ExpiresAt: exp.Time,
	}, nil
}
