package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// 最短密钥长度（HS256）
const MinSecretLen = 32

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UID      string `json:"uid"`
	Role     string `json:"role"` // Customer / Vendor / SuperAdmin
	HasStore bool   `json:"hasStore"`
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
	Leeway   time.Duration

	now func() time.Time
}

func NewJWTer(secret, issuer, audience string, ttl, leeway time.Duration) (*JWTer, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLen)
	}
	if issuer == "" || audience == "" {
		return nil, errors.New("jwt issuer and audience are required")
	}
	if ttl <= 0 {
		return nil, errors.New("jwt ttl must be positive")
	}
	return &JWTer{Secret: []byte(secret), Issuer: issuer, Audience: audience, TTL: ttl, Leeway: leeway}, nil
}

func (j *JWTer) clock() time.Time {
	if j.now != nil {
		return j.now()
	}
	return time.Now()
}

// Issue 签发 access token，返回过期时间方便客户端提前刷新
func (j *JWTer) Issue(uid, role string, hasStore bool) (string, time.Time, error) {
	now := j.clock()
	exp := now.Add(j.TTL)
	claims := Claims{
		UID:      uid,
		Role:     role,
		HasStore: hasStore,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   uid,
			Issuer:    j.Issuer,
			Audience:  jwt.ClaimStrings{j.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

// Parse 签名、issuer、audience、过期四项全部校验
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.Issuer),
		jwt.WithAudience(j.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(j.Leeway),
		jwt.WithTimeFunc(j.clock),
	)
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid && c.UID != "" {
		return c, nil
	}
	return nil, ErrInvalidToken
}
