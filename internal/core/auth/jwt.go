package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mini-boxdrop/internal/domain"
)

// 登录用户只有一种角色
const RoleUser = "user"

var ErrInvalidToken = errors.New("invalid token")

// Claims sub 为用户 id，email 为签发时的邮箱
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string { return c.Subject }

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Issue 登录成功后签发 HS256 access token
func (j *JWTer) Issue(p domain.Profile) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: p.Email,
		Role:  RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.Issuer,
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
}

// Parse 校验签名 / issuer / 过期时间；失败统一包成 ErrInvalidToken
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(tokenStr, &c, func(*jwt.Token) (any, error) {
		return j.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &c, nil
}
