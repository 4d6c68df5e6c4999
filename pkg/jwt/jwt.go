package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/TBosstradamus/pasha-vorschau-sub000/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

const issuer = "dispatch-console"

// Claims 标签页令牌声明
// 一个令牌对应一个浏览器标签页；登录身份不在令牌中，而是标签页本地状态
type Claims struct {
	TabID     string `json:"tab_id"`
	TokenType string `json:"token_type"` // 固定为 "tab"
	jwtv5.RegisteredClaims
}

// Manager JWT 管理器
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.TabTokenSecret),
		ttl:    cfg.TabTokenTTL,
	}
}

// TTL 令牌有效期
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// GenerateTabToken 为标签页签发令牌
func (m *Manager) GenerateTabToken(tabID string) (string, error) {
	now := time.Now()
	claims := Claims{
		TabID:     tabID,
		TokenType: "tab",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.ttl)),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 解析并验证 Token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TabID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
