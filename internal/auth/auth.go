package auth

import (
	"cloudport-api/internal/common"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims mirrors the identity token issued by the user pool.
type Claims struct {
	Email    string   `json:"email"`
	UserType string   `json:"custom:userType"`
	Groups   []string `json:"cognito:groups,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserId       string
	Email        string
	UserType     string
	Capabilities map[string]bool
}

func (p *Principal) Can(capability string) bool {
	return p != nil && p.Capabilities[capability]
}

func (p *Principal) IsEngineer() bool {
	return p != nil && p.UserType == common.Engineer
}

func (p *Principal) IsCompany() bool {
	return p != nil && p.UserType == common.Company
}

type Authenticator struct {
	secret      []byte
	adminGroups map[string]bool
}

func NewAuthenticator(secret string, adminGroups []string) *Authenticator {
	groups := make(map[string]bool, len(adminGroups))
	for _, g := range adminGroups {
		groups[g] = true
	}

	return &Authenticator{secret: []byte(secret), adminGroups: groups}
}

// adminCapabilities are granted to members of any configured admin group.
var adminCapabilities = []string{common.CapabilityLogsRead, common.CapabilityContractsRefund}

func (a *Authenticator) Authenticate(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	principal := &Principal{
		UserId:       claims.Subject,
		Email:        claims.Email,
		UserType:     claims.UserType,
		Capabilities: make(map[string]bool),
	}
	for _, g := range claims.Groups {
		if a.adminGroups[g] {
			for _, c := range adminCapabilities {
				principal.Capabilities[c] = true
			}
		}
	}

	return principal, nil
}

// GenerateToken signs an identity token. Used by local tooling and tests.
func (a *Authenticator) GenerateToken(userId, email, userType string, groups []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:    email,
		UserType: userType,
		Groups:   groups,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
