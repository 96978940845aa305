package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/nforum-dev/nforum/shared/logger"
	"github.com/nforum-dev/nforum/shared/validation"
)

var ErrInvalidToken = errors.New("invalid token")

type Config interface {
	JwtKey() string
	JwtTTL() time.Duration
}

// Tokens issues and verifies HS256 tokens naming a ForumUser.
type Tokens struct {
	secretKey string
	ttl       time.Duration
}

func NewTokens(cfg Config) *Tokens {
	return &Tokens{secretKey: cfg.JwtKey(), ttl: cfg.JwtTTL()}
}

func (t *Tokens) NewToken(user domain.ForumUser) (string, error) {
	claims := jwt.MapClaims{}
	claims["uid"] = user.Id.String()
	claims["username"] = user.Username
	claims["exp"] = time.Now().Add(t.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(t.secretKey))
	if err != nil {
		return "", fmt.Errorf("can't sign token: %w", err)
	}
	return tokenString, nil
}

// DecodeToken verifies the token and returns the user id it carries.
func (t *Tokens) DecodeToken(tokenString string) (domain.Id, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(t.secretKey), nil
	})
	if err != nil {
		return domain.Id{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return domain.Id{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Id{}, ErrInvalidToken
	}
	uid, ok := claims["uid"].(string)
	if !ok {
		return domain.Id{}, fmt.Errorf("%w: uid claim missing", ErrInvalidToken)
	}
	id, err := validation.ParseId("uid", uid)
	if err != nil {
		return domain.Id{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return id, nil
}

// UserLookup loads a ForumUser by id, typically through the datastore.
type UserLookup func(ctx context.Context, id domain.Id) (domain.ForumUser, error)

// TokenUserProvider resolves the user named by a bearer token. An empty,
// invalid or expired token, or an unknown user, all mean anonymous.
type TokenUserProvider struct {
	Token  string
	Tokens *Tokens
	Lookup UserLookup
}

func (p TokenUserProvider) CurrentUser(ctx context.Context) *domain.ForumUser {
	if p.Token == "" {
		return nil
	}
	id, err := p.Tokens.DecodeToken(p.Token)
	if err != nil {
		logger.Log.Warn("ignoring token", "error", err)
		return nil
	}
	user, err := p.Lookup(ctx, id)
	if err != nil {
		logger.Log.Warn("token names an unknown user", "uid", id, "error", err)
		return nil
	}
	return &user
}
