package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/andarie1/task-manager/core"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

var errWrongType = errors.New("unexpected token type")

type claims struct {
	Username string `json:"username"`
	Type     string `json:"typ"`
	jwt.RegisteredClaims
}

// Provider signs HS256 access/refresh pairs.
type Provider struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

var _ core.Tokens = (*Provider)(nil)

func New(secret string, accessTTL, refreshTTL time.Duration) *Provider {
	return &Provider{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock returns a copy of p that stamps and checks tokens against now.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	cp := *p
	cp.now = now
	return &cp
}

func (p *Provider) Issue(u core.User) (core.TokenPair, error) {
	access, err := p.sign(u.ID, u.Username, typeAccess, p.accessTTL)
	if err != nil {
		return core.TokenPair{}, err
	}
	refresh, err := p.sign(u.ID, u.Username, typeRefresh, p.refreshTTL)
	if err != nil {
		return core.TokenPair{}, err
	}
	return core.TokenPair{Access: access, Refresh: refresh}, nil
}

func (p *Provider) IssueAccess(userID int64, username string) (string, error) {
	return p.sign(userID, username, typeAccess, p.accessTTL)
}

func (p *Provider) ParseAccess(token string) (core.Claims, error) {
	return p.parse(token, typeAccess)
}

func (p *Provider) ParseRefresh(token string) (core.Claims, error) {
	return p.parse(token, typeRefresh)
}

func (p *Provider) sign(userID int64, username, typ string, ttl time.Duration) (string, error) {
	now := p.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: username,
		Type:     typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (p *Provider) parse(token, typ string) (core.Claims, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return core.Claims{}, fmt.Errorf("%w: %v", core.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return core.Claims{}, core.ErrInvalidToken
	}
	if c.Type != typ {
		return core.Claims{}, fmt.Errorf("%w: %v", core.ErrInvalidToken, errWrongType)
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return core.Claims{}, fmt.Errorf("%w: bad subject", core.ErrInvalidToken)
	}

	return core.Claims{
		UserID:    userID,
		Username:  c.Username,
		ID:        c.ID,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
