// Package auth issues and verifies the bearer tokens handed out at login.
//
// Tokens are compact HS256 JWS strings carrying only the subject id and an
// expiry. Nothing is stored server side: a token is trusted because its
// signature checks out against the process-wide secret.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is the fixed validity window of an issued token.
const TokenLifetime = 24 * time.Hour

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrBadSignature   = errors.New("token signature mismatch")
	ErrTokenExpired   = errors.New("token expired")

	// Header-level failures, raised by the gate before a token is parsed.
	ErrMissingToken = errors.New("missing bearer token")
	ErrBadScheme    = errors.New("authorization scheme is not Bearer")

	ErrEmptySecret = errors.New("token secret is empty")
)

var signingMethod = jwt.SigningMethodHS256

// Claims is the token payload.
type Claims struct {
	Subject   int64 `json:"sub"`
	ExpiresAt int64 `json:"exp"`
}

// Identity is the verified caller of one request.
type Identity struct {
	UserID    int64
	ExpiresAt time.Time
}

// Identity converts verified claims into the value handed to protected handlers.
func (c Claims) Identity() Identity {
	return Identity{UserID: c.Subject, ExpiresAt: time.Unix(c.ExpiresAt, 0)}
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)  { return nil, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c Claims) GetIssuer() (string, error)              { return "", nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

func (c Claims) GetSubject() (string, error) {
	return strconv.FormatInt(c.Subject, 10), nil
}

// Codec signs and verifies tokens with one secret. It is immutable after
// construction and safe for concurrent use.
type Codec struct {
	secret []byte
	now    func() time.Time
}

type Option func(*Codec)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func NewCodec(secret []byte, opts ...Option) *Codec {
	c := &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue returns a signed token for subjectID that expires TokenLifetime from now.
func (c *Codec) Issue(subjectID int64) (string, error) {
	if len(c.secret) == 0 {
		return "", ErrEmptySecret
	}
	if subjectID <= 0 {
		return "", fmt.Errorf("invalid token subject %d", subjectID)
	}

	claims := Claims{
		Subject:   subjectID,
		ExpiresAt: c.now().Add(TokenLifetime).Unix(),
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its claims.
// The returned error is one of ErrMalformedToken, ErrBadSignature or
// ErrTokenExpired, wrapping the parser's detail.
func (c *Codec) Verify(token string) (Claims, error) {
	if len(c.secret) == 0 {
		return Claims{}, fmt.Errorf("%w: %w", ErrBadSignature, ErrEmptySecret)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}); err != nil {
		return Claims{}, classify(err)
	}

	if claims.Subject <= 0 {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}

	return *claims, nil
}

// classify folds jwt parser errors into the package sentinels. Signature is
// checked before claims, so an expired token has a valid signature.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}

// IssueToken signs a token for subjectID with secret.
func IssueToken(subjectID int64, secret []byte) (string, error) {
	return NewCodec(secret).Issue(subjectID)
}

// VerifyToken verifies token against secret.
func VerifyToken(token string, secret []byte) (Claims, error) {
	return NewCodec(secret).Verify(token)
}

// Reason returns a short label for a token or header failure, used in logs
// and as a metrics label.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingToken):
		return "missing"
	case errors.Is(err, ErrBadScheme):
		return "bad_scheme"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	default:
		return "invalid"
	}
}
