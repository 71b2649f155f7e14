// Package cryptox holds the password hashing primitives used by the server.
//
// Hashes are self-describing strings: the algorithm, its cost parameters and
// the salt travel with the digest, so a stored hash can be verified without
// any other configuration.
package cryptox

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Supported hashing algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// ErrMalformedHash is returned by Verify when the stored hash cannot be
// parsed. A wrong password is never reported as an error.
var ErrMalformedHash = errors.New("malformed password hash")

// ErrPasswordTooLong is returned by Hash when the algorithm cannot take the
// whole password. bcrypt reads at most 72 bytes.
var ErrPasswordTooLong = errors.New("password too long")

// BcryptMaxPasswordBytes is the longest password bcrypt accepts.
const BcryptMaxPasswordBytes = 72

// PasswordHasher hashes and verifies plaintext passwords.
//
// Implementations are immutable after construction and safe for concurrent use.
type PasswordHasher interface {
	// Hash returns a salted, self-describing hash of password. Two calls
	// with the same password return different strings.
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. The comparison takes
	// the same time regardless of how many leading bytes match.
	Verify(password, hash string) (bool, error)
}

// HasherConfig selects the algorithm and its work factor.
type HasherConfig struct {
	Algorithm     string
	BcryptCost    int
	Argon2Time    uint32
	Argon2Memory  uint32
	Argon2Threads uint8
}

// NewHasher builds the hasher described by cfg. Zero fields take the
// algorithm defaults. The result hashes with the configured algorithm and
// verifies hashes produced by any supported one.
func NewHasher(cfg HasherConfig) (PasswordHasher, error) {
	primary, err := newPrimary(cfg)
	if err != nil {
		return nil, err
	}
	return &Hasher{
		primary: primary,
		bcrypt:  NewBcryptHasher(bcrypt.DefaultCost),
		argon2:  NewArgon2Hasher(),
	}, nil
}

func newPrimary(cfg HasherConfig) (PasswordHasher, error) {
	switch strings.ToLower(cfg.Algorithm) {
	case "", AlgorithmBcrypt:
		cost := cfg.BcryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
		}
		return NewBcryptHasher(cost), nil

	case AlgorithmArgon2id:
		var opts []Argon2Option
		if cfg.Argon2Time != 0 {
			opts = append(opts, WithArgon2Time(cfg.Argon2Time))
		}
		if cfg.Argon2Memory != 0 {
			opts = append(opts, WithArgon2Memory(cfg.Argon2Memory))
		}
		if cfg.Argon2Threads != 0 {
			opts = append(opts, WithArgon2Threads(cfg.Argon2Threads))
		}
		return NewArgon2Hasher(opts...), nil

	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", cfg.Algorithm)
	}
}

// Hasher hashes with one algorithm and picks the verifier from the stored
// hash prefix, so switching the configured algorithm keeps old accounts
// working.
type Hasher struct {
	primary PasswordHasher
	// verification reads cost parameters from the hash, not from these
	bcrypt *BcryptHasher
	argon2 *Argon2Hasher
}

func (h *Hasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

func (h *Hasher) Verify(password, hash string) (bool, error) {
	switch Algorithm(hash) {
	case AlgorithmBcrypt:
		return h.bcrypt.Verify(password, hash)
	case AlgorithmArgon2id:
		return h.argon2.Verify(password, hash)
	default:
		return false, fmt.Errorf("%w: unknown hash format", ErrMalformedHash)
	}
}

// Algorithm names the algorithm that produced hash, or "" if the prefix is
// not recognised.
func Algorithm(hash string) string {
	switch {
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return AlgorithmBcrypt
	case strings.HasPrefix(hash, "$"+AlgorithmArgon2id+"$"):
		return AlgorithmArgon2id
	default:
		return ""
	}
}

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt hasher with a fixed cost. The cost is not
// checked here; an invalid cost makes Hash fail.
func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > BcryptMaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}
