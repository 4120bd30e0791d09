package shortener

import (
	"context"
	"fmt"

	"github.com/jaevor/go-nanoid"
)

const (
	// CodeLength is the fixed width of every short code.
	CodeLength = 6
	// CodeAlphabet is the set of characters a short code is drawn from.
	CodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	// DefaultMaxAttempts bounds collision retries per generated code.
	DefaultMaxAttempts = 10
)

// CodeSource draws a random candidate code.
type CodeSource func() string

// NewCodeSource returns a crypto-random source of CodeLength codes over CodeAlphabet.
func NewCodeSource() (CodeSource, error) {
	gen, err := nanoid.CustomASCII(CodeAlphabet, CodeLength)
	if err != nil {
		return nil, fmt.Errorf("create code source: %w", err)
	}

	return gen, nil
}

// KeyChecker reports whether a code is already mapped.
type KeyChecker interface {
	Exists(ctx context.Context, code Code) (bool, error)
}

// KeyGenerator produces codes that are unused at the time of the check.
// The code is not reserved: a concurrent caller may still claim it before Put.
type KeyGenerator struct {
	store       KeyChecker
	next        CodeSource
	maxAttempts int
}

// NewKeyGenerator creates a generator that gives up after maxAttempts collisions.
func NewKeyGenerator(store KeyChecker, next CodeSource, maxAttempts int) *KeyGenerator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &KeyGenerator{
		store:       store,
		next:        next,
		maxAttempts: maxAttempts,
	}
}

// Generate returns a code with no current mapping, or ErrKeySpaceExhausted.
func (g *KeyGenerator) Generate(ctx context.Context) (Code, error) {
	for range g.maxAttempts {
		code := Code(g.next())

		exists, err := g.store.Exists(ctx, code)
		if err != nil {
			return "", err
		}

		if !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts", ErrKeySpaceExhausted, g.maxAttempts)
}
