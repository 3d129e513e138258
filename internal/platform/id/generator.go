package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque IDs for stored records. The prefix marks the
// record kind so IDs stay recognizable in logs and admin tooling.
type Generator interface {
	NewID(prefix string) (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID(prefix string) (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	encoded := hex.EncodeToString(buf)
	if prefix == "" {
		return encoded, nil
	}
	return prefix + "_" + encoded, nil
}
