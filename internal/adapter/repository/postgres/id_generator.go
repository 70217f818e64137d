package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator issues analysis result IDs as ULIDs. They encode
// creation time, so results sort chronologically by ID.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a fresh ULID string.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
