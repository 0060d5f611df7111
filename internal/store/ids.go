package store

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator produces identifiers for change log entries.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator issues time-ordered UUIDs so audit entries stay
// sortable by ID when timestamps collide.
type UUIDv7Generator struct{}

func (UUIDv7Generator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		// v7 only fails if the random source does; fall back to v4.
		return uuid.NewString()
	}
	return id.String()
}

// FixedGenerator replays a predetermined ID sequence, then continues
// with a counter. Tests use it for deterministic change logs.
type FixedGenerator struct {
	ids  []string
	next int
}

func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

func (g *FixedGenerator) Generate() string {
	g.next++
	if g.next <= len(g.ids) {
		return g.ids[g.next-1]
	}
	return fmt.Sprintf("chg-%d", g.next)
}
