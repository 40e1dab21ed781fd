package store

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// ID strategies accepted by NewIDGenerator.
const (
	IDStrategyUUID     = "uuid"
	IDStrategySequence = "sequence"
)

// DefaultSequencePrefix is the prefix used by sequence IDs, e.g. "log-7".
const DefaultSequencePrefix = "log-"

// IDGenerator allocates record identifiers. Implementations must never
// return the same value twice and must be safe for concurrent use.
type IDGenerator interface {
	NextID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

// NextID calls f.
func (f IDGeneratorFunc) NextID() string {
	return f()
}

// UUIDGenerator issues time-ordered UUIDv7 identifiers.
type UUIDGenerator struct{}

// NextID returns a new UUIDv7, falling back to a random UUID if the clock source fails.
func (UUIDGenerator) NextID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// SequenceGenerator issues prefix+N identifiers from a counter that only moves forward.
type SequenceGenerator struct {
	prefix string
	next   atomic.Uint64
}

// NewSequenceGenerator creates a generator whose first ID is prefix+"1".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// NextID returns the next identifier in the sequence.
func (g *SequenceGenerator) NextID() string {
	return g.prefix + strconv.FormatUint(g.next.Add(1), 10)
}

// NewIDGenerator returns the generator for a configured strategy.
func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strategy {
	case "", IDStrategyUUID:
		return UUIDGenerator{}, nil
	case IDStrategySequence:
		return NewSequenceGenerator(DefaultSequencePrefix), nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}
