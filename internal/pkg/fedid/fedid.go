// Package fedid generates federation IDs assigned to accounts on approval.
// The generator is injected into the approval workflow so tests can supply
// a deterministic one.
package fedid

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Prefixes per applicant role. The visible format is DAF-<prefix><digits>,
// e.g. DAF-F100042 for a fencer.
var prefixes = map[string]string{
	"fencer":  "DAF-F",
	"coach":   "DAF-C",
	"referee": "DAF-R",
	"school":  "DAF-S",
	"club":    "DAF-CL",
}

// Generator produces a new federation ID for a role
type Generator interface {
	Next(role string) string
}

// CounterGenerator issues IDs from a process-wide monotonic counter seeded
// from the clock, so concurrent approvals never collide within a process
// and restarts keep moving forward.
type CounterGenerator struct {
	counter atomic.Uint64
}

// NewCounterGenerator creates the default generator
func NewCounterGenerator() *CounterGenerator {
	g := &CounterGenerator{}
	// Seed with second-resolution time; plenty of headroom between restarts.
	g.counter.Store(uint64(time.Now().Unix()))
	return g
}

// Next returns the next federation ID for the role
func (g *CounterGenerator) Next(role string) string {
	prefix, ok := prefixes[role]
	if !ok {
		prefix = "DAF-X"
	}
	return fmt.Sprintf("%s%d", prefix, g.counter.Add(1))
}

// Sequential is a deterministic generator for tests: DAF-F1, DAF-F2, ...
type Sequential struct {
	n atomic.Uint64
}

// Next returns the next sequential federation ID for the role
func (s *Sequential) Next(role string) string {
	prefix, ok := prefixes[role]
	if !ok {
		prefix = "DAF-X"
	}
	return fmt.Sprintf("%s%d", prefix, s.n.Add(1))
}
