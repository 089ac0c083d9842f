// Package assemble joins split A2S responses back into single packet datagrams.
package assemble

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/woozymasta/a2sdecode/pkg/a2s"
)

var (
	// ErrCompressed is returned for Source responses flagged as bzip2 compressed.
	ErrCompressed = errors.New("compressed split response")

	// ErrInvalidFragment is returned when a fragment header cannot belong to any response.
	ErrInvalidFragment = errors.New("invalid fragment")
)

// DefaultTTL is how long an incomplete response is kept.
const DefaultTTL = 5 * time.Second

type key struct {
	source string
	id     int32
}

type group struct {
	parts    [][]byte
	updated  time.Time
	received int
}

// Assembler collects fragments per (source, response id). It is safe for concurrent use.
type Assembler struct {
	groups map[key]*group
	mu     sync.Mutex

	// TTL overrides DefaultTTL when positive.
	TTL time.Duration

	// Dialect tells whether the sign bit of a fragment id marks compression.
	Dialect a2s.FragmentDialect
}

// New returns an Assembler for fragments of the given dialect.
func New(dialect a2s.FragmentDialect) *Assembler {
	return &Assembler{
		Dialect: dialect,
		groups:  make(map[key]*group),
	}
}

// Add stores a fragment received from source at the given time. Once every
// fragment of the response arrived it returns the joined payload, ordered by
// fragment number, and true. The joined payload is the single packet datagram
// the server split, header included.
func (a *Assembler) Add(source string, f *a2s.Fragment, at time.Time) ([]byte, bool, error) {
	if f.Compression != nil || (a.Dialect == a2s.FragmentSource && f.Compressed()) {
		return nil, false, fmt.Errorf("%w: id %d", ErrCompressed, f.ID)
	}
	if f.Total == 0 || f.Number >= f.Total {
		return nil, false, fmt.Errorf("%w: number %d of %d", ErrInvalidFragment, f.Number, f.Total)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.groups == nil {
		a.groups = make(map[key]*group)
	}

	k := key{source: source, id: f.ID}
	g, ok := a.groups[k]
	if !ok || len(g.parts) != int(f.Total) {
		// A changed total means the id was reused by a new response.
		g = &group{parts: make([][]byte, f.Total)}
		a.groups[k] = g
	}
	g.updated = at

	if g.parts[f.Number] == nil {
		g.received++
	}
	part := make([]byte, len(f.Payload))
	copy(part, f.Payload)
	g.parts[f.Number] = part

	if g.received < len(g.parts) {
		return nil, false, nil
	}

	delete(a.groups, k)

	size := 0
	for _, p := range g.parts {
		size += len(p)
	}
	joined := make([]byte, 0, size)
	for _, p := range g.parts {
		joined = append(joined, p...)
	}

	return joined, true, nil
}

// Expire drops incomplete responses not updated since TTL before now and returns how many were dropped.
func (a *Assembler) Expire(now time.Time) int {
	ttl := a.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	dropped := 0
	for k, g := range a.groups {
		if now.Sub(g.updated) > ttl {
			delete(a.groups, k)
			dropped++
		}
	}

	return dropped
}

// Pending returns the number of incomplete responses held.
func (a *Assembler) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.groups)
}
