// Package ids produces the identifiers carried by envelopes and connections.
package ids

import (
	"crypto/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// ConnectionID returns a time-sortable ULID used to tell connections apart in
// logs and traces.
func ConnectionID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Sequence hands out correlation ids of the form "<tag>-<n>". Every
// connection owns its own Sequence so two connections in one process never
// share a counter.
type Sequence struct {
	next atomic.Uint64
}

// NewSequence returns a sequence starting at zero.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next correlation id for tag.
func (s *Sequence) Next(tag string) string {
	n := s.next.Add(1) - 1
	return tag + "-" + strconv.FormatUint(n, 10)
}

// Issued reports how many ids were handed out so far.
func (s *Sequence) Issued() uint64 {
	return s.next.Load()
}
