// Package snowflake provides lock-free generation of 64-bit, time-sortable
// identifiers without coordination between nodes.
//
// ID characteristics:
//
//   - 43 bits for milliseconds since the reference epoch:
//     2^43 ms is roughly 279 years of headroom
//   - 12 bits for a per-millisecond sequence number: 4096 ids per millisecond
//   - 9 bits for a node id: 512 nodes
//
// Numeric comparison of two IDs approximates chronological order. Uniqueness
// across nodes depends entirely on distinct node id assignment, which is an
// operational invariant enforced outside this package.
package snowflake

import (
	"math/rand/v2"
	"sync/atomic"
	"time"
)

const (
	sequenceBits = 12
	nodeIDBits   = 9

	sequenceMask = (1 << sequenceBits) - 1
	nodeIDMask   = (1 << nodeIDBits) - 1

	// timestampShift positions the elapsed-ms field above sequence and node.
	timestampShift = sequenceBits + nodeIDBits
)

// DefaultEpoch is the fixed reference instant IDs measure elapsed time from.
// The 43-bit millisecond field keeps IDs representable until roughly 2300.
var DefaultEpoch = time.Unix(1632280000, 0)

// Generator produces snowflake IDs for one node. The only mutable state is
// the atomic sequence counter, so Generate is safe for unbounded concurrent
// callers with no locking.
type Generator struct {
	epoch    time.Time
	nodeID   uint64
	sequence atomic.Uint64
	now      func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the wall-clock source. Tests inject a fixed or
// stepped clock here to make generation deterministic.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator with a randomly chosen node id.
func New(opts ...Option) *Generator {
	return NewWithNodeID(rand.Uint64(), opts...)
}

// NewWithNodeID creates a Generator with an explicit node id. Only the low
// 9 bits are significant; higher bits are ignored at generation time, not
// here.
func NewWithNodeID(nodeID uint64, opts ...Option) *Generator {
	g := &Generator{
		epoch:  DefaultEpoch,
		nodeID: nodeID,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the next ID. Elapsed time saturates at zero if the
// system clock reports an instant before the epoch. The sequence counter
// wraps silently after 4096 IDs within one millisecond; callers exceeding
// that per-node throughput ceiling can mint duplicates, which is accepted
// rather than stalling the caller.
func (g *Generator) Generate() uint64 {
	elapsed := g.now().Sub(g.epoch).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	sequence := (g.sequence.Add(1) - 1) & sequenceMask

	return uint64(elapsed)<<timestampShift |
		sequence<<nodeIDBits |
		g.nodeID&nodeIDMask
}

// IsValid reports whether the current clock reading is at or after the
// epoch. Callers in clock-skewed environments should consult it before
// trusting generated IDs: before the epoch every ID carries elapsed=0 and
// only sequence and node distinguish them.
func (g *Generator) IsValid() bool {
	return !g.now().Before(g.epoch)
}

// PastID returns the ID boundary (sequence and node zero) for the instant
// period before now, measured against the generator's epoch. It reports
// false when the instant is not representable: the clock is before the
// epoch or period exceeds the elapsed time since it.
func (g *Generator) PastID(period time.Duration) (uint64, bool) {
	return pastID(g.now(), g.epoch, period)
}

// Clone returns a generator with the same epoch and node id but a sequence
// counter reset to zero. A clone minting IDs in the same millisecond as its
// source can duplicate IDs; never run a clone concurrently with its source.
func (g *Generator) Clone() *Generator {
	return &Generator{
		epoch:  g.epoch,
		nodeID: g.nodeID,
		now:    g.now,
	}
}

// FromDuration returns the ID boundary for the instant period before now,
// measured against DefaultEpoch. Callers use it to build range-query
// boundaries such as "all IDs older than 30 days"; the result is never a
// real minted ID. It reports false when the instant predates the epoch.
func FromDuration(period time.Duration) (uint64, bool) {
	return pastID(time.Now(), DefaultEpoch, period)
}

// FromTimestamp returns the ID boundary for the given Unix timestamp in
// seconds, measured against DefaultEpoch. It reports false for timestamps
// in the future or before the epoch.
func FromTimestamp(unixSeconds uint64) (uint64, bool) {
	now := time.Now().Unix()
	if now < 0 || unixSeconds > uint64(now) {
		return 0, false
	}
	return FromDuration(time.Duration(uint64(now)-unixSeconds) * time.Second)
}

// Timestamp recovers the wall-clock instant encoded in id, assuming it was
// generated against DefaultEpoch.
func Timestamp(id uint64) time.Time {
	ms := id >> timestampShift
	return DefaultEpoch.Add(time.Duration(ms) * time.Millisecond)
}

// Sequence extracts the per-millisecond sequence field of id.
func Sequence(id uint64) uint64 {
	return (id >> nodeIDBits) & sequenceMask
}

// NodeID extracts the node id field of id.
func NodeID(id uint64) uint64 {
	return id & nodeIDMask
}

func pastID(now, epoch time.Time, period time.Duration) (uint64, bool) {
	elapsed := now.Sub(epoch)
	if elapsed < 0 {
		return 0, false
	}
	elapsed -= period
	if elapsed < 0 {
		return 0, false
	}
	return uint64(elapsed.Milliseconds()) << timestampShift, true
}
