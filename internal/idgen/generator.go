// Package idgen issues snowflake-style 64-bit identifiers. Each id packs a
// millisecond offset from a fixed epoch, a node discriminator and a
// per-millisecond sequence, so ids are unique per node and ordered by time
// without any central coordination.
package idgen

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Bit layout of an id, most significant first. The sum is 63 so every id
// fits a signed BIGINT column.
const (
	TimestampBits = 45
	NodeBits      = 2
	SequenceBits  = 16

	// MaxNode is the largest node id the layout can carry.
	MaxNode = 1<<NodeBits - 1

	maxSequence  = 1<<SequenceBits - 1
	maxTimestamp = 1<<TimestampBits - 1
	nodeShift    = SequenceBits
	timeShift    = NodeBits + SequenceBits
)

// DefaultMaxClockDrift is how far the clock may step backwards before Next
// fails instead of waiting.
const DefaultMaxClockDrift = 10 * time.Millisecond

// Epoch is the reference instant all timestamps are measured from.
var Epoch = time.Date(2024, time.February, 24, 20, 45, 15, 0, time.UTC)

var (
	// ErrInvalidNode is returned by New when the node id does not fit the layout.
	ErrInvalidNode = errors.New("node id out of range")

	// ErrClockMovedBackwards is returned when the clock regressed further than
	// the configured drift tolerance. Ids are never issued out of order.
	ErrClockMovedBackwards = errors.New("clock moved backwards")

	// ErrClockBeforeEpoch is returned when the clock reads earlier than Epoch.
	ErrClockBeforeEpoch = errors.New("clock is before generator epoch")

	// ErrTimeOverflow is returned once the timestamp no longer fits its bits.
	ErrTimeOverflow = errors.New("timestamp exceeds id capacity")
)

// IDGenerator is the dependency services take to obtain new primary keys.
type IDGenerator interface {
	Next() (uint64, error)
}

// Options configures a Generator. Zero values select the defaults.
type Options struct {
	NodeID        int
	MaxClockDrift time.Duration

	// Clock and Sleep are injectable for tests.
	Clock func() time.Time
	Sleep func(time.Duration)
}

// Generator is safe for concurrent use. One instance should exist per
// process and node id.
type Generator struct {
	mu       sync.Mutex
	node     uint64
	lastTick int64
	sequence uint64

	maxDrift time.Duration
	now      func() time.Time
	sleep    func(time.Duration)
}

var _ IDGenerator = (*Generator)(nil)

// New creates a Generator for the given options.
func New(opts Options) (*Generator, error) {
	if opts.NodeID < 0 || opts.NodeID > MaxNode {
		return nil, fmt.Errorf("%w: %d (allowed 0..%d)", ErrInvalidNode, opts.NodeID, MaxNode)
	}
	if opts.MaxClockDrift <= 0 {
		opts.MaxClockDrift = DefaultMaxClockDrift
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}

	return &Generator{
		node:     uint64(opts.NodeID),
		lastTick: -1,
		maxDrift: opts.MaxClockDrift,
		now:      opts.Clock,
		sleep:    opts.Sleep,
	}, nil
}

// Next returns a new id. Ids from one generator are strictly increasing.
//
// When the sequence for the current millisecond is used up, Next waits for the
// next millisecond. When the clock reads earlier than the last issued
// timestamp, Next waits for it to catch up if the gap is within the drift
// tolerance and returns ErrClockMovedBackwards otherwise.
func (g *Generator) Next() (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	tick, err := g.tick()
	if err != nil {
		return 0, err
	}

	if tick < g.lastTick {
		behind := time.Duration(g.lastTick-tick) * time.Millisecond
		if behind > g.maxDrift {
			return 0, fmt.Errorf("%w: %s behind last issued id", ErrClockMovedBackwards, behind)
		}
		if tick, err = g.waitFor(g.lastTick); err != nil {
			return 0, err
		}
	}

	if tick == g.lastTick {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			if tick, err = g.waitFor(g.lastTick + 1); err != nil {
				return 0, err
			}
		}
	} else {
		g.sequence = 0
	}

	g.lastTick = tick
	return uint64(tick)<<timeShift | g.node<<nodeShift | g.sequence, nil
}

// MustNext is Next for callers that cannot recover from a clock failure,
// such as fixtures and seed data. It panics on error.
func (g *Generator) MustNext() uint64 {
	id, err := g.Next()
	if err != nil {
		// ALLOW-PANIC: documented behavior of MustNext
		panic(err)
	}
	return id
}

// tick reads the clock as milliseconds since Epoch.
func (g *Generator) tick() (int64, error) {
	ms := g.now().Sub(Epoch).Milliseconds()
	if ms < 0 {
		return 0, ErrClockBeforeEpoch
	}
	if ms > maxTimestamp {
		return 0, ErrTimeOverflow
	}
	return ms, nil
}

// waitFor blocks until the clock reaches at least target.
func (g *Generator) waitFor(target int64) (int64, error) {
	for {
		tick, err := g.tick()
		if err != nil {
			return 0, err
		}
		if tick >= target {
			return tick, nil
		}
		g.sleep(time.Duration(target-tick) * time.Millisecond)
	}
}

// Parts is an id split into its fields.
type Parts struct {
	Time     time.Time
	Node     uint64
	Sequence uint64
}

// Decompose splits an id produced by any Generator into its parts.
func Decompose(id uint64) Parts {
	ms := int64(id >> timeShift)
	return Parts{
		Time:     Epoch.Add(time.Duration(ms) * time.Millisecond),
		Node:     (id >> nodeShift) & MaxNode,
		Sequence: id & maxSequence,
	}
}
