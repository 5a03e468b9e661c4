package memory

import (
	"fmt"
	"math/bits"

	"github.com/l-e-g/legsim/result"
)

// A cacheLine is one slot of a direct-mapped cache: the tag that
// identifies which address currently occupies the slot, its data, and
// whether it holds a valid, possibly-dirty copy of that address.
type cacheLine struct {
	tag   uint32
	data  uint32
	valid bool
	dirty bool
}

// Cache is a direct-mapped, write-back, write-allocate cache sitting in
// front of a base Interface (typically a DRAM). An address splits into a
// low-order index selecting the line and a high-order tag identifying
// which address currently owns that line.
type Cache struct {
	delay    uint16
	numLines uint32
	lines    []cacheLine
	base     Interface
}

// NewCache creates an empty (all-invalid) cache with numLines lines, each
// access costing delay cycles on top of whatever the base memory costs.
// numLines must be a power of two.
func NewCache(delay uint16, numLines uint32, base Interface) (*Cache, error) {
	if numLines == 0 || bits.OnesCount32(numLines) != 1 {
		return nil, fmt.Errorf("cache: num_lines must be a power of two, got %d", numLines)
	}
	return &Cache{
		delay:    delay,
		numLines: numLines,
		lines:    make([]cacheLine, numLines),
		base:     base,
	}, nil
}

func (c *Cache) index(addr uint32) uint32 { return addr % c.numLines }
func (c *Cache) tag(addr uint32) uint32   { return addr / c.numLines }

// reconstruct recovers the full address a resident line was loaded from.
func (c *Cache) reconstruct(idx, tag uint32) uint32 {
	return tag*c.numLines + idx
}

// Get reads the word at addr, reporting the number of cycles the whole
// operation (hit or miss, including any eviction) took.
func (c *Cache) Get(addr uint32) result.Result[uint32] {
	idx := c.index(addr)
	tag := c.tag(addr)
	line := c.lines[idx]

	if line.valid && line.tag == tag {
		return result.Wait(c.delay, line.data)
	}

	wait := c.delay

	if line.valid && line.dirty && line.tag != tag {
		oldAddr := c.reconstruct(idx, line.tag)
		evict := c.base.Set(oldAddr, line.data)
		if evict.IsErr() {
			return result.Err[uint32](fmt.Errorf("failed to write out old line value when evicting: %w", evict.Error()))
		}
		wait += evict.Cycles()
	}

	fetched := c.base.Get(addr)
	if fetched.IsErr() {
		return result.Err[uint32](fmt.Errorf("failed to get line value from base memory: %w", fetched.Error()))
	}
	wait += fetched.Cycles()
	data := fetched.Value()

	c.lines[idx] = cacheLine{tag: tag, data: data, valid: true, dirty: false}
	return result.Wait(wait, data)
}

// Set writes v to addr, allocating and dirtying the line. No backing read
// is performed on a write miss: the store replaces the line's single word
// outright.
func (c *Cache) Set(addr uint32, v uint32) result.Result[struct{}] {
	idx := c.index(addr)
	tag := c.tag(addr)
	line := c.lines[idx]

	if line.valid && line.tag == tag {
		c.lines[idx].dirty = true
		c.lines[idx].data = v
		return result.Wait(c.delay, struct{}{})
	}

	wait := c.delay

	if line.valid && line.dirty && line.tag != tag {
		oldAddr := c.reconstruct(idx, line.tag)
		evict := c.base.Set(oldAddr, line.data)
		if evict.IsErr() {
			return result.Err[struct{}](fmt.Errorf("failed to write out old line value when evicting: %w", evict.Error()))
		}
		wait += evict.Cycles()
	}

	c.lines[idx] = cacheLine{tag: tag, data: v, valid: true, dirty: true}
	return result.Wait(wait, struct{}{})
}

// Inspect returns the tag/data/valid/dirty state of every resident line,
// for use by UI collaborators.
type LineState struct {
	Index uint32
	Tag   uint32
	Data  uint32
	Valid bool
	Dirty bool
}

// Inspect returns one LineState per valid line currently resident in the
// cache.
func (c *Cache) Inspect() []LineState {
	var out []LineState
	for i, l := range c.lines {
		if !l.valid {
			continue
		}
		out = append(out, LineState{Index: uint32(i), Tag: l.tag, Data: l.data, Valid: l.valid, Dirty: l.dirty})
	}
	return out
}
