package memory

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/l-e-g/legsim/result"
)

// DRAM simulates the backing memory: a sparse word store with a fixed
// access latency for both reads and writes. Unset addresses read as zero
// and are materialized on first read, so reading the same address twice
// always returns the same bits.
type DRAM struct {
	delay uint16
	data  map[uint32]uint32
}

// NewDRAM creates an empty DRAM with the given per-access latency.
func NewDRAM(delay uint16) *DRAM {
	return &DRAM{
		delay: delay,
		data:  make(map[uint32]uint32),
	}
}

// Get retrieves the word at addr. A never-written address reads as zero
// and is recorded, so a subsequent Get of the same address is identical.
func (d *DRAM) Get(addr uint32) result.Result[uint32] {
	if v, ok := d.data[addr]; ok {
		return result.Wait(d.delay, v)
	}
	d.data[addr] = 0
	return result.Wait(d.delay, uint32(0))
}

// Set unconditionally writes v to addr.
func (d *DRAM) Set(addr uint32, v uint32) result.Result[struct{}] {
	d.data[addr] = v
	return result.Wait(d.delay, struct{}{})
}

// LoadFromReader populates DRAM from a raw byte stream: every four bytes
// are assembled into a big-endian word and placed at successive addresses
// starting at 0. The stream's length must be a multiple of four; a short
// trailing read is an error.
func (d *DRAM) LoadFromReader(r io.Reader) error {
	var buf [4]byte
	addr := uint32(0)

	for {
		n, err := io.ReadFull(r, buf[:])
		switch {
		case err == io.EOF:
			return nil
		case err == io.ErrUnexpectedEOF:
			return fmt.Errorf("program image: truncated word at address %d (got %d of 4 bytes)", addr, n)
		case err != nil:
			return fmt.Errorf("program image: %w", err)
		}

		d.data[addr] = binary.BigEndian.Uint32(buf[:])
		addr++
	}
}

// Inspect returns a snapshot of every materialized address and its value,
// for use by UI collaborators. The returned map is a copy; mutating it has
// no effect on the DRAM.
func (d *DRAM) Inspect() map[uint32]uint32 {
	out := make(map[uint32]uint32, len(d.data))
	for k, v := range d.data {
		out[k] = v
	}
	return out
}
