// Package memory implements the simulator's two-level memory hierarchy: a
// latency-modelled DRAM and a direct-mapped write-back cache that sits in
// front of it.
package memory

import "github.com/l-e-g/legsim/result"

// Interface is implemented by anything the pipeline can read and write a
// word from/to. DRAM implements it directly; Cache implements it by
// wrapping another Interface (typically a DRAM). The pipeline driver and
// the cache's own eviction path know only this interface, never the
// concrete type behind it.
type Interface interface {
	// Get retrieves the word at addr, reporting the number of cycles the
	// access cost.
	Get(addr uint32) result.Result[uint32]

	// Set stores v at addr, reporting the number of cycles the access
	// cost.
	Set(addr uint32, v uint32) result.Result[struct{}]
}
