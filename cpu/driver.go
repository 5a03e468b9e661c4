package cpu

import (
	"fmt"
	"strings"

	"github.com/l-e-g/legsim/memory"
)

// Driver runs instructions against a register file and memory system,
// either one at a time or five-wide through a pipeline.
type Driver struct {
	PipelineEnabled bool
	CacheEnabled    bool

	cycleCount uint64
	Registers  *Registers

	dram  *memory.DRAM
	cache *memory.Cache

	firstInstructionLoaded bool
	haltEncountered        bool

	// Populated only when PipelineEnabled is false.
	noPipelineInstruction Instruction

	// One slot per pipeline stage, populated only when PipelineEnabled is
	// true. Each cycle they are read and written in this order -
	// write-back, access-memory, execute, decode, fetch - so that an
	// instruction moving from one stage to the next within the same
	// cycle never clobbers a slot before it's been read.
	fetchBits            uint32
	fetchInstruction     Instruction
	decodeInstruction    Instruction
	executeInstruction   Instruction
	accessMemInstruction Instruction
	writeBackInstruction Instruction
}

// NewDriver creates a Driver with the pipeline and cache both enabled,
// the default the original simulator started in.
func NewDriver(dram *memory.DRAM, cache *memory.Cache) *Driver {
	return &Driver{
		PipelineEnabled: true,
		CacheEnabled:    true,
		Registers:       NewRegisters(),
		dram:            dram,
		cache:           cache,
	}
}

// CycleCount returns the number of cycles simulated so far.
func (d *Driver) CycleCount() uint64 { return d.cycleCount }

// HaltEncountered reports whether a Halt instruction has been decoded.
func (d *Driver) HaltEncountered() bool { return d.haltEncountered }

func (d *Driver) memory() memory.Interface {
	if d.CacheEnabled {
		return d.cache
	}
	return d.dram
}

// Step advances the processor by one cycle, returning whether the program
// should keep running. A stage error aborts the step and is returned
// prefixed with the cycle count at which it occurred.
func (d *Driver) Step() (bool, error) {
	d.firstInstructionLoaded = true
	mem := d.memory()

	var running bool
	var err error
	if d.PipelineEnabled {
		running, err = d.stepPipeline(mem)
	} else {
		running, err = d.stepNoPipeline(mem)
	}
	if err != nil {
		return false, fmt.Errorf("cycle %d: %w", d.cycleCount, err)
	}
	return running, nil
}

func (d *Driver) fetch(mem memory.Interface) (uint32, Instruction, error) {
	r := mem.Get(d.Registers.Get(PC))
	if r.IsErr() {
		return 0, nil, fmt.Errorf("failed to retrieve instruction from address %d: %w", d.Registers.Get(PC), r.Error())
	}
	bits := r.Value()
	d.cycleCount += uint64(r.Cycles())

	inst, err := Decode(bits)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to determine type of instruction for bits %d: %w", bits, err)
	}
	if _, isHalt := inst.(*Halt); isHalt {
		d.haltEncountered = true
	}
	return bits, inst, nil
}

// stepNoPipeline runs a single instruction serially through all five
// stages, the way the processor behaves with PipelineEnabled false.
func (d *Driver) stepNoPipeline(mem memory.Interface) (bool, error) {
	if d.haltEncountered {
		return false, nil
	}

	bits, inst, err := d.fetch(mem)
	if err != nil {
		return false, err
	}

	decodeR := inst.Decode(bits, d.Registers)
	if decodeR.IsErr() {
		return false, fmt.Errorf("failed to decode instruction: %w", decodeR.Error())
	}
	d.cycleCount += uint64(decodeR.Cycles())

	execR := inst.Execute()
	if execR.IsErr() {
		return false, fmt.Errorf("failed to execute instruction: %w", execR.Error())
	}
	d.cycleCount += uint64(execR.Cycles())

	accessR := inst.AccessMemory(mem)
	if accessR.IsErr() {
		return false, fmt.Errorf("failed to access memory for instruction: %w", accessR.Error())
	}
	d.cycleCount += uint64(accessR.Cycles())

	wbR := inst.WriteBack(d.Registers)
	if wbR.IsErr() {
		return false, fmt.Errorf("failed to write back for instruction: %w", wbR.Error())
	}
	d.cycleCount += uint64(wbR.Cycles())

	d.noPipelineInstruction = inst
	if !wbR.Value().SuppressPCIncrement {
		d.Registers.Set(PC, d.Registers.Get(PC)+1)
	}
	d.cycleCount += 5

	return d.Running(), nil
}

// stepPipeline advances all five pipeline slots by one cycle, processing
// them in reverse stage order so that an instruction advancing out of a
// slot this cycle never overwrites a slot that hasn't been read yet.
func (d *Driver) stepPipeline(mem memory.Interface) (bool, error) {
	suppressPCIncrement := false

	// Write-back stage: consumes access-memory slot.
	if d.accessMemInstruction == nil {
		d.writeBackInstruction = nil
	} else {
		r := d.accessMemInstruction.WriteBack(d.Registers)
		if r.IsErr() {
			return false, fmt.Errorf("failed to write back for instruction: %w", r.Error())
		}
		d.cycleCount += uint64(r.Cycles())
		suppressPCIncrement = r.Value().SuppressPCIncrement

		d.writeBackInstruction = d.accessMemInstruction
	}

	// Access-memory stage: consumes execute slot.
	if d.executeInstruction == nil {
		d.accessMemInstruction = nil
	} else {
		r := d.executeInstruction.AccessMemory(mem)
		if r.IsErr() {
			return false, fmt.Errorf("failed to access memory for instruction: %w", r.Error())
		}
		d.cycleCount += uint64(r.Cycles())

		d.accessMemInstruction = d.executeInstruction
	}

	// Execute stage: consumes decode slot.
	if d.decodeInstruction == nil {
		d.executeInstruction = nil
	} else {
		r := d.decodeInstruction.Execute()
		if r.IsErr() {
			return false, fmt.Errorf("failed to execute instruction: %w", r.Error())
		}
		d.cycleCount += uint64(r.Cycles())

		d.executeInstruction = d.decodeInstruction
	}

	// Decode stage: consumes fetch slot.
	if d.fetchInstruction == nil {
		d.decodeInstruction = nil
	} else {
		r := d.fetchInstruction.Decode(d.fetchBits, d.Registers)
		if r.IsErr() {
			return false, fmt.Errorf("failed to decode instruction %s: %w", d.fetchInstruction, r.Error())
		}
		d.cycleCount += uint64(r.Cycles())

		d.decodeInstruction = d.fetchInstruction
	}

	// Fetch stage.
	if !d.haltEncountered {
		bits, inst, err := d.fetch(mem)
		if err != nil {
			return false, err
		}
		d.fetchBits = bits
		d.fetchInstruction = inst
	} else {
		d.fetchInstruction = nil
	}

	if !suppressPCIncrement {
		d.Registers.Set(PC, d.Registers.Get(PC)+1)
	}
	d.cycleCount++

	return d.Running(), nil
}

// Running reports whether the processor has more work to do: either the
// first instruction hasn't been loaded yet, or some stage still holds an
// in-flight instruction. The write-back slot is deliberately excluded, as
// it holds the instruction that just retired, not one still in flight.
func (d *Driver) Running() bool {
	if d.PipelineEnabled {
		return !d.firstInstructionLoaded ||
			d.decodeInstruction != nil ||
			d.fetchInstruction != nil ||
			d.executeInstruction != nil ||
			d.accessMemInstruction != nil
	}
	return !d.firstInstructionLoaded || d.noPipelineInstruction != nil
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}

func instName(i Instruction) string {
	if i == nil {
		return "None"
	}
	return i.String()
}

// String renders the driver's full visible state: mode flags, cycle
// count, register file, and whichever instruction slots are in use.
func (d *Driver) String() string {
	var instructions string
	if d.PipelineEnabled {
		instructions = fmt.Sprintf(`Instructions:
    Fetch        : %s
    Decode       : %s
    Execute      : %s
    Access Memory: %s
    Write Back   : %s`,
			instName(d.fetchInstruction), instName(d.decodeInstruction),
			instName(d.executeInstruction), instName(d.accessMemInstruction),
			instName(d.writeBackInstruction))
	} else {
		instructions = fmt.Sprintf("Instruction : %s", instName(d.noPipelineInstruction))
	}

	return fmt.Sprintf(`Pipeline   : %t
Cache      : %t
Halted     : %t
Cycle Count: %d
Registers  :
%s
%s`,
		d.PipelineEnabled, d.CacheEnabled, d.haltEncountered,
		d.cycleCount, indent(d.Registers.String()), instructions)
}
