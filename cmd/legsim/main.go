// Command legsim runs a program image through the pipeline simulator,
// either step-by-step in a terminal UI or headlessly to completion.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/l-e-g/legsim/cpu"
	"github.com/l-e-g/legsim/memory"
)

func main() {
	var (
		pipeline   = flag.Bool("pipeline", true, "run with the 5-stage pipeline enabled")
		cacheOn    = flag.Bool("cache", true, "run with the cache enabled")
		cacheLines = flag.Uint("cache-lines", 16, "number of direct-mapped cache lines (power of two)")
		dramDelay  = flag.Uint("dram-delay", 50, "DRAM access latency in cycles")
		cacheDelay = flag.Uint("cache-delay", 2, "cache access latency in cycles")
		textMode   = flag.Bool("text", false, "run headlessly, printing state after every step, instead of the interactive UI")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program-image>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("legsim: %v", err)
	}
	defer f.Close()

	dram := memory.NewDRAM(uint16(*dramDelay))
	if err := dram.LoadFromReader(f); err != nil {
		log.Fatalf("legsim: %v", err)
	}

	cache, err := memory.NewCache(uint16(*cacheDelay), uint32(*cacheLines), dram)
	if err != nil {
		log.Fatalf("legsim: %v", err)
	}

	driver := cpu.NewDriver(dram, cache)
	driver.PipelineEnabled = *pipeline
	driver.CacheEnabled = *cacheOn

	if *textMode {
		runHeadless(driver)
		return
	}

	if _, err := tea.NewProgram(newModel(driver)).Run(); err != nil {
		log.Fatalf("legsim: %v", err)
	}
}

// runHeadless steps the driver to completion, printing its full state
// after every cycle.
func runHeadless(d *cpu.Driver) {
	for {
		running, err := d.Step()
		fmt.Println(d)
		if err != nil {
			log.Fatalf("legsim: %v", err)
		}
		if !running {
			return
		}
	}
}
