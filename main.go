package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"famicore/emu"
	"famicore/hw"
	"famicore/ines"
)

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case romInfosMode:
		rom, err := ines.Open(cli.RomInfos.RomPath)
		checkf(err, "failed to open rom")
		rom.PrintInfos(os.Stdout)

	case versionMode:
		version := "(devel)"
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
			version = info.Main.Version
		}
		fmt.Println("famicore", version)

	case runMode:
		runRom(cli.Run)
	}
}

// runRom drives the console headless, pacing frames at 60Hz, until the CPU
// halts, the frame budget is exhausted or the process is interrupted.
func runRom(cfg Run) {
	rom, err := ines.Open(cfg.RomPath)
	checkf(err, "failed to open rom")

	console, err := emu.New(rom)
	checkf(err, "failed to power up")

	usercfg := emu.LoadConfigOrDefault()
	console.Mixer.SetSampleRate(usercfg.Audio.SampleRate)

	if cfg.Trace != nil {
		usercfg.TraceOut = cfg.Trace
		defer usercfg.TraceOut.Close()
		console.SetTrace(usercfg.TraceOut)
	}

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for frame := 0; cfg.Frames == 0 || frame < cfg.Frames; frame++ {
		if err := console.RunFrame(); err != nil {
			var illErr *hw.IllegalOpcodeError
			if errors.As(err, &illErr) {
				fatalf("CPU halted: %s", illErr)
			}
			checkf(err, "emulation error")
		}

		select {
		case <-sigint:
			return
		case <-ticker.C:
		}
	}
}
