package hw

import (
	"strconv"
	"strings"
	"testing"

	"famicore/hw/hwio"
)

// testBus is a flat 64KB RAM, handy to run CPU code without a full machine.
type testBus struct {
	*hwio.Table
	ram []byte
}

func newTestBus() *testBus {
	bus := &testBus{
		Table: hwio.NewTable("test"),
		ram:   make([]byte, 0x10000),
	}
	bus.MapMem(0, &hwio.Mem{Name: "ram", Data: bus.ram, VSize: 0x10000})
	return bus
}

// loadCPUWith builds a CPU over a flat RAM initialized from a memory dump.
// The dump is a sequence of lines in "ADDR: XX XX XX ..." form; blank lines
// and lines starting with # are skipped.
func loadCPUWith(tb testing.TB, dump string) *CPU {
	tb.Helper()

	bus := newTestBus()
	for _, line := range strings.Split(dump, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addrstr, rest, ok := strings.Cut(line, ":")
		if !ok {
			tb.Fatalf("malformed dump line: %q", line)
		}
		addr, err := strconv.ParseUint(strings.TrimSpace(addrstr), 16, 16)
		if err != nil {
			tb.Fatalf("malformed dump address: %q", line)
		}
		for i, bstr := range strings.Fields(rest) {
			b, err := strconv.ParseUint(bstr, 16, 8)
			if err != nil {
				tb.Fatalf("malformed dump byte: %q", line)
			}
			bus.ram[int(addr)+i] = uint8(b)
		}
	}
	return NewCPU(bus)
}

func wantMem8(tb testing.TB, cpu *CPU, addr uint16, want uint8) {
	tb.Helper()
	if got := cpu.Peek8(addr); got != want {
		tb.Errorf("mem[$%04X] = %02X, want %02X", addr, got, want)
	}
}

// wantCPUState compares parts of the CPU state against expected values,
// given as ("name", value) pairs. Valid names are the registers (A, X, Y,
// SP, PC, P), individual flags (Pn, Pv, Pb, Pd, Pi, Pz, Pc) and "mem",
// whose value is a memory dump in loadCPUWith format.
func wantCPUState(tb testing.TB, cpu *CPU, checks ...any) {
	tb.Helper()

	if len(checks)%2 != 0 {
		tb.Fatal("wantCPUState: odd number of arguments")
	}

	flagbit := map[string]int{
		"Pn": pbitN, "Pv": pbitV, "Pb": pbitB, "Pd": pbitD,
		"Pi": pbitI, "Pz": pbitZ, "Pc": pbitC,
	}

	for i := 0; i < len(checks); i += 2 {
		name := checks[i].(string)

		if name == "mem" {
			wantMemDump(tb, cpu, checks[i+1].(string))
			continue
		}

		want := toInt(tb, checks[i+1])
		var got int
		switch name {
		case "A":
			got = int(cpu.A)
		case "X":
			got = int(cpu.X)
		case "Y":
			got = int(cpu.Y)
		case "SP":
			got = int(cpu.SP)
		case "PC":
			got = int(cpu.PC)
		case "P":
			got = int(cpu.P)
		default:
			bit, ok := flagbit[name]
			if !ok {
				tb.Fatalf("wantCPUState: unknown field %q", name)
			}
			got = int(cpu.P.ibit(bit))
		}

		if got != want {
			if name == "P" {
				tb.Errorf("P = %s (%02X), want %s (%02X)", cpu.P, got, P(want), want)
			} else {
				tb.Errorf("%s = %02X, want %02X", name, got, want)
			}
		}
	}
}

func wantMemDump(tb testing.TB, cpu *CPU, dump string) {
	tb.Helper()

	for _, line := range strings.Split(dump, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addrstr, rest, _ := strings.Cut(line, ":")
		addr, err := strconv.ParseUint(strings.TrimSpace(addrstr), 16, 16)
		if err != nil {
			tb.Fatalf("malformed dump address: %q", line)
		}
		for i, bstr := range strings.Fields(rest) {
			want, err := strconv.ParseUint(bstr, 16, 8)
			if err != nil {
				tb.Fatalf("malformed dump byte: %q", line)
			}
			a := uint16(int(addr) + i)
			if got := cpu.Peek8(a); got != uint8(want) {
				tb.Errorf("mem[$%04X] = %02X, want %02X", a, got, want)
			}
		}
	}
}

func toInt(tb testing.TB, v any) int {
	tb.Helper()
	switch v := v.(type) {
	case int:
		return v
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case P:
		return int(v)
	}
	tb.Fatalf("wantCPUState: unsupported value type %T", v)
	return 0
}

// step runs exactly one instruction and fails the test on error.
func step(tb testing.TB, cpu *CPU) int {
	tb.Helper()
	n, err := cpu.Step()
	if err != nil {
		tb.Fatal(err)
	}
	return n
}

// mustRun runs instructions until the clock reaches until.
func mustRun(tb testing.TB, cpu *CPU, until int64) {
	tb.Helper()
	if err := cpu.RunUntil(until); err != nil {
		tb.Fatal(err)
	}
}
