// Package mappers implements the cartridge boards, routing PRG and CHR
// accesses through their banking logic.
package mappers

import (
	"errors"
	"fmt"

	"famicore/emu/log"
	"famicore/hw"
	"famicore/hw/hwio"
	"famicore/ines"
)

var modMapper = log.NewModule("mapper")

// ConfigError reports a cartridge configuration no board can serve. It is
// returned at load time, before any console is assembled.
type ConfigError struct {
	Mapper uint16
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mapper %d: %v", e.Mapper, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

type MapperDesc struct {
	Name            string
	Load            func(*base) error
	HasBusConflicts func(*base) bool
}

var All = map[uint16]MapperDesc{
	0:  NROM,
	1:  MMC1,
	2:  UxROM,
	3:  CNROM,
	7:  AxROM,
	66: GxROM,
}

// Load wires the board matching the rom's mapper number onto the CPU and
// PPU buses. It fails before anything is mapped if the mapper is not
// supported.
func Load(rom *ines.Rom, cpu *hw.CPU, cpuBus *hwio.Table, ppu *hw.PPU) error {
	desc, ok := All[rom.Mapper()]
	if !ok {
		return &ConfigError{Mapper: rom.Mapper(), Err: errors.New("unsupported mapper")}
	}
	base, err := newbase(desc, rom, cpu, cpuBus, ppu)
	if err != nil {
		return &ConfigError{Mapper: rom.Mapper(), Err: err}
	}
	if err := base.load(); err != nil {
		return &ConfigError{Mapper: rom.Mapper(), Err: fmt.Errorf("%s: %w", desc.Name, err)}
	}
	return nil
}
