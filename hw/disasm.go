package hw

import (
	"bytes"
	"fmt"
	"io"
)

type amode int

const (
	modeImp amode = iota
	modeAcc
	modeImm
	modeZp
	modeZpx
	modeZpy
	modeAbs
	modeAbx
	modeAby
	modeIzx
	modeIzy
	modeInd
	modeRel
)

// number of instruction bytes per addressing mode.
var amodeLen = [...]int{
	modeImp: 1, modeAcc: 1,
	modeImm: 2, modeZp: 2, modeZpx: 2, modeZpy: 2, modeIzx: 2, modeIzy: 2, modeRel: 2,
	modeAbs: 3, modeAbx: 3, modeAby: 3, modeInd: 3,
}

type opInfo struct {
	name string
	mode amode
}

var opsInfo = [256]opInfo{
	0x00: {"BRK", modeImp}, 0x01: {"ORA", modeIzx}, 0x02: {"JAM", modeImp}, 0x03: {"SLO", modeIzx},
	0x04: {"NOP", modeZp}, 0x05: {"ORA", modeZp}, 0x06: {"ASL", modeZp}, 0x07: {"SLO", modeZp},
	0x08: {"PHP", modeImp}, 0x09: {"ORA", modeImm}, 0x0A: {"ASL", modeAcc}, 0x0B: {"ANC", modeImm},
	0x0C: {"NOP", modeAbs}, 0x0D: {"ORA", modeAbs}, 0x0E: {"ASL", modeAbs}, 0x0F: {"SLO", modeAbs},
	0x10: {"BPL", modeRel}, 0x11: {"ORA", modeIzy}, 0x12: {"JAM", modeImp}, 0x13: {"SLO", modeIzy},
	0x14: {"NOP", modeZpx}, 0x15: {"ORA", modeZpx}, 0x16: {"ASL", modeZpx}, 0x17: {"SLO", modeZpx},
	0x18: {"CLC", modeImp}, 0x19: {"ORA", modeAby}, 0x1A: {"NOP", modeImp}, 0x1B: {"SLO", modeAby},
	0x1C: {"NOP", modeAbx}, 0x1D: {"ORA", modeAbx}, 0x1E: {"ASL", modeAbx}, 0x1F: {"SLO", modeAbx},
	0x20: {"JSR", modeAbs}, 0x21: {"AND", modeIzx}, 0x22: {"JAM", modeImp}, 0x23: {"RLA", modeIzx},
	0x24: {"BIT", modeZp}, 0x25: {"AND", modeZp}, 0x26: {"ROL", modeZp}, 0x27: {"RLA", modeZp},
	0x28: {"PLP", modeImp}, 0x29: {"AND", modeImm}, 0x2A: {"ROL", modeAcc}, 0x2B: {"ANC", modeImm},
	0x2C: {"BIT", modeAbs}, 0x2D: {"AND", modeAbs}, 0x2E: {"ROL", modeAbs}, 0x2F: {"RLA", modeAbs},
	0x30: {"BMI", modeRel}, 0x31: {"AND", modeIzy}, 0x32: {"JAM", modeImp}, 0x33: {"RLA", modeIzy},
	0x34: {"NOP", modeZpx}, 0x35: {"AND", modeZpx}, 0x36: {"ROL", modeZpx}, 0x37: {"RLA", modeZpx},
	0x38: {"SEC", modeImp}, 0x39: {"AND", modeAby}, 0x3A: {"NOP", modeImp}, 0x3B: {"RLA", modeAby},
	0x3C: {"NOP", modeAbx}, 0x3D: {"AND", modeAbx}, 0x3E: {"ROL", modeAbx}, 0x3F: {"RLA", modeAbx},
	0x40: {"RTI", modeImp}, 0x41: {"EOR", modeIzx}, 0x42: {"JAM", modeImp}, 0x43: {"SRE", modeIzx},
	0x44: {"NOP", modeZp}, 0x45: {"EOR", modeZp}, 0x46: {"LSR", modeZp}, 0x47: {"SRE", modeZp},
	0x48: {"PHA", modeImp}, 0x49: {"EOR", modeImm}, 0x4A: {"LSR", modeAcc}, 0x4B: {"ALR", modeImm},
	0x4C: {"JMP", modeAbs}, 0x4D: {"EOR", modeAbs}, 0x4E: {"LSR", modeAbs}, 0x4F: {"SRE", modeAbs},
	0x50: {"BVC", modeRel}, 0x51: {"EOR", modeIzy}, 0x52: {"JAM", modeImp}, 0x53: {"SRE", modeIzy},
	0x54: {"NOP", modeZpx}, 0x55: {"EOR", modeZpx}, 0x56: {"LSR", modeZpx}, 0x57: {"SRE", modeZpx},
	0x58: {"CLI", modeImp}, 0x59: {"EOR", modeAby}, 0x5A: {"NOP", modeImp}, 0x5B: {"SRE", modeAby},
	0x5C: {"NOP", modeAbx}, 0x5D: {"EOR", modeAbx}, 0x5E: {"LSR", modeAbx}, 0x5F: {"SRE", modeAbx},
	0x60: {"RTS", modeImp}, 0x61: {"ADC", modeIzx}, 0x62: {"JAM", modeImp}, 0x63: {"RRA", modeIzx},
	0x64: {"NOP", modeZp}, 0x65: {"ADC", modeZp}, 0x66: {"ROR", modeZp}, 0x67: {"RRA", modeZp},
	0x68: {"PLA", modeImp}, 0x69: {"ADC", modeImm}, 0x6A: {"ROR", modeAcc}, 0x6B: {"ARR", modeImm},
	0x6C: {"JMP", modeInd}, 0x6D: {"ADC", modeAbs}, 0x6E: {"ROR", modeAbs}, 0x6F: {"RRA", modeAbs},
	0x70: {"BVS", modeRel}, 0x71: {"ADC", modeIzy}, 0x72: {"JAM", modeImp}, 0x73: {"RRA", modeIzy},
	0x74: {"NOP", modeZpx}, 0x75: {"ADC", modeZpx}, 0x76: {"ROR", modeZpx}, 0x77: {"RRA", modeZpx},
	0x78: {"SEI", modeImp}, 0x79: {"ADC", modeAby}, 0x7A: {"NOP", modeImp}, 0x7B: {"RRA", modeAby},
	0x7C: {"NOP", modeAbx}, 0x7D: {"ADC", modeAbx}, 0x7E: {"ROR", modeAbx}, 0x7F: {"RRA", modeAbx},
	0x80: {"NOP", modeImm}, 0x81: {"STA", modeIzx}, 0x82: {"NOP", modeImm}, 0x83: {"SAX", modeIzx},
	0x84: {"STY", modeZp}, 0x85: {"STA", modeZp}, 0x86: {"STX", modeZp}, 0x87: {"SAX", modeZp},
	0x88: {"DEY", modeImp}, 0x89: {"NOP", modeImm}, 0x8A: {"TXA", modeImp}, 0x8B: {"XAA", modeImm},
	0x8C: {"STY", modeAbs}, 0x8D: {"STA", modeAbs}, 0x8E: {"STX", modeAbs}, 0x8F: {"SAX", modeAbs},
	0x90: {"BCC", modeRel}, 0x91: {"STA", modeIzy}, 0x92: {"JAM", modeImp}, 0x93: {"AHX", modeIzy},
	0x94: {"STY", modeZpx}, 0x95: {"STA", modeZpx}, 0x96: {"STX", modeZpy}, 0x97: {"SAX", modeZpy},
	0x98: {"TYA", modeImp}, 0x99: {"STA", modeAby}, 0x9A: {"TXS", modeImp}, 0x9B: {"TAS", modeAby},
	0x9C: {"SHY", modeAbx}, 0x9D: {"STA", modeAbx}, 0x9E: {"SHX", modeAby}, 0x9F: {"AHX", modeAby},
	0xA0: {"LDY", modeImm}, 0xA1: {"LDA", modeIzx}, 0xA2: {"LDX", modeImm}, 0xA3: {"LAX", modeIzx},
	0xA4: {"LDY", modeZp}, 0xA5: {"LDA", modeZp}, 0xA6: {"LDX", modeZp}, 0xA7: {"LAX", modeZp},
	0xA8: {"TAY", modeImp}, 0xA9: {"LDA", modeImm}, 0xAA: {"TAX", modeImp}, 0xAB: {"LAX", modeImm},
	0xAC: {"LDY", modeAbs}, 0xAD: {"LDA", modeAbs}, 0xAE: {"LDX", modeAbs}, 0xAF: {"LAX", modeAbs},
	0xB0: {"BCS", modeRel}, 0xB1: {"LDA", modeIzy}, 0xB2: {"JAM", modeImp}, 0xB3: {"LAX", modeIzy},
	0xB4: {"LDY", modeZpx}, 0xB5: {"LDA", modeZpx}, 0xB6: {"LDX", modeZpy}, 0xB7: {"LAX", modeZpy},
	0xB8: {"CLV", modeImp}, 0xB9: {"LDA", modeAby}, 0xBA: {"TSX", modeImp}, 0xBB: {"LAS", modeAby},
	0xBC: {"LDY", modeAbx}, 0xBD: {"LDA", modeAbx}, 0xBE: {"LDX", modeAby}, 0xBF: {"LAX", modeAby},
	0xC0: {"CPY", modeImm}, 0xC1: {"CMP", modeIzx}, 0xC2: {"NOP", modeImm}, 0xC3: {"DCP", modeIzx},
	0xC4: {"CPY", modeZp}, 0xC5: {"CMP", modeZp}, 0xC6: {"DEC", modeZp}, 0xC7: {"DCP", modeZp},
	0xC8: {"INY", modeImp}, 0xC9: {"CMP", modeImm}, 0xCA: {"DEX", modeImp}, 0xCB: {"SBX", modeImm},
	0xCC: {"CPY", modeAbs}, 0xCD: {"CMP", modeAbs}, 0xCE: {"DEC", modeAbs}, 0xCF: {"DCP", modeAbs},
	0xD0: {"BNE", modeRel}, 0xD1: {"CMP", modeIzy}, 0xD2: {"JAM", modeImp}, 0xD3: {"DCP", modeIzy},
	0xD4: {"NOP", modeZpx}, 0xD5: {"CMP", modeZpx}, 0xD6: {"DEC", modeZpx}, 0xD7: {"DCP", modeZpx},
	0xD8: {"CLD", modeImp}, 0xD9: {"CMP", modeAby}, 0xDA: {"NOP", modeImp}, 0xDB: {"DCP", modeAby},
	0xDC: {"NOP", modeAbx}, 0xDD: {"CMP", modeAbx}, 0xDE: {"DEC", modeAbx}, 0xDF: {"DCP", modeAbx},
	0xE0: {"CPX", modeImm}, 0xE1: {"SBC", modeIzx}, 0xE2: {"NOP", modeImm}, 0xE3: {"ISB", modeIzx},
	0xE4: {"CPX", modeZp}, 0xE5: {"SBC", modeZp}, 0xE6: {"INC", modeZp}, 0xE7: {"ISB", modeZp},
	0xE8: {"INX", modeImp}, 0xE9: {"SBC", modeImm}, 0xEA: {"NOP", modeImp}, 0xEB: {"SBC", modeImm},
	0xEC: {"CPX", modeAbs}, 0xED: {"SBC", modeAbs}, 0xEE: {"INC", modeAbs}, 0xEF: {"ISB", modeAbs},
	0xF0: {"BEQ", modeRel}, 0xF1: {"SBC", modeIzy}, 0xF2: {"JAM", modeImp}, 0xF3: {"ISB", modeIzy},
	0xF4: {"NOP", modeZpx}, 0xF5: {"SBC", modeZpx}, 0xF6: {"INC", modeZpx}, 0xF7: {"ISB", modeZpx},
	0xF8: {"SED", modeImp}, 0xF9: {"SBC", modeAby}, 0xFA: {"NOP", modeImp}, 0xFB: {"ISB", modeAby},
	0xFC: {"NOP", modeAbx}, 0xFD: {"SBC", modeAbx}, 0xFE: {"INC", modeAbx}, 0xFF: {"ISB", modeAbx},
}

type disasm struct {
	cpu *CPU
	bb  bytes.Buffer

	// use nestest 'golden log' format for automatic diff.
	isNestest bool

	// reports the current video beam position, when hooked up.
	PPUCoords func() (scanline, dot int)

	w io.Writer
}

// op writes one trace line for the instruction at PC. All memory accesses
// go through Peek8 so tracing never disturbs execution.
func (d *disasm) op() {
	d.bb.Reset()

	cpu := d.cpu
	opcode := cpu.Peek8(cpu.PC)
	info := opsInfo[opcode]

	fmt.Fprintf(&d.bb, "%04X  ", cpu.PC)

	var raw []byte
	for i := uint16(0); i < uint16(amodeLen[info.mode]); i++ {
		raw = append(raw, fmt.Sprintf("%02X ", cpu.Peek8(cpu.PC+i))...)
	}
	fmt.Fprintf(&d.bb, "%-9s %-32s", raw, d.operand(info))

	var sl, dot int
	if d.PPUCoords != nil {
		sl, dot = d.PPUCoords()
	}
	if d.isNestest {
		fmt.Fprintf(&d.bb, "A:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d",
			cpu.A, cpu.X, cpu.Y, byte(cpu.P), cpu.SP, sl, dot, cpu.Clock)
	} else {
		fmt.Fprintf(&d.bb, "A:%02X X:%02X Y:%02X P:%s SP:%02X PPU:%3d,%3d CYC:%d",
			cpu.A, cpu.X, cpu.Y, cpu.P, cpu.SP, sl, dot, cpu.Clock)
	}
	d.bb.WriteByte('\n')

	d.w.Write(d.bb.Bytes())
}

func (d *disasm) operand(info opInfo) string {
	cpu := d.cpu
	op8 := cpu.Peek8(cpu.PC + 1)
	op16 := uint16(cpu.Peek8(cpu.PC+2))<<8 | uint16(op8)

	switch info.mode {
	case modeImp:
		return info.name
	case modeAcc:
		return info.name + " A"
	case modeImm:
		return fmt.Sprintf("%s #$%02X", info.name, op8)
	case modeZp:
		return fmt.Sprintf("%s $%02X = %02X", info.name, op8, cpu.Peek8(uint16(op8)))
	case modeZpx:
		return fmt.Sprintf("%s $%02X,X", info.name, op8)
	case modeZpy:
		return fmt.Sprintf("%s $%02X,Y", info.name, op8)
	case modeAbs:
		return fmt.Sprintf("%s $%04X", info.name, op16)
	case modeAbx:
		return fmt.Sprintf("%s $%04X,X", info.name, op16)
	case modeAby:
		return fmt.Sprintf("%s $%04X,Y", info.name, op16)
	case modeIzx:
		return fmt.Sprintf("%s ($%02X,X)", info.name, op8)
	case modeIzy:
		return fmt.Sprintf("%s ($%02X),Y", info.name, op8)
	case modeInd:
		return fmt.Sprintf("%s ($%04X)", info.name, op16)
	case modeRel:
		return fmt.Sprintf("%s $%04X", info.name, uint16(int16(cpu.PC+2)+int16(int8(op8))))
	}
	return info.name
}
