package hw

// ops maps each opcode to its implementation. Dispatch happens with PC
// still pointing at the opcode byte; each implementation advances PC itself.
var ops = [256]func(cpu *CPU){
	0x00: BRK,
	0x01: ORAizx,
	0x02: JAM,
	0x03: SLOizx,
	0x04: NOPzp,
	0x05: ORAzp,
	0x06: ASLzp,
	0x07: SLOzp,
	0x08: PHP,
	0x09: ORAimm,
	0x0A: ASLacc,
	0x0B: ANC,
	0x0C: NOPabs,
	0x0D: ORAabs,
	0x0E: ASLabs,
	0x0F: SLOabs,
	0x10: BPL,
	0x11: ORAizy,
	0x12: JAM,
	0x13: SLOizy,
	0x14: NOPzpx,
	0x15: ORAzpx,
	0x16: ASLzpx,
	0x17: SLOzpx,
	0x18: CLC,
	0x19: ORAaby,
	0x1A: NOPimp,
	0x1B: SLOaby,
	0x1C: NOPabx,
	0x1D: ORAabx,
	0x1E: ASLabx,
	0x1F: SLOabx,
	0x20: JSR,
	0x21: ANDizx,
	0x22: JAM,
	0x23: RLAizx,
	0x24: BITzp,
	0x25: ANDzp,
	0x26: ROLzp,
	0x27: RLAzp,
	0x28: PLP,
	0x29: ANDimm,
	0x2A: ROLacc,
	0x2B: ANC,
	0x2C: BITabs,
	0x2D: ANDabs,
	0x2E: ROLabs,
	0x2F: RLAabs,
	0x30: BMI,
	0x31: ANDizy,
	0x32: JAM,
	0x33: RLAizy,
	0x34: NOPzpx,
	0x35: ANDzpx,
	0x36: ROLzpx,
	0x37: RLAzpx,
	0x38: SEC,
	0x39: ANDaby,
	0x3A: NOPimp,
	0x3B: RLAaby,
	0x3C: NOPabx,
	0x3D: ANDabx,
	0x3E: ROLabx,
	0x3F: RLAabx,
	0x40: RTI,
	0x41: EORizx,
	0x42: JAM,
	0x43: SREizx,
	0x44: NOPzp,
	0x45: EORzp,
	0x46: LSRzp,
	0x47: SREzp,
	0x48: PHA,
	0x49: EORimm,
	0x4A: LSRacc,
	0x4B: ALR,
	0x4C: JMPabs,
	0x4D: EORabs,
	0x4E: LSRabs,
	0x4F: SREabs,
	0x50: BVC,
	0x51: EORizy,
	0x52: JAM,
	0x53: SREizy,
	0x54: NOPzpx,
	0x55: EORzpx,
	0x56: LSRzpx,
	0x57: SREzpx,
	0x58: CLI,
	0x59: EORaby,
	0x5A: NOPimp,
	0x5B: SREaby,
	0x5C: NOPabx,
	0x5D: EORabx,
	0x5E: LSRabx,
	0x5F: SREabx,
	0x60: RTS,
	0x61: ADCizx,
	0x62: JAM,
	0x63: RRAizx,
	0x64: NOPzp,
	0x65: ADCzp,
	0x66: RORzp,
	0x67: RRAzp,
	0x68: PLA,
	0x69: ADCimm,
	0x6A: RORacc,
	0x6B: ARR,
	0x6C: JMPind,
	0x6D: ADCabs,
	0x6E: RORabs,
	0x6F: RRAabs,
	0x70: BVS,
	0x71: ADCizy,
	0x72: JAM,
	0x73: RRAizy,
	0x74: NOPzpx,
	0x75: ADCzpx,
	0x76: RORzpx,
	0x77: RRAzpx,
	0x78: SEI,
	0x79: ADCaby,
	0x7A: NOPimp,
	0x7B: RRAaby,
	0x7C: NOPabx,
	0x7D: ADCabx,
	0x7E: RORabx,
	0x7F: RRAabx,
	0x80: NOPimm,
	0x81: STAizx,
	0x82: NOPimm,
	0x83: SAXizx,
	0x84: STYzp,
	0x85: STAzp,
	0x86: STXzp,
	0x87: SAXzp,
	0x88: DEY,
	0x89: NOPimm,
	0x8A: TXA,
	0x8B: unstable,
	0x8C: STYabs,
	0x8D: STAabs,
	0x8E: STXabs,
	0x8F: SAXabs,
	0x90: BCC,
	0x91: STAizy,
	0x92: JAM,
	0x93: unstable,
	0x94: STYzpx,
	0x95: STAzpx,
	0x96: STXzpy,
	0x97: SAXzpy,
	0x98: TYA,
	0x99: STAaby,
	0x9A: TXS,
	0x9B: unstable,
	0x9C: SHY,
	0x9D: STAabx,
	0x9E: SHX,
	0x9F: unstable,
	0xA0: LDYimm,
	0xA1: LDAizx,
	0xA2: LDXimm,
	0xA3: LAXizx,
	0xA4: LDYzp,
	0xA5: LDAzp,
	0xA6: LDXzp,
	0xA7: LAXzp,
	0xA8: TAY,
	0xA9: LDAimm,
	0xAA: TAX,
	0xAB: unstable,
	0xAC: LDYabs,
	0xAD: LDAabs,
	0xAE: LDXabs,
	0xAF: LAXabs,
	0xB0: BCS,
	0xB1: LDAizy,
	0xB2: JAM,
	0xB3: LAXizy,
	0xB4: LDYzpx,
	0xB5: LDAzpx,
	0xB6: LDXzpy,
	0xB7: LAXzpy,
	0xB8: CLV,
	0xB9: LDAaby,
	0xBA: TSX,
	0xBB: LAS,
	0xBC: LDYabx,
	0xBD: LDAabx,
	0xBE: LDXaby,
	0xBF: LAXaby,
	0xC0: CPYimm,
	0xC1: CMPizx,
	0xC2: NOPimm,
	0xC3: DCPizx,
	0xC4: CPYzp,
	0xC5: CMPzp,
	0xC6: DECzp,
	0xC7: DCPzp,
	0xC8: INY,
	0xC9: CMPimm,
	0xCA: DEX,
	0xCB: SBX,
	0xCC: CPYabs,
	0xCD: CMPabs,
	0xCE: DECabs,
	0xCF: DCPabs,
	0xD0: BNE,
	0xD1: CMPizy,
	0xD2: JAM,
	0xD3: DCPizy,
	0xD4: NOPzpx,
	0xD5: CMPzpx,
	0xD6: DECzpx,
	0xD7: DCPzpx,
	0xD8: CLD,
	0xD9: CMPaby,
	0xDA: NOPimp,
	0xDB: DCPaby,
	0xDC: NOPabx,
	0xDD: CMPabx,
	0xDE: DECabx,
	0xDF: DCPabx,
	0xE0: CPXimm,
	0xE1: SBCizx,
	0xE2: NOPimm,
	0xE3: ISBizx,
	0xE4: CPXzp,
	0xE5: SBCzp,
	0xE6: INCzp,
	0xE7: ISBzp,
	0xE8: INX,
	0xE9: SBCimm,
	0xEA: NOPimp,
	0xEB: SBCimm,
	0xEC: CPXabs,
	0xED: SBCabs,
	0xEE: INCabs,
	0xEF: ISBabs,
	0xF0: BEQ,
	0xF1: SBCizy,
	0xF2: JAM,
	0xF3: ISBizy,
	0xF4: NOPzpx,
	0xF5: SBCzpx,
	0xF6: INCzpx,
	0xF7: ISBzpx,
	0xF8: SED,
	0xF9: SBCaby,
	0xFA: NOPimp,
	0xFB: ISBaby,
	0xFC: NOPabx,
	0xFD: SBCabx,
	0xFE: INCabx,
	0xFF: ISBabx,
}

/* loads */

func LDAimm(cpu *CPU) { lda(cpu, cpu.imm()); cpu.PC += 2 } // A9
func LDXimm(cpu *CPU) { ldx(cpu, cpu.imm()); cpu.PC += 2 } // A2
func LDYimm(cpu *CPU) { ldy(cpu, cpu.imm()); cpu.PC += 2 } // A0

// A5
func LDAzp(cpu *CPU) {
	lda(cpu, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// A6
func LDXzp(cpu *CPU) {
	ldx(cpu, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// A4
func LDYzp(cpu *CPU) {
	ldy(cpu, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// B5
func LDAzpx(cpu *CPU) {
	lda(cpu, cpu.Read8(uint16(cpu.zpx())))
	cpu.PC += 2
}

// B6
func LDXzpy(cpu *CPU) {
	ldx(cpu, cpu.Read8(uint16(cpu.zpy())))
	cpu.PC += 2
}

// B4
func LDYzpx(cpu *CPU) {
	ldy(cpu, cpu.Read8(uint16(cpu.zpx())))
	cpu.PC += 2
}

// AD
func LDAabs(cpu *CPU) {
	lda(cpu, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// AE
func LDXabs(cpu *CPU) {
	ldx(cpu, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// AC
func LDYabs(cpu *CPU) {
	ldy(cpu, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// BD
func LDAabx(cpu *CPU) {
	addr, _ := cpu.abx()
	lda(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// B9
func LDAaby(cpu *CPU) {
	addr, _ := cpu.aby()
	lda(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// BE
func LDXaby(cpu *CPU) {
	addr, _ := cpu.aby()
	ldx(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// BC
func LDYabx(cpu *CPU) {
	addr, _ := cpu.abx()
	ldy(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// A1
func LDAizx(cpu *CPU) {
	lda(cpu, cpu.Read8(cpu.izx()))
	cpu.PC += 2
}

// B1
func LDAizy(cpu *CPU) {
	addr, crossed := cpu.izy()
	if crossed == 1 {
		cpu.tick()
	}
	lda(cpu, cpu.Read8(addr))
	cpu.PC += 2
}

/* stores */

// 85
func STAzp(cpu *CPU) {
	cpu.Write8(uint16(cpu.zp()), cpu.A)
	cpu.PC += 2
}

// 86
func STXzp(cpu *CPU) {
	cpu.Write8(uint16(cpu.zp()), cpu.X)
	cpu.PC += 2
}

// 84
func STYzp(cpu *CPU) {
	cpu.Write8(uint16(cpu.zp()), cpu.Y)
	cpu.PC += 2
}

// 95
func STAzpx(cpu *CPU) {
	cpu.Write8(uint16(cpu.zpx()), cpu.A)
	cpu.PC += 2
}

// 96
func STXzpy(cpu *CPU) {
	cpu.Write8(uint16(cpu.zpy()), cpu.X)
	cpu.PC += 2
}

// 94
func STYzpx(cpu *CPU) {
	cpu.Write8(uint16(cpu.zpx()), cpu.Y)
	cpu.PC += 2
}

// 8D
func STAabs(cpu *CPU) {
	cpu.Write8(cpu.abs(), cpu.A)
	cpu.PC += 3
}

// 8E
func STXabs(cpu *CPU) {
	cpu.Write8(cpu.abs(), cpu.X)
	cpu.PC += 3
}

// 8C
func STYabs(cpu *CPU) {
	cpu.Write8(cpu.abs(), cpu.Y)
	cpu.PC += 3
}

// 9D
func STAabx(cpu *CPU) {
	addr, crossed := cpu.abx()
	if crossed == 0 {
		cpu.tick()
	}
	cpu.Write8(addr, cpu.A)
	cpu.PC += 3
}

// 99
func STAaby(cpu *CPU) {
	addr, crossed := cpu.aby()
	if crossed == 0 {
		cpu.tick()
	}
	cpu.Write8(addr, cpu.A)
	cpu.PC += 3
}

// 81
func STAizx(cpu *CPU) {
	cpu.Write8(cpu.izx(), cpu.A)
	cpu.PC += 2
}

// 91
func STAizy(cpu *CPU) {
	cpu.tick()
	addr, _ := cpu.izy()
	cpu.Write8(addr, cpu.A)
	cpu.PC += 2
}

/* register transfers */

// AA
func TAX(cpu *CPU) {
	cpu.X = cpu.A
	cpu.P.checkNZ(cpu.X)
	cpu.tick()
	cpu.PC += 1
}

// A8
func TAY(cpu *CPU) {
	cpu.Y = cpu.A
	cpu.P.checkNZ(cpu.Y)
	cpu.tick()
	cpu.PC += 1
}

// 8A
func TXA(cpu *CPU) {
	cpu.A = cpu.X
	cpu.P.checkNZ(cpu.A)
	cpu.tick()
	cpu.PC += 1
}

// 98
func TYA(cpu *CPU) {
	cpu.A = cpu.Y
	cpu.P.checkNZ(cpu.A)
	cpu.tick()
	cpu.PC += 1
}

// BA
func TSX(cpu *CPU) {
	cpu.X = cpu.SP
	cpu.P.checkNZ(cpu.X)
	cpu.tick()
	cpu.PC += 1
}

// 9A
func TXS(cpu *CPU) {
	cpu.SP = cpu.X
	cpu.tick()
	cpu.PC += 1
}

/* stack */

// 48
func PHA(cpu *CPU) {
	cpu.tick()
	push8(cpu, cpu.A)
	cpu.PC += 1
}

// 08
func PHP(cpu *CPU) {
	cpu.tick()
	p := cpu.P
	p |= (1 << pbitB) | (1 << pbitU)
	push8(cpu, uint8(p))
	cpu.PC += 1
}

// 68
func PLA(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	cpu.A = pull8(cpu)
	cpu.P.checkNZ(cpu.A)
	cpu.PC += 1
}

// 28
func PLP(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	p := pull8(cpu)
	const mask = 0b11001111 // ignore B and U bits
	cpu.P = P(copybits(uint8(cpu.P), p, mask))
	cpu.PC += 1
}

/* logic */

func ORAimm(cpu *CPU) { ora(cpu, cpu.imm()); cpu.PC += 2 } // 09
func ANDimm(cpu *CPU) { and(cpu, cpu.imm()); cpu.PC += 2 } // 29
func EORimm(cpu *CPU) { eor(cpu, cpu.imm()); cpu.PC += 2 } // 49

// 05
func ORAzp(cpu *CPU) {
	ora(cpu, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// 25
func ANDzp(cpu *CPU) {
	and(cpu, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// 45
func EORzp(cpu *CPU) {
	eor(cpu, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// 15
func ORAzpx(cpu *CPU) {
	ora(cpu, cpu.Read8(uint16(cpu.zpx())))
	cpu.PC += 2
}

// 35
func ANDzpx(cpu *CPU) {
	and(cpu, cpu.Read8(uint16(cpu.zpx())))
	cpu.PC += 2
}

// 55
func EORzpx(cpu *CPU) {
	eor(cpu, cpu.Read8(uint16(cpu.zpx())))
	cpu.PC += 2
}

// 0D
func ORAabs(cpu *CPU) {
	ora(cpu, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// 2D
func ANDabs(cpu *CPU) {
	and(cpu, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// 4D
func EORabs(cpu *CPU) {
	eor(cpu, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// 1D
func ORAabx(cpu *CPU) {
	addr, _ := cpu.abx()
	ora(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// 3D
func ANDabx(cpu *CPU) {
	addr, _ := cpu.abx()
	and(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// 5D
func EORabx(cpu *CPU) {
	addr, _ := cpu.abx()
	eor(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// 19
func ORAaby(cpu *CPU) {
	addr, _ := cpu.aby()
	ora(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// 39
func ANDaby(cpu *CPU) {
	addr, _ := cpu.aby()
	and(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// 59
func EORaby(cpu *CPU) {
	addr, _ := cpu.aby()
	eor(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// 01
func ORAizx(cpu *CPU) {
	ora(cpu, cpu.Read8(cpu.izx()))
	cpu.PC += 2
}

// 21
func ANDizx(cpu *CPU) {
	and(cpu, cpu.Read8(cpu.izx()))
	cpu.PC += 2
}

// 41
func EORizx(cpu *CPU) {
	eor(cpu, cpu.Read8(cpu.izx()))
	cpu.PC += 2
}

// 11
func ORAizy(cpu *CPU) {
	addr, crossed := cpu.izy()
	if crossed == 1 {
		cpu.tick()
	}
	ora(cpu, cpu.Read8(addr))
	cpu.PC += 2
}

// 31
func ANDizy(cpu *CPU) {
	addr, crossed := cpu.izy()
	if crossed == 1 {
		cpu.tick()
	}
	and(cpu, cpu.Read8(addr))
	cpu.PC += 2
}

// 51
func EORizy(cpu *CPU) {
	addr, crossed := cpu.izy()
	if crossed == 1 {
		cpu.tick()
	}
	eor(cpu, cpu.Read8(addr))
	cpu.PC += 2
}

// 24
func BITzp(cpu *CPU) {
	bit(cpu, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// 2C
func BITabs(cpu *CPU) {
	bit(cpu, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

/* arithmetic */

func ADCimm(cpu *CPU) { adc(cpu, cpu.imm()); cpu.PC += 2 }  // 69
func SBCimm(cpu *CPU) { sbc(cpu, cpu.imm()); cpu.PC += 2 }  // E9, EB
func CMPimm(cpu *CPU) { cmp_(cpu, cpu.imm()); cpu.PC += 2 } // C9
func CPXimm(cpu *CPU) { cpx(cpu, cpu.imm()); cpu.PC += 2 }  // E0
func CPYimm(cpu *CPU) { cpy(cpu, cpu.imm()); cpu.PC += 2 }  // C0

// 65
func ADCzp(cpu *CPU) {
	adc(cpu, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// E5
func SBCzp(cpu *CPU) {
	sbc(cpu, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// C5
func CMPzp(cpu *CPU) {
	cmp_(cpu, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// E4
func CPXzp(cpu *CPU) {
	cpx(cpu, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// C4
func CPYzp(cpu *CPU) {
	cpy(cpu, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// 75
func ADCzpx(cpu *CPU) {
	adc(cpu, cpu.Read8(uint16(cpu.zpx())))
	cpu.PC += 2
}

// F5
func SBCzpx(cpu *CPU) {
	sbc(cpu, cpu.Read8(uint16(cpu.zpx())))
	cpu.PC += 2
}

// D5
func CMPzpx(cpu *CPU) {
	cmp_(cpu, cpu.Read8(uint16(cpu.zpx())))
	cpu.PC += 2
}

// 6D
func ADCabs(cpu *CPU) {
	adc(cpu, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// ED
func SBCabs(cpu *CPU) {
	sbc(cpu, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// CD
func CMPabs(cpu *CPU) {
	cmp_(cpu, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// EC
func CPXabs(cpu *CPU) {
	cpx(cpu, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// CC
func CPYabs(cpu *CPU) {
	cpy(cpu, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// 7D
func ADCabx(cpu *CPU) {
	addr, _ := cpu.abx()
	adc(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// FD
func SBCabx(cpu *CPU) {
	addr, _ := cpu.abx()
	sbc(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// DD
func CMPabx(cpu *CPU) {
	addr, _ := cpu.abx()
	cmp_(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// 79
func ADCaby(cpu *CPU) {
	addr, _ := cpu.aby()
	adc(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// F9
func SBCaby(cpu *CPU) {
	addr, _ := cpu.aby()
	sbc(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// D9
func CMPaby(cpu *CPU) {
	addr, _ := cpu.aby()
	cmp_(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// 61
func ADCizx(cpu *CPU) {
	adc(cpu, cpu.Read8(cpu.izx()))
	cpu.PC += 2
}

// E1
func SBCizx(cpu *CPU) {
	sbc(cpu, cpu.Read8(cpu.izx()))
	cpu.PC += 2
}

// C1
func CMPizx(cpu *CPU) {
	cmp_(cpu, cpu.Read8(cpu.izx()))
	cpu.PC += 2
}

// 71
func ADCizy(cpu *CPU) {
	addr, crossed := cpu.izy()
	if crossed == 1 {
		cpu.tick()
	}
	adc(cpu, cpu.Read8(addr))
	cpu.PC += 2
}

// F1
func SBCizy(cpu *CPU) {
	addr, crossed := cpu.izy()
	if crossed == 1 {
		cpu.tick()
	}
	sbc(cpu, cpu.Read8(addr))
	cpu.PC += 2
}

// D1
func CMPizy(cpu *CPU) {
	addr, crossed := cpu.izy()
	if crossed == 1 {
		cpu.tick()
	}
	cmp_(cpu, cpu.Read8(addr))
	cpu.PC += 2
}

/* increments and decrements */

// E8
func INX(cpu *CPU) {
	inc(cpu, &cpu.X)
	cpu.PC += 1
}

// C8
func INY(cpu *CPU) {
	inc(cpu, &cpu.Y)
	cpu.PC += 1
}

// CA
func DEX(cpu *CPU) {
	dec(cpu, &cpu.X)
	cpu.PC += 1
}

// 88
func DEY(cpu *CPU) {
	dec(cpu, &cpu.Y)
	cpu.PC += 1
}

// E6
func INCzp(cpu *CPU) {
	addr := uint16(cpu.zp())
	val := cpu.Read8(addr)
	inc(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

// C6
func DECzp(cpu *CPU) {
	addr := uint16(cpu.zp())
	val := cpu.Read8(addr)
	dec(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

// F6
func INCzpx(cpu *CPU) {
	addr := uint16(cpu.zpx())
	val := cpu.Read8(addr)
	inc(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

// D6
func DECzpx(cpu *CPU) {
	addr := uint16(cpu.zpx())
	val := cpu.Read8(addr)
	dec(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

// EE
func INCabs(cpu *CPU) {
	addr := cpu.abs()
	val := cpu.Read8(addr)
	inc(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

// CE
func DECabs(cpu *CPU) {
	addr := cpu.abs()
	val := cpu.Read8(addr)
	dec(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

// FE
func INCabx(cpu *CPU) {
	addr, crossed := cpu.abx()
	if crossed == 0 {
		cpu.tick()
	}
	val := cpu.Read8(addr)
	inc(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

// DE
func DECabx(cpu *CPU) {
	addr, crossed := cpu.abx()
	if crossed == 0 {
		cpu.tick()
	}
	val := cpu.Read8(addr)
	dec(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

/* shifts and rotates */

func ASLacc(cpu *CPU) { asl(cpu, &cpu.A); cpu.PC += 1 } // 0A
func LSRacc(cpu *CPU) { lsr(cpu, &cpu.A); cpu.PC += 1 } // 4A
func ROLacc(cpu *CPU) { rol(cpu, &cpu.A); cpu.PC += 1 } // 2A
func RORacc(cpu *CPU) { ror(cpu, &cpu.A); cpu.PC += 1 } // 6A

// 06
func ASLzp(cpu *CPU) {
	addr := uint16(cpu.zp())
	val := cpu.Read8(addr)
	asl(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

// 46
func LSRzp(cpu *CPU) {
	addr := uint16(cpu.zp())
	val := cpu.Read8(addr)
	lsr(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

// 26
func ROLzp(cpu *CPU) {
	addr := uint16(cpu.zp())
	val := cpu.Read8(addr)
	rol(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

// 66
func RORzp(cpu *CPU) {
	addr := uint16(cpu.zp())
	val := cpu.Read8(addr)
	ror(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

// 16
func ASLzpx(cpu *CPU) {
	addr := uint16(cpu.zpx())
	val := cpu.Read8(addr)
	asl(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

// 56
func LSRzpx(cpu *CPU) {
	addr := uint16(cpu.zpx())
	val := cpu.Read8(addr)
	lsr(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

// 36
func ROLzpx(cpu *CPU) {
	addr := uint16(cpu.zpx())
	val := cpu.Read8(addr)
	rol(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

// 76
func RORzpx(cpu *CPU) {
	addr := uint16(cpu.zpx())
	val := cpu.Read8(addr)
	ror(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

// 0E
func ASLabs(cpu *CPU) {
	addr := cpu.abs()
	val := cpu.Read8(addr)
	asl(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

// 4E
func LSRabs(cpu *CPU) {
	addr := cpu.abs()
	val := cpu.Read8(addr)
	lsr(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

// 2E
func ROLabs(cpu *CPU) {
	addr := cpu.abs()
	val := cpu.Read8(addr)
	rol(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

// 6E
func RORabs(cpu *CPU) {
	addr := cpu.abs()
	val := cpu.Read8(addr)
	ror(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

// 1E
func ASLabx(cpu *CPU) {
	addr, crossed := cpu.abx()
	if crossed == 0 {
		cpu.tick()
	}
	val := cpu.Read8(addr)
	asl(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

// 5E
func LSRabx(cpu *CPU) {
	addr, crossed := cpu.abx()
	if crossed == 0 {
		cpu.tick()
	}
	val := cpu.Read8(addr)
	lsr(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

// 3E
func ROLabx(cpu *CPU) {
	addr, crossed := cpu.abx()
	if crossed == 0 {
		cpu.tick()
	}
	val := cpu.Read8(addr)
	rol(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

// 7E
func RORabx(cpu *CPU) {
	addr, crossed := cpu.abx()
	if crossed == 0 {
		cpu.tick()
	}
	val := cpu.Read8(addr)
	ror(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

/* jumps and branches */

// 4C
func JMPabs(cpu *CPU) {
	cpu.PC = cpu.abs()
}

// 6C
func JMPind(cpu *CPU) {
	cpu.PC = cpu.ind()
}

// 20
func JSR(cpu *CPU) {
	addr := cpu.Read16(cpu.PC + 1)
	cpu.tick()
	// push the address of the last byte of this instruction, RTS
	// increments after pulling.
	push16(cpu, cpu.PC+2)
	cpu.PC = addr
}

// 60
func RTS(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	cpu.PC = pull16(cpu)
	cpu.PC++
	cpu.tick()
}

func BPL(cpu *CPU) { branch(cpu, !cpu.P.N()) } // 10
func BMI(cpu *CPU) { branch(cpu, cpu.P.N()) }  // 30
func BVC(cpu *CPU) { branch(cpu, !cpu.P.V()) } // 50
func BVS(cpu *CPU) { branch(cpu, cpu.P.V()) }  // 70
func BCC(cpu *CPU) { branch(cpu, !cpu.P.C()) } // 90
func BCS(cpu *CPU) { branch(cpu, cpu.P.C()) }  // B0
func BNE(cpu *CPU) { branch(cpu, !cpu.P.Z()) } // D0
func BEQ(cpu *CPU) { branch(cpu, cpu.P.Z()) }  // F0

/* flag changes */

// 18
func CLC(cpu *CPU) {
	cpu.P.clearBit(pbitC)
	cpu.tick()
	cpu.PC += 1
}

// 38
func SEC(cpu *CPU) {
	cpu.P.setBit(pbitC)
	cpu.tick()
	cpu.PC += 1
}

// 58
func CLI(cpu *CPU) {
	cpu.P.clearBit(pbitI)
	cpu.tick()
	cpu.PC += 1
}

// 78
func SEI(cpu *CPU) {
	cpu.P.setBit(pbitI)
	cpu.tick()
	cpu.PC += 1
}

// B8
func CLV(cpu *CPU) {
	cpu.P.clearBit(pbitV)
	cpu.tick()
	cpu.PC += 1
}

// D8
func CLD(cpu *CPU) {
	cpu.P.clearBit(pbitD)
	cpu.tick()
	cpu.PC += 1
}

// F8
func SED(cpu *CPU) {
	cpu.P.setBit(pbitD)
	cpu.tick()
	cpu.PC += 1
}

/* interrupts */

// 00
func BRK(cpu *CPU) {
	cpu.tick()
	push16(cpu, cpu.PC+2)
	p := cpu.P
	p.setBit(pbitB)
	p.setBit(pbitU)
	push8(cpu, uint8(p))
	cpu.P.setBit(pbitI)
	cpu.PC = cpu.Read16(IRQvector)
}

// 40
func RTI(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	p := pull8(cpu)
	const mask = 0b11001111 // ignore B and U bits
	cpu.P = P(copybits(uint8(cpu.P), p, mask))
	cpu.PC = pull16(cpu)
}

/* NOP variants */

// EA plus the unofficial implied ones
func NOPimp(cpu *CPU) {
	cpu.tick()
	cpu.PC += 1
}

func NOPimm(cpu *CPU) {
	cpu.imm()
	cpu.PC += 2
}

func NOPzp(cpu *CPU) {
	_ = cpu.Read8(uint16(cpu.zp()))
	cpu.PC += 2
}

func NOPzpx(cpu *CPU) {
	_ = cpu.Read8(uint16(cpu.zpx()))
	cpu.PC += 2
}

func NOPabs(cpu *CPU) {
	_ = cpu.Read8(cpu.abs())
	cpu.PC += 3
}

func NOPabx(cpu *CPU) {
	addr, _ := cpu.abx()
	_ = cpu.Read8(addr)
	cpu.PC += 3
}

/* unofficial, stable */

// A3
func LAXizx(cpu *CPU) {
	lax(cpu, cpu.Read8(cpu.izx()))
	cpu.PC += 2
}

// A7
func LAXzp(cpu *CPU) {
	lax(cpu, cpu.Read8(uint16(cpu.zp())))
	cpu.PC += 2
}

// B7
func LAXzpy(cpu *CPU) {
	lax(cpu, cpu.Read8(uint16(cpu.zpy())))
	cpu.PC += 2
}

// AF
func LAXabs(cpu *CPU) {
	lax(cpu, cpu.Read8(cpu.abs()))
	cpu.PC += 3
}

// BF
func LAXaby(cpu *CPU) {
	addr, _ := cpu.aby()
	lax(cpu, cpu.Read8(addr))
	cpu.PC += 3
}

// B3
func LAXizy(cpu *CPU) {
	addr, crossed := cpu.izy()
	if crossed == 1 {
		cpu.tick()
	}
	lax(cpu, cpu.Read8(addr))
	cpu.PC += 2
}

// 83
func SAXizx(cpu *CPU) {
	cpu.Write8(cpu.izx(), cpu.A&cpu.X)
	cpu.PC += 2
}

// 87
func SAXzp(cpu *CPU) {
	cpu.Write8(uint16(cpu.zp()), cpu.A&cpu.X)
	cpu.PC += 2
}

// 97
func SAXzpy(cpu *CPU) {
	cpu.Write8(uint16(cpu.zpy()), cpu.A&cpu.X)
	cpu.PC += 2
}

// 8F
func SAXabs(cpu *CPU) {
	cpu.Write8(cpu.abs(), cpu.A&cpu.X)
	cpu.PC += 3
}

// 03
func SLOizx(cpu *CPU) { rmwIZX(cpu, slo) }

// 07
func SLOzp(cpu *CPU) { rmwZP(cpu, slo) }

// 17
func SLOzpx(cpu *CPU) { rmwZPX(cpu, slo) }

// 0F
func SLOabs(cpu *CPU) { rmwABS(cpu, slo) }

// 1F
func SLOabx(cpu *CPU) { rmwABX(cpu, slo) }

// 1B
func SLOaby(cpu *CPU) { rmwABY(cpu, slo) }

// 13
func SLOizy(cpu *CPU) { rmwIZY(cpu, slo) }

// 23
func RLAizx(cpu *CPU) { rmwIZX(cpu, rla) }

// 27
func RLAzp(cpu *CPU) { rmwZP(cpu, rla) }

// 37
func RLAzpx(cpu *CPU) { rmwZPX(cpu, rla) }

// 2F
func RLAabs(cpu *CPU) { rmwABS(cpu, rla) }

// 3F
func RLAabx(cpu *CPU) { rmwABX(cpu, rla) }

// 3B
func RLAaby(cpu *CPU) { rmwABY(cpu, rla) }

// 33
func RLAizy(cpu *CPU) { rmwIZY(cpu, rla) }

// 43
func SREizx(cpu *CPU) { rmwIZX(cpu, sre) }

// 47
func SREzp(cpu *CPU) { rmwZP(cpu, sre) }

// 57
func SREzpx(cpu *CPU) { rmwZPX(cpu, sre) }

// 4F
func SREabs(cpu *CPU) { rmwABS(cpu, sre) }

// 5F
func SREabx(cpu *CPU) { rmwABX(cpu, sre) }

// 5B
func SREaby(cpu *CPU) { rmwABY(cpu, sre) }

// 53
func SREizy(cpu *CPU) { rmwIZY(cpu, sre) }

// 63
func RRAizx(cpu *CPU) { rmwIZX(cpu, rra) }

// 67
func RRAzp(cpu *CPU) { rmwZP(cpu, rra) }

// 77
func RRAzpx(cpu *CPU) { rmwZPX(cpu, rra) }

// 6F
func RRAabs(cpu *CPU) { rmwABS(cpu, rra) }

// 7F
func RRAabx(cpu *CPU) { rmwABX(cpu, rra) }

// 7B
func RRAaby(cpu *CPU) { rmwABY(cpu, rra) }

// 73
func RRAizy(cpu *CPU) { rmwIZY(cpu, rra) }

// C3
func DCPizx(cpu *CPU) { rmwIZX(cpu, dcp) }

// C7
func DCPzp(cpu *CPU) { rmwZP(cpu, dcp) }

// D7
func DCPzpx(cpu *CPU) { rmwZPX(cpu, dcp) }

// CF
func DCPabs(cpu *CPU) { rmwABS(cpu, dcp) }

// DF
func DCPabx(cpu *CPU) { rmwABX(cpu, dcp) }

// DB
func DCPaby(cpu *CPU) { rmwABY(cpu, dcp) }

// D3
func DCPizy(cpu *CPU) { rmwIZY(cpu, dcp) }

// E3
func ISBizx(cpu *CPU) { rmwIZX(cpu, isb) }

// E7
func ISBzp(cpu *CPU) { rmwZP(cpu, isb) }

// F7
func ISBzpx(cpu *CPU) { rmwZPX(cpu, isb) }

// EF
func ISBabs(cpu *CPU) { rmwABS(cpu, isb) }

// FF
func ISBabx(cpu *CPU) { rmwABX(cpu, isb) }

// FB
func ISBaby(cpu *CPU) { rmwABY(cpu, isb) }

// F3
func ISBizy(cpu *CPU) { rmwIZY(cpu, isb) }

// 0B, 2B
func ANC(cpu *CPU) {
	and(cpu, cpu.imm())
	cpu.P.writeBit(pbitC, cpu.P.N())
	cpu.PC += 2
}

// 4B
func ALR(cpu *CPU) {
	// like and + lsr but saves one tick
	cpu.A &= cpu.imm()
	carry := cpu.A & 0x01
	cpu.A >>= 1
	cpu.P.checkNZ(cpu.A)
	cpu.P.writeBit(pbitC, carry != 0)
	cpu.PC += 2
}

// 6B
func ARR(cpu *CPU) {
	cpu.A &= cpu.imm()
	cpu.A >>= 1
	cpu.P.writeBit(pbitV, (cpu.A>>6)^(cpu.A>>5)&0x01 != 0)

	// bit 7 is set to prev carry
	if cpu.P.C() {
		cpu.A |= 1 << 7
	}

	cpu.P.checkNZ(cpu.A)
	cpu.P.writeBit(pbitC, cpu.A&(1<<6) != 0)
	cpu.PC += 2
}

// CB
func SBX(cpu *CPU) {
	val := (int16(cpu.A) & int16(cpu.X)) - int16(cpu.imm())
	cpu.X = uint8(val)
	cpu.P.checkNZ(cpu.X)
	cpu.P.writeBit(pbitC, val >= 0)
	cpu.PC += 2
}

// BB
func LAS(cpu *CPU) {
	addr, _ := cpu.aby()
	cpu.A = cpu.SP & cpu.Read8(addr)
	cpu.X = cpu.A
	cpu.SP = cpu.A
	cpu.P.checkNZ(cpu.A)
	cpu.PC += 3
}

// 9E
func SHX(cpu *CPU) {
	addr := cpu.abs()
	dst := addr + uint16(cpu.Y)

	// when the indexing crosses a page, the anded value also replaces
	// the high byte of the target address.
	val := cpu.X & (uint8(addr>>8) + 1)
	var waddr uint16
	if pagecrossed(addr, dst) {
		waddr = (uint16(val) << 8) | dst&0xff
	} else {
		waddr = (addr & 0xff00) | dst&0xff
	}
	cpu.tick()
	cpu.Write8(waddr, val)
	cpu.PC += 3
}

// 9C
func SHY(cpu *CPU) {
	addr := cpu.abs()
	dst := addr + uint16(cpu.X)

	val := cpu.Y & (uint8(addr>>8) + 1)
	var waddr uint16
	if pagecrossed(addr, dst) {
		waddr = (uint16(val) << 8) | dst&0xff
	} else {
		waddr = (addr & 0xff00) | dst&0xff
	}
	cpu.tick()
	cpu.Write8(waddr, val)
	cpu.PC += 3
}

// JAM opcodes halt the CPU until reset.
func JAM(cpu *CPU) {
	cpu.haltErr = &IllegalOpcodeError{PC: cpu.PC, Opcode: cpu.Peek8(cpu.PC)}
}

// unstable covers the unofficial opcodes whose behavior depends on analog
// effects (XAA, AHX, TAS and LAX imm). Nothing meaningful can depend on
// them, so they halt like JAM.
func unstable(cpu *CPU) {
	cpu.haltErr = &IllegalOpcodeError{PC: cpu.PC, Opcode: cpu.Peek8(cpu.PC)}
}

/* common instruction implementation */

// add memory to accumulator with carry.
func adc(cpu *CPU, val uint8) {
	carry := cpu.P.ibit(pbitC)
	sum := uint16(cpu.A) + uint16(val) + uint16(carry)

	cpu.P.checkCV(cpu.A, val, sum)
	cpu.A = uint8(sum)
	cpu.P.checkNZ(cpu.A)
}

// subtract memory from accumulator with borrow.
func sbc(cpu *CPU, val uint8) {
	adc(cpu, val^0xff)
}

func and(cpu *CPU, val uint8) {
	cpu.A &= val
	cpu.P.checkNZ(cpu.A)
}

func ora(cpu *CPU, val uint8) {
	cpu.A |= val
	cpu.P.checkNZ(cpu.A)
}

func eor(cpu *CPU, val uint8) {
	cpu.A ^= val
	cpu.P.checkNZ(cpu.A)
}

// rotate one bit left.
func rol(cpu *CPU, val *uint8) {
	carry := *val & 0x80 // next carry is bit 7
	*val <<= 1
	if cpu.P.C() {
		*val |= 1 << 0
	}

	cpu.tick()
	cpu.P.checkNZ(*val)
	cpu.P.writeBit(pbitC, carry != 0)
}

// rotate one bit right.
func ror(cpu *CPU, val *uint8) {
	carry := *val & 0x01 // next carry is bit 0
	*val >>= 1
	if cpu.P.C() {
		*val |= 1 << 7
	}

	cpu.tick()
	cpu.P.checkNZ(*val)
	cpu.P.writeBit(pbitC, carry != 0)
}

// shift one bit left.
func asl(cpu *CPU, val *uint8) {
	carry := *val & 0x80
	*val <<= 1
	cpu.tick()
	cpu.P.checkNZ(*val)
	cpu.P.writeBit(pbitC, carry != 0)
}

// shift one bit right.
func lsr(cpu *CPU, val *uint8) {
	carry := *val & 0x01
	*val >>= 1
	cpu.tick()
	cpu.P.checkNZ(*val)
	cpu.P.writeBit(pbitC, carry != 0)
}

// test bits in memory with accumulator.
func bit(cpu *CPU, val uint8) {
	// copy bits 7 and 6 (N and V)
	cpu.P &= 0b00111111
	cpu.P |= P(val & 0b11000000)
	cpu.P.checkZ(cpu.A & val)
}

func cmp_(cpu *CPU, val uint8) {
	cpu.P.checkNZ(cpu.A - val)
	cpu.P.writeBit(pbitC, val <= cpu.A)
}

func cpx(cpu *CPU, val uint8) {
	cpu.P.checkNZ(cpu.X - val)
	cpu.P.writeBit(pbitC, val <= cpu.X)
}

func cpy(cpu *CPU, val uint8) {
	cpu.P.checkNZ(cpu.Y - val)
	cpu.P.writeBit(pbitC, val <= cpu.Y)
}

func inc(cpu *CPU, val *uint8) {
	cpu.tick()
	*val++
	cpu.P.checkNZ(*val)
}

func dec(cpu *CPU, val *uint8) {
	cpu.tick()
	*val--
	cpu.P.checkNZ(*val)
}

func lda(cpu *CPU, val uint8) {
	cpu.A = val
	cpu.P.checkNZ(cpu.A)
}

func ldx(cpu *CPU, val uint8) {
	cpu.X = val
	cpu.P.checkNZ(cpu.X)
}

func ldy(cpu *CPU, val uint8) {
	cpu.Y = val
	cpu.P.checkNZ(cpu.Y)
}

/* unofficial read-modify-write combos */

func lax(cpu *CPU, val uint8) {
	lda(cpu, val)
	ldx(cpu, val)
}

func slo(cpu *CPU, val *uint8) {
	asl(cpu, val)
	ora(cpu, *val)
}

func rla(cpu *CPU, val *uint8) {
	rol(cpu, val)
	and(cpu, *val)
}

func sre(cpu *CPU, val *uint8) {
	lsr(cpu, val)
	eor(cpu, *val)
}

func rra(cpu *CPU, val *uint8) {
	ror(cpu, val)
	adc(cpu, *val)
}

func dcp(cpu *CPU, val *uint8) {
	cpu.tick()
	*val--
	cmp_(cpu, *val)
}

func isb(cpu *CPU, val *uint8) {
	cpu.tick()
	*val++
	sbc(cpu, *val)
}

// rmw* run an unofficial read-modify-write combo with the timing shared by
// the whole family: the modify step costs one internal cycle and the
// indexed modes always pay the page-cross penalty.

func rmwZP(cpu *CPU, f func(*CPU, *uint8)) {
	addr := uint16(cpu.zp())
	val := cpu.Read8(addr)
	f(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

func rmwZPX(cpu *CPU, f func(*CPU, *uint8)) {
	addr := uint16(cpu.zpx())
	val := cpu.Read8(addr)
	f(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

func rmwABS(cpu *CPU, f func(*CPU, *uint8)) {
	addr := cpu.abs()
	val := cpu.Read8(addr)
	f(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

func rmwABX(cpu *CPU, f func(*CPU, *uint8)) {
	addr, crossed := cpu.abx()
	if crossed == 0 {
		cpu.tick()
	}
	val := cpu.Read8(addr)
	f(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

func rmwABY(cpu *CPU, f func(*CPU, *uint8)) {
	addr, crossed := cpu.aby()
	if crossed == 0 {
		cpu.tick()
	}
	val := cpu.Read8(addr)
	f(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 3
}

func rmwIZX(cpu *CPU, f func(*CPU, *uint8)) {
	addr := cpu.izx()
	val := cpu.Read8(addr)
	f(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

func rmwIZY(cpu *CPU, f func(*CPU, *uint8)) {
	addr, _ := cpu.izy()
	cpu.tick()
	val := cpu.Read8(addr)
	f(cpu, &val)
	cpu.Write8(addr, val)
	cpu.PC += 2
}

/* helpers */

func pagecrossed(a, b uint16) bool {
	return 0xFF00&a != 0xFF00&b
}

// push 8-bit onto the stack
func push8(cpu *CPU, val uint8) {
	cpu.Write8(uint16(cpu.SP)+0x0100, val)
	cpu.SP -= 1
}

// push a 16-bit value onto the stack
func push16(cpu *CPU, val uint16) {
	push8(cpu, uint8(val>>8))
	push8(cpu, uint8(val&0xFF))
}

// pull a 8-bit value from the stack
func pull8(cpu *CPU) uint8 {
	cpu.SP += 1
	return cpu.Read8(uint16(cpu.SP) + 0x0100)
}

// pull a 16-bit value from the stack
func pull16(cpu *CPU) uint16 {
	lo := pull8(cpu)
	hi := pull8(cpu)
	return uint16(hi)<<8 | uint16(lo)
}

// reladdr returns the destination address for a branch, that is PC+2 plus
// the signed offset at PC+1.
func reladdr(cpu *CPU) uint16 {
	off := int8(cpu.Read8(cpu.PC + 1))
	return uint16(int16(cpu.PC+2) + int16(off))
}

func branch(cpu *CPU, cond bool) {
	addr := reladdr(cpu)
	if cond {
		if pagecrossed(cpu.PC+2, addr) {
			cpu.tick()
		}
		cpu.tick()
		cpu.PC = addr
		return
	}

	cpu.PC += 2
}

// Copy bits from src to dst, using mask to select which bits to copy.
func copybits(dst uint8, src uint8, mask uint8) uint8 {
	return (dst & ^mask) | (src & mask)
}

// read 16 bits from the zero page, handling page wrap.
func (cpu *CPU) zpr16(addr uint16) uint16 {
	lo := cpu.Read8(addr)
	hi := cpu.Read8(uint16(uint8(addr) + 1))
	return uint16(hi)<<8 | uint16(lo)
}

/* addressing modes */

func (cpu *CPU) imm() uint8  { return cpu.Read8(cpu.PC + 1) }
func (cpu *CPU) abs() uint16 { return cpu.Read16(cpu.PC + 1) }
func (cpu *CPU) zp() uint8   { return cpu.Read8(cpu.PC + 1) }

func (cpu *CPU) zpx() uint8 {
	cpu.tick()
	return cpu.zp() + cpu.X
}

func (cpu *CPU) zpy() uint8 {
	cpu.tick()
	return cpu.zp() + cpu.Y
}

// absolute indexed x. Returns the destination address and an integer set to
// 1 if a page boundary was crossed (the extra cycle is already accounted).
func (cpu *CPU) abx() (uint16, uint8) {
	addr := cpu.abs()
	dst := addr + uint16(cpu.X)
	crossed := pagecrossed(addr, dst)
	if crossed {
		cpu.tick()
	}
	return dst, b2i(crossed)
}

// absolute indexed y.
func (cpu *CPU) aby() (uint16, uint8) {
	addr := cpu.abs()
	dst := addr + uint16(cpu.Y)
	crossed := pagecrossed(addr, dst)
	if crossed {
		cpu.tick()
	}
	return dst, b2i(crossed)
}

// zeropage indexed indirect (zp,x)
func (cpu *CPU) izx() uint16 {
	cpu.tick()
	oper := cpu.zp() + cpu.X
	return cpu.zpr16(uint16(oper))
}

// zeropage indirect indexed (zp),y. Returns the destination address and an
// integer set to 1 if a page boundary was crossed; the penalty cycle is the
// caller's business since stores and RMW combos always pay it.
func (cpu *CPU) izy() (uint16, uint8) {
	oper := cpu.zp()
	addr := cpu.zpr16(uint16(oper))
	dst := addr + uint16(cpu.Y)
	return dst, b2i(pagecrossed(addr, dst))
}

// absolute indirect, with the hardware bug: the high byte read does not
// carry into the next page.
func (cpu *CPU) ind() uint16 {
	oper := cpu.Read16(cpu.PC + 1)
	lo := cpu.Read8(oper)
	hi := cpu.Read8((0xff00 & oper) | (0x00ff & (oper + 1)))
	return uint16(hi)<<8 | uint16(lo)
}
