// Package snapshot defines the serializable state of the console. The
// structs mirror the internal state of each component; the hw packages
// convert to and from them, and the codec turns a Console into JSON.
package snapshot

const Version = 1

type Console struct {
	Version int
	CPU     CPU
	RAM     []uint8
	PPU     PPU
	APU     APU
	Input   Input
}

type CPU struct {
	PC uint16
	SP uint8
	P  uint8
	A  uint8
	X  uint8
	Y  uint8

	Clock      int64
	IRQLines   uint8
	NMIPending bool
}

type PPU struct {
	Cycle    int
	Scanline int
	Frame    uint64
	OddFrame bool

	CTRL    uint8
	MASK    uint8
	STATUS  uint8
	OAMADDR uint8

	VRAMAddr   uint16
	VRAMTmp    uint16
	FineX      uint8
	WriteLatch bool
	DataBuf    uint8
	RegLatch   uint8
	NMIPrev    bool

	NameTables []uint8 // 2KB
	Palette    []uint8 // 32 bytes
	OAM        []uint8 // 256 bytes
}

type Input struct {
	Strobe bool
	State  [2]uint8
}

type APU struct {
	Cycle uint32

	Square1  Square
	Square2  Square
	Triangle Triangle
	Noise    Noise
	DMC      DMC

	FrameCounter FrameCounter
}

type LengthCounter struct {
	Enabled bool
	Halt    bool
	Counter uint8
}

type Envelope struct {
	Length LengthCounter

	ConstantVolume bool
	Volume         uint8
	Start          bool
	Divider        int8
	Counter        uint8
}

type Square struct {
	Envelope Envelope

	Duty    uint8
	DutyPos uint8

	Timer      uint16
	RealPeriod uint16

	SweepEnabled bool
	SweepPeriod  uint8
	SweepNegate  bool
	SweepShift   uint8
	ReloadSweep  bool
	SweepDivider uint8
	SweepTarget  uint32
}

type Triangle struct {
	Length LengthCounter

	Timer  uint16
	Period uint16

	LinearCounter uint8
	LinearReload  uint8
	ReloadFlag    bool
	Control       bool

	Pos uint8
}

type Noise struct {
	Envelope Envelope

	ShiftReg uint16
	Mode     bool

	Timer  uint16
	Period uint16
}

type DMC struct {
	SampleAddr uint16
	SampleLen  uint16
	OutLvl     uint8
	IRQEnabled bool
	Loop       bool

	CurAddr   uint16
	Remaining uint16
	ReadBuf   uint8
	BufEmpty  bool

	ShiftReg uint8
	BitsLeft uint8
	Silence  bool

	Timer  uint16
	Period uint16
}

type FrameCounter struct {
	Cycle      int32
	CurStep    uint32
	StepMode   uint32
	InhibitIRQ bool
	BlockTick  uint8
	NewVal     int16
	WriteDelay int8
}
