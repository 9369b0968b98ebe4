package snapshot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testConsole() *Console {
	c := &Console{
		Version: Version,
		CPU: CPU{
			PC:         0xC123,
			SP:         0xFA,
			P:          0x65,
			A:          0x11,
			X:          0x22,
			Y:          0x33,
			Clock:      123456789,
			IRQLines:   0b101,
			NMIPending: true,
		},
		RAM: make([]uint8, 0x800),
		PPU: PPU{
			Cycle:      255,
			Scanline:   241,
			Frame:      1000,
			OddFrame:   true,
			CTRL:       0x90,
			MASK:       0x1E,
			STATUS:     0x80,
			OAMADDR:    0x10,
			VRAMAddr:   0x2ABC,
			VRAMTmp:    0x0C05,
			FineX:      5,
			WriteLatch: true,
			DataBuf:    0x7F,
			RegLatch:   0xA5,
			NMIPrev:    true,
			NameTables: make([]uint8, 0x800),
			Palette:    make([]uint8, 32),
			OAM:        make([]uint8, 256),
		},
		APU: APU{
			Cycle: 12345,
			Square1: Square{
				Envelope: Envelope{
					Length:  LengthCounter{Enabled: true, Counter: 42},
					Volume:  7,
					Divider: -1,
					Counter: 9,
				},
				Duty:       2,
				DutyPos:    5,
				RealPeriod: 0x1FF,
				Timer:      100,
			},
			Triangle: Triangle{
				Length:        LengthCounter{Enabled: true, Halt: true, Counter: 3},
				Period:        0x150,
				LinearCounter: 17,
				LinearReload:  20,
				ReloadFlag:    true,
				Pos:           31,
			},
			Noise: Noise{
				ShiftReg: 0x4001,
				Mode:     true,
				Period:   253,
			},
			DMC: DMC{
				SampleAddr: 0xC400,
				SampleLen:  0x101,
				OutLvl:     64,
				IRQEnabled: true,
				CurAddr:    0xC450,
				Remaining:  0x80,
				BitsLeft:   8,
				Silence:    true,
				Period:     427,
			},
			FrameCounter: FrameCounter{
				Cycle:      7456,
				CurStep:    3,
				StepMode:   1,
				InhibitIRQ: true,
				NewVal:     -1,
				WriteDelay: -1,
			},
		},
		Input: Input{Strobe: true, State: [2]uint8{0xAB, 0xCD}},
	}

	for i := range c.RAM {
		c.RAM[i] = uint8(i)
	}
	for i := range c.PPU.NameTables {
		c.PPU.NameTables[i] = uint8(i * 3)
	}
	for i := range c.PPU.Palette {
		c.PPU.Palette[i] = uint8(0x3F - i)
	}
	for i := range c.PPU.OAM {
		c.PPU.OAM[i] = uint8(i ^ 0x5A)
	}
	return c
}

func TestSnapshotRoundtrip(t *testing.T) {
	want := testConsole()

	data := Encode(want)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("state mismatch after roundtrip (-want +got):\n%s", diff)
	}

	// Same state must serialize to the same bytes.
	if string(Encode(got)) != string(data) {
		t.Error("re-encoded snapshot differs from the original")
	}
}

func TestSnapshotBadVersion(t *testing.T) {
	c := testConsole()
	c.Version = Version + 1

	if _, err := Decode(Encode(c)); err == nil {
		t.Fatal("expected an error for an unknown version")
	}
}

func TestSnapshotMalformed(t *testing.T) {
	if _, err := Decode([]byte(`{"version": 1`)); err == nil {
		t.Fatal("expected an error for truncated input")
	}
}
