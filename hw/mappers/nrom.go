package mappers

var NROM = MapperDesc{
	Name: "NROM",
	Load: loadNROM,
}

func loadNROM(b *base) error {
	// Fixed 32KB of PRG ROM (16KB boards mirror) and 8KB of CHR, no
	// banking registers at all.
	b.selectPRGPage16KB(0, 0)
	b.selectPRGPage16KB(1, -1)
	b.selectCHRPage8KB(0)
	b.setNTMirroring(b.rom.Mirroring())
	return nil
}
