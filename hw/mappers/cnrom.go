package mappers

var CNROM = MapperDesc{
	Name:            "CNROM",
	Load:            loadCNROM,
	HasBusConflicts: func(b *base) bool { return b.rom.SubMapper() == 2 },
}

type cnrom struct {
	*base

	chrbank uint32
}

func (m *cnrom) WritePRGROM(addr uint16, val uint8) {
	// 7  bit  0
	// ---- ----
	// cccc ccCC
	// |||| ||||
	// ++++-++++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
	//            (CNROM only uses the lowest 2 bits)
	prev := m.chrbank
	m.chrbank = uint32(val & 0b11)
	if prev != m.chrbank {
		m.selectCHRPage8KB(int(m.chrbank))
		modMapper.DebugZ("CHR ROM bank switch").String("mapper", m.desc.Name).Uint32("prev", prev).Uint32("new", m.chrbank).End()
	}
}

func loadCNROM(b *base) error {
	cnrom := &cnrom{base: b}
	b.init(cnrom.WritePRGROM)

	b.setNTMirroring(b.rom.Mirroring())
	b.selectCHRPage8KB(0)
	b.selectPRGPage16KB(0, 0)
	b.selectPRGPage16KB(1, -1)
	return nil
}
