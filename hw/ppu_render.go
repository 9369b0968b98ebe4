package hw

// Tick advances the PPU by one dot.
func (p *PPU) Tick() {
	p.tickCounters()

	rendering := p.renderingEnabled()
	visible := p.Scanline < 240
	pre := p.Scanline == NumScanlines-1
	fetchLine := visible || pre
	fetchDot := (p.Cycle >= 1 && p.Cycle <= 256) || (p.Cycle >= 321 && p.Cycle <= 336)

	if rendering {
		if visible && p.Cycle >= 1 && p.Cycle <= 256 {
			p.renderPixel()
		}

		if fetchLine && fetchDot {
			p.tileData <<= 4
			switch p.Cycle % 8 {
			case 1:
				p.fetchNTByte()
			case 3:
				p.fetchATByte()
			case 5:
				p.fetchTileLow()
			case 7:
				p.fetchTileHigh()
			case 0:
				p.storeTileData()
				p.incrementX()
			}
		}

		if fetchLine {
			if p.Cycle == 256 {
				p.incrementY()
			}
			if p.Cycle == 257 {
				p.copyX()
			}
		}
		if pre && p.Cycle >= 280 && p.Cycle <= 304 {
			p.copyY()
		}

		// Sprite evaluation for the next scanline happens during
		// cycles 257-320 on the hardware. Doing it all at once at 257
		// is enough for sprite 0 hit and overflow timing.
		if p.Cycle == 257 {
			if visible {
				p.evaluateSprites()
			} else {
				p.spriteCount = 0
			}
		}
	}

	if p.Scanline == 241 && p.Cycle == 1 {
		p.startVblank()
	}
	if pre && p.Cycle == 1 {
		const mask = 1<<vblank | 1<<sprite0Hit | 1<<spriteOverflow
		p.PPUSTATUS.ClearBits(mask)
		p.nmiChange()
	}
}

// Advance runs the PPU for n dots.
func (p *PPU) Advance(n int) {
	for i := 0; i < n; i++ {
		p.Tick()
	}
}

func (p *PPU) tickCounters() {
	// With rendering enabled, the last dot of the pre-render line is
	// skipped on odd frames.
	if p.renderingEnabled() && p.oddFrame &&
		p.Scanline == NumScanlines-1 && p.Cycle == NumCycles-2 {
		p.Cycle = 0
		p.Scanline = 0
		p.Frame++
		p.oddFrame = !p.oddFrame
		return
	}

	p.Cycle++
	if p.Cycle >= NumCycles {
		p.Cycle = 0
		p.Scanline++
		if p.Scanline >= NumScanlines {
			p.Scanline = 0
			p.Frame++
			p.oddFrame = !p.oddFrame
		}
	}
}

func (p *PPU) startVblank() {
	p.front, p.back = p.back, p.front
	p.frameReady = true
	p.PPUSTATUS.SetBit(vblank)
	p.nmiChange()
}

func (p *PPU) fetchNTByte() {
	addr := 0x2000 | p.vramAddr&0x0FFF
	p.ntByte = p.Bus.Read8(addr, false)
}

func (p *PPU) fetchATByte() {
	v := p.vramAddr
	addr := 0x23C0 | v&0x0C00 | v>>4&0x38 | v>>2&0x07
	shift := v>>4&4 | v&2
	p.atByte = p.Bus.Read8(addr, false) >> shift & 3 << 2
}

func (p *PPU) bgPatternAddr() uint16 {
	fineY := p.vramAddr >> 12 & 7
	table := uint16(p.PPUCTRL.GetBiti(backgroundAddr))
	return table*0x1000 + uint16(p.ntByte)*16 + fineY
}

func (p *PPU) fetchTileLow() {
	p.tileLo = p.Bus.Read8(p.bgPatternAddr(), false)
}

func (p *PPU) fetchTileHigh() {
	p.tileHi = p.Bus.Read8(p.bgPatternAddr()+8, false)
}

// storeTileData packs the fetched tile row into the low 32 bits of the
// shift register, one 4-bit palette index per pixel.
func (p *PPU) storeTileData() {
	var data uint32
	for i := 0; i < 8; i++ {
		p1 := p.tileLo & 0x80 >> 7
		p2 := p.tileHi & 0x80 >> 6
		p.tileLo <<= 1
		p.tileHi <<= 1
		data = data<<4 | uint32(p.atByte|p2|p1)
	}
	p.tileData |= uint64(data)
}

// Coarse X increment, wrapping to the next horizontal nametable.
func (p *PPU) incrementX() {
	if p.vramAddr&0x001F == 31 {
		p.vramAddr &^= 0x001F
		p.vramAddr ^= 0x0400
	} else {
		p.vramAddr++
	}
}

// Fine Y increment, with coarse Y overflow into the vertical nametable.
// Row 29 is the last row of tiles; setting coarse Y out of bounds (30 or
// 31) reads the attribute area as tile data and wraps without switching
// nametable.
func (p *PPU) incrementY() {
	if p.vramAddr&0x7000 != 0x7000 {
		p.vramAddr += 0x1000
	} else {
		p.vramAddr &^= 0x7000
		y := p.vramAddr & 0x03E0 >> 5
		switch y {
		case 29:
			y = 0
			p.vramAddr ^= 0x0800
		case 31:
			y = 0
		default:
			y++
		}
		p.vramAddr = p.vramAddr&^0x03E0 | y<<5
	}
}

// Copy the horizontal bits (coarse X, nametable X) from t to v.
func (p *PPU) copyX() {
	p.vramAddr = p.vramAddr&0xFBE0 | p.vramTmp&0x041F
}

// Copy the vertical bits (fine Y, coarse Y, nametable Y) from t to v.
func (p *PPU) copyY() {
	p.vramAddr = p.vramAddr&0x841F | p.vramTmp&0x7BE0
}

func (p *PPU) backgroundPixel() uint8 {
	if !p.PPUMASK.GetBit(showBg) {
		return 0
	}
	data := uint32(p.tileData >> 32)
	return uint8(data >> ((7 - p.fineX) * 4) & 0x0F)
}

// spritePixel returns the first opaque sprite pixel at the current dot,
// along with its index in the per-scanline sprite list.
func (p *PPU) spritePixel() (int, uint8) {
	if !p.PPUMASK.GetBit(showSprites) {
		return 0, 0
	}
	for i := 0; i < p.spriteCount; i++ {
		offset := p.Cycle - 1 - int(p.spritePositions[i])
		if offset < 0 || offset > 7 {
			continue
		}
		color := uint8(p.spritePatterns[i] >> uint((7-offset)*4) & 0x0F)
		if color%4 == 0 {
			continue
		}
		return i, color
	}
	return 0, 0
}

func (p *PPU) renderPixel() {
	x := p.Cycle - 1
	y := p.Scanline

	bg := p.backgroundPixel()
	i, spr := p.spritePixel()

	if x < 8 {
		if !p.PPUMASK.GetBit(leftmostBg) {
			bg = 0
		}
		if !p.PPUMASK.GetBit(leftmostSprites) {
			spr = 0
		}
	}

	bgOpaque := bg%4 != 0
	sprOpaque := spr%4 != 0

	var pix uint8
	switch {
	case !bgOpaque && !sprOpaque:
		pix = 0
	case !bgOpaque && sprOpaque:
		pix = spr | 0x10
	case bgOpaque && !sprOpaque:
		pix = bg
	default:
		if p.spriteIndexes[i] == 0 && x < 255 {
			p.PPUSTATUS.SetBit(sprite0Hit)
		}
		if p.spritePriorities[i] == 0 {
			pix = spr | 0x10
		} else {
			pix = bg
		}
	}

	p.back.SetRGBA(x, y, nesRGB[p.readPalette(uint16(pix))&0x3f])
}

// evaluateSprites selects the sprites visible on the next scanline, at
// most eight of them, and latches their pattern data.
func (p *PPU) evaluateSprites() {
	height := 8
	if p.PPUCTRL.GetBit(spriteSize) {
		height = 16
	}

	count := 0
	for i := 0; i < 64; i++ {
		y := p.oam[i*4+0]
		attrs := p.oam[i*4+2]
		x := p.oam[i*4+3]

		row := p.Scanline - int(y)
		if row < 0 || row >= height {
			continue
		}
		if count < 8 {
			p.spritePatterns[count] = p.fetchSpritePattern(i, row)
			p.spritePositions[count] = x
			p.spritePriorities[count] = attrs >> 5 & 1
			p.spriteIndexes[count] = uint8(i)
		}
		count++
	}
	if count > 8 {
		count = 8
		p.PPUSTATUS.SetBit(spriteOverflow)
	}
	p.spriteCount = count
}

// fetchSpritePattern reads and packs one row of sprite i, applying
// horizontal and vertical flips.
func (p *PPU) fetchSpritePattern(i, row int) uint32 {
	tile := p.oam[i*4+1]
	attrs := p.oam[i*4+2]

	var addr uint16
	if !p.PPUCTRL.GetBit(spriteSize) {
		if attrs&0x80 != 0 {
			row = 7 - row
		}
		table := uint16(p.PPUCTRL.GetBiti(spriteAddr))
		addr = table*0x1000 + uint16(tile)*16 + uint16(row)
	} else {
		// 8x16 sprites: bit 0 of the tile index selects the pattern
		// table, the bottom half uses the next tile.
		if attrs&0x80 != 0 {
			row = 15 - row
		}
		table := uint16(tile & 1)
		tile &= 0xFE
		if row > 7 {
			tile++
			row -= 8
		}
		addr = table*0x1000 + uint16(tile)*16 + uint16(row)
	}

	palette := attrs & 3 << 2
	lo := p.Bus.Read8(addr, false)
	hi := p.Bus.Read8(addr+8, false)

	var data uint32
	for j := 0; j < 8; j++ {
		var p1, p2 uint8
		if attrs&0x40 != 0 {
			p1 = lo & 1
			p2 = hi & 1 << 1
			lo >>= 1
			hi >>= 1
		} else {
			p1 = lo & 0x80 >> 7
			p2 = hi & 0x80 >> 6
			lo <<= 1
			hi <<= 1
		}
		data = data<<4 | uint32(palette|p2|p1)
	}
	return data
}
