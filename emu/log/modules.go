package log

type ModuleMask uint64
type Module uint

const ModuleMaskAll ModuleMask = 0xFFFFFFFFFFFFFFFF

// Standard modules, one per hardware subsystem. Packages can register
// additional modules with NewModule (the mappers package does).
const (
	ModEmu Module = iota + 1
	ModCPU
	ModMem
	ModHwIo
	ModPPU
	ModDMA
	ModInput
	ModSound

	endStandardMods
)

var modCount = endStandardMods

var modDebugMask ModuleMask = 0

var disabled = false

var modNames = []string{
	"<error>", "emu", "cpu", "mem", "hwio", "ppu", "dma", "input", "sound",
}

func NewModule(name string) Module {
	mod := modCount
	modCount++
	modNames = append(modNames, name)
	return mod
}

func ModuleByName(name string) (Module, bool) {
	for idx, s := range modNames[1:] {
		if s == name {
			return Module(idx + 1), true
		}
	}
	return Module(0xFFFFFFFF), false
}

// ModuleNames returns the names of all registered modules.
func ModuleNames() []string {
	names := make([]string, len(modNames)-1)
	copy(names, modNames[1:])
	return names
}

func EnableDebugModules(mask ModuleMask) {
	modDebugMask |= mask
}

func DisableDebugModules(mask ModuleMask) {
	modDebugMask &^= mask
}

// Disable turns off all logging, whatever the level.
func Disable() {
	disabled = true
}

func (mod Module) Mask() ModuleMask {
	return 1 << ModuleMask(mod)
}

func (mod Module) Enabled(level Level) bool {
	if disabled {
		return false
	}
	return level <= WarnLevel || modDebugMask&mod.Mask() != 0
}

func (mod Module) Name() string {
	return modNames[mod]
}

// printf-like family, for the rare places where building an EntryZ is
// overkill.

func (mod Module) Debugf(format string, args ...any) {
	mod.logf(DebugLevel, format, args...)
}

func (mod Module) Infof(format string, args ...any) {
	mod.logf(InfoLevel, format, args...)
}

func (mod Module) Warnf(format string, args ...any) {
	mod.logf(WarnLevel, format, args...)
}

func (mod Module) Errorf(format string, args ...any) {
	mod.logf(ErrorLevel, format, args...)
}

func (mod Module) Fatalf(format string, args ...any) {
	mod.logf(FatalLevel, format, args...)
}

// Structured fast functions. Usage:
//
//	log.ModCPU.WarnZ("CPU halted").Hex16("PC", pc).End()
//
// A nil *EntryZ (module not enabled) is valid: all field methods and End
// are no-ops, so disabled modules cost a single mask test.

func (mod Module) logz(lvl Level, msg string) *EntryZ {
	if mod.Enabled(lvl) {
		e := newEntryZ()
		e.lvl = lvl
		e.msg = msg
		e.mod = mod
		return e
	}
	return nil
}

func (mod Module) DebugZ(msg string) *EntryZ { return mod.logz(DebugLevel, msg) }
func (mod Module) InfoZ(msg string) *EntryZ  { return mod.logz(InfoLevel, msg) }
func (mod Module) WarnZ(msg string) *EntryZ  { return mod.logz(WarnLevel, msg) }
func (mod Module) ErrorZ(msg string) *EntryZ { return mod.logz(ErrorLevel, msg) }
func (mod Module) FatalZ(msg string) *EntryZ { return mod.logz(FatalLevel, msg) }
func (mod Module) PanicZ(msg string) *EntryZ { return mod.logz(PanicLevel, msg) }
