package emu

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"famicore/emu/log"
	"famicore/hw/apu"
)

type Config struct {
	Video     VideoConfig     `toml:"video"`
	Audio     AudioConfig     `toml:"audio"`
	Input     InputConfig     `toml:"input"`
	Emulation EmulationConfig `toml:"emulation"`

	TraceOut io.WriteCloser `toml:"-"`
}

type VideoConfig struct {
	DisableVSync bool `toml:"disable_vsync"`
	ScaleFactor  int  `toml:"scale_factor"`
}

type AudioConfig struct {
	DisableAudio bool   `toml:"disable_audio"`
	SampleRate   uint32 `toml:"sample_rate"`
}

type InputConfig struct {
	// Keyboard bindings for the first controller, in shift register
	// reading order (A, B, Select, Start, Up, Down, Left, Right).
	Keys [8]string `toml:"keys"`
}

type EmulationConfig struct {
	PauseOnStart bool `toml:"pause_on_start"`
}

func defaultConfig() Config {
	return Config{
		Video: VideoConfig{ScaleFactor: 2},
		Audio: AudioConfig{SampleRate: DefaultSampleRate},
		Input: InputConfig{
			Keys: [8]string{"X", "Z", "Backspace", "Return", "Up", "Down", "Left", "Right"},
		},
	}
}

var ConfigDir string = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("famicore")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})()

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the famicore config
// directory, falling back to the default configuration if the file is
// missing or malformed.
func LoadConfigOrDefault() Config {
	cfg := defaultConfig()
	_, err := toml.DecodeFile(filepath.Join(ConfigDir, cfgFilename), &cfg)
	if err != nil {
		if !os.IsNotExist(err) {
			log.ModEmu.Warnf("ignoring config file: %v", err)
		}
		return defaultConfig()
	}
	if cfg.Audio.SampleRate == 0 || cfg.Audio.SampleRate > apu.MaxSampleRate {
		cfg.Audio.SampleRate = DefaultSampleRate
	}
	return cfg
}

// SaveConfig writes cfg into the famicore config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(ConfigDir, cfgFilename), buf, 0644)
}
