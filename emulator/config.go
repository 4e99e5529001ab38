package emulator

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/uvm/io"
)

// DumpConfig selects the memory dump written after a run.
type DumpConfig struct {
	Path  string `toml:"path"`
	Start int64  `toml:"start"`
	End   int64  `toml:"end"`
}

// Config is the uvm.toml run configuration.
//
//	verbose = true
//
//	[dump]
//	path = "dump.json"
//	start = 0
//	end = 255
//
//	[equates]
//	BASE = 100
//	PTR = "r1"
type Config struct {
	Verbose bool           `toml:"verbose"`
	Dump    DumpConfig     `toml:"dump"`
	Equates map[string]any `toml:"equates"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() (cfg *Config) {
	cfg = &Config{
		Dump: DumpConfig{
			Start: io.DUMP_START,
			End:   io.DUMP_END,
		},
	}
	return
}

// ParseConfig parses a TOML configuration. Unset values keep their
// defaults.
func ParseConfig(text string) (cfg *Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.Decode(text, cfg)
	if err == nil {
		err = cfg.check(md)
	}
	if err != nil {
		cfg = nil
	}

	return
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (cfg *Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err == nil {
		err = cfg.check(md)
	}
	if err != nil {
		cfg = nil
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

func (cfg *Config) check(md toml.MetaData) (err error) {
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for n, key := range undecoded {
			keys[n] = key.String()
		}
		err = fmt.Errorf("%w: %v", ErrConfigKey, strings.Join(keys, ", "))
		return
	}

	if cfg.Dump.Start > cfg.Dump.End {
		err = fmt.Errorf("%w: %v-%v", ErrConfigRange, cfg.Dump.Start, cfg.Dump.End)
		return
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.Equates)) {
		switch cfg.Equates[name].(type) {
		case int64, string:
		default:
			err = fmt.Errorf("%w: %v", ErrConfigEquate, name)
			return
		}
	}

	return
}

// Predefines returns the configured equates as assembler text.
func (cfg *Config) Predefines() (equates map[string]string) {
	equates = make(map[string]string, len(cfg.Equates))
	for name, value := range cfg.Equates {
		switch value := value.(type) {
		case int64:
			equates[name] = strconv.FormatInt(value, 10)
		case string:
			equates[name] = value
		}
	}

	return
}

// Apply the configuration to an emulator.
func (cfg *Config) Apply(emu *Emulator) {
	emu.Verbose = cfg.Verbose
	maps.Copy(emu.Predefine, cfg.Predefines())
}
