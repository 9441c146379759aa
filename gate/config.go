package gate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlRuntimeConfig is the on-disk shape of a RuntimeConfig: Mode is
// textual, Clock is never serialized (LoadRuntimeConfig always wires the
// wall-clock ClockFn, matching the teacher's pattern of config structs
// carrying only serializable fields while runtime-only dependencies are
// injected by the loader).
type yamlRuntimeConfig struct {
	Mode string `yaml:"mode"`
}

// LoadRuntimeConfig reads a YAML-encoded RuntimeConfig from path, the way
// policy.Loader reads YAML policy documents. The returned config's Clock
// is always the real wall clock; callers that need a fixed clock (tests)
// should set RuntimeConfig.Clock directly instead of using this loader.
func LoadRuntimeConfig(path string) (RuntimeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuntimeConfig{}, fmt.Errorf("gate: reading config %s: %w", path, err)
	}

	var raw yamlRuntimeConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return RuntimeConfig{}, fmt.Errorf("gate: parsing config %s: %w", path, err)
	}

	cfg := RuntimeConfig{
		Mode:  Mode(raw.Mode),
		Clock: wallClock,
	}
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, fmt.Errorf("gate: invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// wallClock is the production ClockFn: wraps time.Now in a package
// function so it's the single call site excluded from determinism
// requirements (everything downstream of Process takes a ClockFn, never
// time.Now directly).
func wallClock() int64 {
	return nowUnix()
}
