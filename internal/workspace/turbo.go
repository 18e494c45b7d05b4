package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tailscale/hujson"
)

// ConfigFileName is the name of the build configuration file.
const ConfigFileName = "turbo.json"

// TurboConfig is the subset of turbo.json that declares environment inputs.
// Both the 1.x "pipeline" key and the 2.x "tasks" key are read.
type TurboConfig struct {
	Extends              []string                  `json:"extends"`
	GlobalEnv            []string                  `json:"globalEnv"`
	GlobalPassThroughEnv []string                  `json:"globalPassThroughEnv"`
	GlobalDependencies   []string                  `json:"globalDependencies"`
	GlobalDotEnv         []string                  `json:"globalDotEnv"`
	Pipeline             map[string]TaskDefinition `json:"pipeline"`
	Tasks                map[string]TaskDefinition `json:"tasks"`
}

// TaskDefinition is one entry of pipeline/tasks.
type TaskDefinition struct {
	Env            []string `json:"env"`
	PassThroughEnv []string `json:"passThroughEnv"`
	DependsOn      []string `json:"dependsOn"`
	DotEnv         []string `json:"dotEnv"`
}

// AllTasks merges pipeline and tasks; tasks wins on a name clash.
func (c *TurboConfig) AllTasks() map[string]TaskDefinition {
	out := make(map[string]TaskDefinition, len(c.Pipeline)+len(c.Tasks))
	for name, def := range c.Pipeline {
		out[name] = def
	}
	for name, def := range c.Tasks {
		out[name] = def
	}
	return out
}

// ParseTurboConfig decodes turbo.json content. Comments and trailing commas
// are allowed.
func ParseTurboConfig(data []byte) (*TurboConfig, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONC: %w", err)
	}
	var cfg TurboConfig
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode: %w", err)
	}
	return &cfg, nil
}

// ReadTurboConfig reads and parses a turbo.json file.
func ReadTurboConfig(path string) (*TurboConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := ParseTurboConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// legacyEnv extracts the "$KEY" entries turbo 1.x accepted in
// globalDependencies and dependsOn.
func legacyEnv(entries []string) []string {
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(e, "$") && len(e) > 1 {
			out = append(out, e[1:])
		}
	}
	return out
}
