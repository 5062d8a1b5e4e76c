package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/oshokin/hermesx-build/internal/domain/buildver"
)

// Defaults used when a CI variable is not defined at all.
// A variable that is defined but empty keeps its empty value.
const (
	DefaultRunNumber     = "0"
	DefaultBuildLocation = "local"
)

// Environment is the process environment relevant to version resolution.
type Environment struct {
	// RunNumber identifies the CI run.
	RunNumber string `env:"GITHUB_RUN_NUMBER"`
	// BuildLocation labels the build host.
	BuildLocation string `env:"BUILD_LOCATION"`
	// DirtyMarker is appended to the commit hash of dirty trees when set.
	DirtyMarker string `env:"HERMESX_DIRTY_MARKER"`
}

// BuildContext returns the CI inputs of the environment.
func (e Environment) BuildContext() buildver.BuildContext {
	return buildver.BuildContext{
		RunNumber:     e.RunNumber,
		BuildLocation: e.BuildLocation,
	}
}

// LoadEnvironment parses the process environment. Variables from envFile fill
// in names the process environment does not define.
func LoadEnvironment(envFile string) (*Environment, error) {
	vars := environMap(os.Environ())

	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		if err != nil {
			return nil, fmt.Errorf("read env file: %w", err)
		}

		for key, value := range fileVars {
			if _, ok := vars[key]; !ok {
				vars[key] = value
			}
		}
	}

	return ParseEnvironment(vars)
}

// ParseEnvironment parses the given variables instead of the process environment.
func ParseEnvironment(vars map[string]string) (*Environment, error) {
	var cfg Environment

	//nolint:exhaustruct // Remaining options keep their env defaults.
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if _, ok := vars["GITHUB_RUN_NUMBER"]; !ok {
		cfg.RunNumber = DefaultRunNumber
	}

	if _, ok := vars["BUILD_LOCATION"]; !ok {
		cfg.BuildLocation = DefaultBuildLocation
	}

	return &cfg, nil
}

// environMap converts KEY=VALUE pairs into a map.
func environMap(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))

	for _, pair := range environ {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}

		vars[key] = value
	}

	return vars
}
