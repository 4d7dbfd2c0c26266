package main

import (
	"flag"
	"log"
	"os"
	"strconv"
)

// RunnerConfig holds the simulator configuration
type RunnerConfig struct {
	PuzzleFile     string
	SolutionFile   string
	MaxCycles      int
	CollisionSteps int
	LogLevel       string
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*RunnerConfig, string)
}

// loadRunnerConfig loads simulator configuration from CLI flags and
// environment variables. Uses a resolver pattern to make it easy to
// add new configuration options.
func loadRunnerConfig() RunnerConfig {
	cfg := RunnerConfig{}

	intSetter := func(name string, fallback int, dst func(*RunnerConfig, int)) func(*RunnerConfig, string) {
		return func(c *RunnerConfig, v string) {
			if val, err := strconv.Atoi(v); err == nil {
				dst(c, val)
			} else {
				log.Printf("Invalid value for %s: %s, using default %d", name, v, fallback)
				dst(c, fallback)
			}
		}
	}

	// Define all configuration resolvers
	// To add a new option, just add a new resolver here
	resolvers := []configResolver{
		{
			flagName:    "puzzle",
			envVarName:  "ALCHESIM_PUZZLE",
			defaultVal:  "",
			description: "path to the puzzle file (required)",
			setter:      func(c *RunnerConfig, v string) { c.PuzzleFile = v },
		},
		{
			flagName:    "solution",
			envVarName:  "ALCHESIM_SOLUTION",
			defaultVal:  "",
			description: "path to the solution file (required)",
			setter:      func(c *RunnerConfig, v string) { c.SolutionFile = v },
		},
		{
			flagName:    "max-cycles",
			envVarName:  "ALCHESIM_MAX_CYCLES",
			defaultVal:  "0",
			description: "cycle bound before an unfinished run fails; 0 uses the engine default",
			setter:      intSetter("max-cycles", 0, func(c *RunnerConfig, v int) { c.MaxCycles = v }),
		},
		{
			flagName:    "collision-steps",
			envVarName:  "ALCHESIM_COLLISION_STEPS",
			defaultVal:  "0",
			description: "collision sampling steps per cycle; 0 uses the engine default",
			setter:      intSetter("collision-steps", 0, func(c *RunnerConfig, v int) { c.CollisionSteps = v }),
		},
		{
			flagName:    "log-level",
			envVarName:  "ALCHESIM_LOG_LEVEL",
			defaultVal:  "info",
			description: "log level (debug, info, warn, error)",
			setter:      func(c *RunnerConfig, v string) { c.LogLevel = v },
		},
	}

	// Register flags
	flagValues := make([]*string, len(resolvers))
	for i, r := range resolvers {
		flagValues[i] = flag.String(r.flagName, "", r.description)
	}
	flag.Parse()

	// Resolve each value: flag > env var > default
	for i, r := range resolvers {
		value := *flagValues[i]
		if value == "" {
			value = os.Getenv(r.envVarName)
		}
		if value == "" {
			value = r.defaultVal
		}
		r.setter(&cfg, value)
	}

	return cfg
}
