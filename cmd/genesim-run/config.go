package main

import (
	"flag"
	"log"
	"os"
	"strconv"
)

// RunConfig holds the runner configuration
type RunConfig struct {
	ModelFile  string
	Horizon    float64
	Interval   float64
	Seed       int64
	Replicates int
	OutputFile string
	SQLitePath string
	StreamAddr string
	WebhookURL string
	LogLevel   string
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*RunConfig, string)
}

func floatSetter(name string, assign func(*RunConfig, float64)) func(*RunConfig, string) {
	return func(c *RunConfig, v string) {
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Printf("Invalid value for %s: %s, ignoring", name, v)
			return
		}
		assign(c, val)
	}
}

func intSetter(name string, assign func(*RunConfig, int64)) func(*RunConfig, string) {
	return func(c *RunConfig, v string) {
		val, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Printf("Invalid value for %s: %s, ignoring", name, v)
			return
		}
		assign(c, val)
	}
}

// runResolvers lists every configuration option. To add a new option, just
// add a new resolver here.
func runResolvers() []configResolver {
	return []configResolver{
		{
			flagName:    "model-file",
			envVarName:  "GENESIM_MODEL_FILE",
			defaultVal:  "",
			description: "path to a JSON model config file (required)",
			setter:      func(c *RunConfig, v string) { c.ModelFile = v },
		},
		{
			flagName:    "horizon",
			envVarName:  "GENESIM_HORIZON",
			defaultVal:  "60",
			description: "simulated time horizon in seconds",
			setter:      floatSetter("horizon", func(c *RunConfig, v float64) { c.Horizon = v }),
		},
		{
			flagName:    "interval",
			envVarName:  "GENESIM_INTERVAL",
			defaultVal:  "1",
			description: "sampling interval in simulated seconds",
			setter:      floatSetter("interval", func(c *RunConfig, v float64) { c.Interval = v }),
		},
		{
			flagName:    "seed",
			envVarName:  "GENESIM_SEED",
			defaultVal:  "0",
			description: "random seed override; 0 keeps the model file's seed",
			setter:      intSetter("seed", func(c *RunConfig, v int64) { c.Seed = v }),
		},
		{
			flagName:    "replicates",
			envVarName:  "GENESIM_REPLICATES",
			defaultVal:  "1",
			description: "number of independent replicate runs",
			setter:      intSetter("replicates", func(c *RunConfig, v int64) { c.Replicates = int(v) }),
		},
		{
			flagName:    "output",
			envVarName:  "GENESIM_OUTPUT",
			defaultVal:  "counts.tsv",
			description: "TSV output path; \"-\" writes to stdout",
			setter:      func(c *RunConfig, v string) { c.OutputFile = v },
		},
		{
			flagName:    "sqlite",
			envVarName:  "GENESIM_SQLITE",
			defaultVal:  "",
			description: "optional SQLite results database path",
			setter:      func(c *RunConfig, v string) { c.SQLitePath = v },
		},
		{
			flagName:    "stream-addr",
			envVarName:  "GENESIM_STREAM_ADDR",
			defaultVal:  "",
			description: "optional address to serve the live WebSocket snapshot stream (e.g. :8080)",
			setter:      func(c *RunConfig, v string) { c.StreamAddr = v },
		},
		{
			flagName:    "webhook-url",
			envVarName:  "GENESIM_WEBHOOK_URL",
			defaultVal:  "",
			description: "optional webhook URL receiving each snapshot batch",
			setter:      func(c *RunConfig, v string) { c.WebhookURL = v },
		},
		{
			flagName:    "log-level",
			envVarName:  "GENESIM_LOG_LEVEL",
			defaultVal:  "info",
			description: "log level: debug, info, warn, error",
			setter:      func(c *RunConfig, v string) { c.LogLevel = v },
		},
	}
}

// loadRunConfig loads runner configuration from CLI flags and environment
// variables. Flags win over environment variables, which win over defaults.
func loadRunConfig(fs *flag.FlagSet, args []string) (RunConfig, error) {
	cfg := RunConfig{}
	resolvers := runResolvers()

	values := make([]*string, len(resolvers))
	for i, r := range resolvers {
		defaultVal := r.defaultVal
		if env := os.Getenv(r.envVarName); env != "" {
			defaultVal = env
		}
		values[i] = fs.String(r.flagName, defaultVal, r.description)
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	for i, r := range resolvers {
		r.setter(&cfg, *values[i])
	}
	return cfg, nil
}
