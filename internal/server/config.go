package server

import "github.com/ihorxshdy/aeromar/internal/planner"

// Config is the YAML-backed server configuration.
type Config struct {
	Server struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`

	Planner planner.Rules `yaml:"planner"`

	Data struct {
		FlightsFile   string `yaml:"flights_file"`
		DriversFile   string `yaml:"drivers_file"`
		ShiftsFile    string `yaml:"shifts_file"`
		AutoliftsFile string `yaml:"autolifts_file"`
	} `yaml:"data"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.Listen = ":8080"
	cfg.Planner = planner.DefaultRules()
	return cfg
}

// normalize fills in zero values an edited config file may have dropped.
func (c *Config) normalize() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	def := planner.DefaultRules()
	if c.Planner.MinGap == 0 {
		c.Planner.MinGap = def.MinGap
	}
	if c.Planner.MaxGap == 0 {
		c.Planner.MaxGap = def.MaxGap
	}
	if c.Planner.MaxSpan == 0 {
		c.Planner.MaxSpan = def.MaxSpan
	}
	if c.Planner.ChainMinGap == 0 {
		c.Planner.ChainMinGap = def.ChainMinGap
	}
	if c.Planner.ChainMaxGap == 0 {
		c.Planner.ChainMaxGap = def.ChainMaxGap
	}
}
