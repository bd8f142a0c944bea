package app

import (
	"errors"
	"flag"
)

type Config struct {
	DBPath     string
	FlightLogs bool
	Detections bool
	Verbose    bool
}

func NewConfig() *Config {
	return &Config{
		FlightLogs: true,
		Detections: true,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	flag.StringVar(&c.DBPath, "db", "", "Path to the database file")
	flag.BoolVar(&c.FlightLogs, "logs", true, "Include flight logs in the report")
	flag.BoolVar(&c.Detections, "detections", true, "Include detections in the report")
	flag.BoolVar(&c.Verbose, "verbose", false, "List every record instead of the summary only")
	flag.Parse()

	if c.DBPath == "" {
		flag.Usage()
		return nil, errors.New("db path is required")
	}

	return c, nil
}
