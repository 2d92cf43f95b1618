package main

import "gopkg.in/gcfg.v1"

// Config is the optional INI-format config file, e.g.:
//
//	[Server]
//	Addr = 0.0.0.0:8080
//	Workers = 8
type Config struct {
	Addr    string
	Workers int
}

type configWrapper struct {
	Server struct {
		Addr    string
		Workers int
	}
}

// LoadConfig reads an INI config file via gcfg, matching the teacher
// lineage's config-file convention for long-running services.
func LoadConfig(path string) (Config, error) {
	var wrapper configWrapper
	if err := gcfg.ReadFileInto(&wrapper, path); err != nil {
		return Config{}, err
	}

	cfg := Config{Addr: wrapper.Server.Addr, Workers: wrapper.Server.Workers}
	if cfg.Addr == "" {
		cfg.Addr = "0.0.0.0:8080"
	}
	return cfg, nil
}
