package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// SaveParam is one (seconds, changes) snapshot rule (spec.md §3's dirty
// counter threshold, §6's save directive).
type SaveParam struct {
	Seconds int
	Changes int
}

var defaultSaveParams = []SaveParam{
	{3600, 1},
	{300, 100},
	{60, 10000},
}

// Config holds every directive spec.md §6 recognizes, defaulted the way
// initServer in original_source/redis.c defaults redisServer before
// loadServerConfig runs.
type Config struct {
	MaxIdleTime int
	Port        int
	BindAddr    string
	SaveParams  []SaveParam
	LogLevel    string
	LogFile     string
	Databases   int

	savedSeen bool // first `save` directive replaces the defaults
}

func defaultConfig() *Config {
	return &Config{
		MaxIdleTime: 300,
		Port:        6379,
		BindAddr:    "",
		SaveParams:  append([]SaveParam{}, defaultSaveParams...),
		LogLevel:    "notice",
		LogFile:     "stdout",
		Databases:   16,
	}
}

// configErr mirrors loadServerConfig's "loaderr:" label in
// original_source/redis.c: any bad directive is fatal with the line
// number and the offending line echoed back.
func configErr(path string, lineno int, line, reason string) error {
	return fmt.Errorf("%s:%d: %s (line: %q)", path, lineno, reason, line)
}

// LoadConfig reads the directive file at path, or returns the defaults
// untouched if path is empty (spec.md §6, "zero args uses defaults").
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open config file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		argv := strings.Fields(line)

		switch argv[0] {
		case "timeout":
			if len(argv) != 2 {
				return nil, configErr(path, lineno, line, "wrong number of arguments")
			}
			n, err := strconv.Atoi(argv[1])
			if err != nil || n < 1 {
				return nil, configErr(path, lineno, line, "invalid timeout value")
			}
			cfg.MaxIdleTime = n

		case "port":
			if len(argv) != 2 {
				return nil, configErr(path, lineno, line, "wrong number of arguments")
			}
			n, err := strconv.Atoi(argv[1])
			if err != nil || n < 1 || n > 65535 {
				return nil, configErr(path, lineno, line, "invalid port")
			}
			cfg.Port = n

		case "bind":
			if len(argv) != 2 {
				return nil, configErr(path, lineno, line, "wrong number of arguments")
			}
			cfg.BindAddr = argv[1]

		case "save":
			if len(argv) != 3 {
				return nil, configErr(path, lineno, line, "wrong number of arguments")
			}
			seconds, err1 := strconv.Atoi(argv[1])
			changes, err2 := strconv.Atoi(argv[2])
			if err1 != nil || err2 != nil || seconds < 1 || changes < 0 {
				return nil, configErr(path, lineno, line, "invalid save parameters")
			}
			if !cfg.savedSeen {
				cfg.SaveParams = nil
				cfg.savedSeen = true
			}
			cfg.SaveParams = append(cfg.SaveParams, SaveParam{Seconds: seconds, Changes: changes})

		case "dir":
			if len(argv) != 2 {
				return nil, configErr(path, lineno, line, "wrong number of arguments")
			}
			if err := os.Chdir(argv[1]); err != nil {
				return nil, fmt.Errorf("can't chdir to %q: %w", argv[1], err)
			}

		case "loglevel":
			if len(argv) != 2 {
				return nil, configErr(path, lineno, line, "wrong number of arguments")
			}
			switch argv[1] {
			case "debug", "notice", "warning":
				cfg.LogLevel = argv[1]
			default:
				return nil, configErr(path, lineno, line, "invalid log level, must be one of debug, notice, warning")
			}

		case "logfile":
			if len(argv) != 2 {
				return nil, configErr(path, lineno, line, "wrong number of arguments")
			}
			if argv[1] != "stdout" {
				probe, err := os.OpenFile(argv[1], os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err != nil {
					return nil, configErr(path, lineno, line, "can't open the log file: "+err.Error())
				}
				probe.Close()
			}
			cfg.LogFile = argv[1]

		case "databases":
			if len(argv) != 2 {
				return nil, configErr(path, lineno, line, "wrong number of arguments")
			}
			n, err := strconv.Atoi(argv[1])
			if err != nil || n < 1 {
				return nil, configErr(path, lineno, line, "invalid number of databases")
			}
			cfg.Databases = n

		default:
			return nil, configErr(path, lineno, line, "bad directive or wrong number of arguments")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return cfg, nil
}
