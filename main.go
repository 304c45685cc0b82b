package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"rad-stats/command/calculate"
	cmdimport "rad-stats/command/import"
	"rad-stats/command/web"
)

// Radiologist productivity (SAPI) reporting from schedule, billing and benchmark spreadsheets.
// Usage:
//   rad-stats import [-data ./data] [-only schedule,encounters]
//   rad-stats calculate [-data ./data] [-out ./data] [-provider NAME] [-from YYYY-MM-DD] [-to YYYY-MM-DD]
//   rad-stats web [-addr :8080] [-data ./data] [-ui ./ui/dist]
// Notes:
// - CONFIG_PATH points to the YAML config (default ./config.yml); a missing file means defaults.
// - LOG_LEVEL=debug shows cache hits and per-phase detail.

func main() {
	args := os.Args
	// Initialize slog logger (text to stderr)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(os.Getenv("LOG_LEVEL"))})
	slog.SetDefault(slog.New(h))

	if len(args) > 1 {
		sub := args[1]
		rest := append([]string{}, args[2:]...)
		var run func([]string) error
		switch sub {
		case "import":
			run = cmdimport.Run
		case "calculate":
			run = calculate.Run
		case "web":
			run = web.Run
		}
		if run != nil {
			if err := run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}
	fmt.Fprintln(os.Stderr, "usage: rad-stats import [-only <names>] | calculate [-provider <name>] [-from <date>] [-to <date>] | web [-addr :8080] [-data ./data]\nENV: set CONFIG_PATH to point to a YAML config file (default ./config.yml)")
	os.Exit(2)
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
