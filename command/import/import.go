package cmdimport

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"rad-stats/connectors/config"
	"rad-stats/connectors/remote"
	"rad-stats/connectors/spreadsheet"
	dc "rad-stats/domain/config"
)

// Run executes the import subcommand: download every configured source into
// the data directory. Flags: -data overrides data_dir, -only restricts to a
// comma-separated list of source names.
func Run(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataDir := fs.String("data", "", "directory to download into (overrides data_dir)")
	only := fs.String("only", "", "comma-separated list of source names to fetch (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if len(cfg.Sources) == 0 {
		fmt.Fprintln(os.Stderr, "no sources configured; add a sources list to the config file (CONFIG_PATH)")
		slog.Error("import.validation.error", "reason", "no sources")
		return fmt.Errorf("no sources configured")
	}
	if cfg.GitHubToken == "" {
		slog.Info("import.auth.skip", "reason", "GITHUB_TOKEN not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return Import(ctx, cfg, remote.New(ctx, nil, cfg.GitHubToken), splitNames(*only))
}

func splitNames(s string) map[string]bool {
	names := map[string]bool{}
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names[n] = true
		}
	}
	return names
}

// Import downloads the sources selected by names (all when empty). A failed
// source is logged and the rest are still attempted; the joined error is returned.
func Import(ctx context.Context, cfg *dc.Config, client *remote.Client, names map[string]bool) error {
	slog.Info("import.start", "data", cfg.DataDir, "sources", len(cfg.Sources))
	var errs []error
	fetched := 0
	for _, src := range cfg.Sources {
		if len(names) > 0 && !names[src.Name] {
			continue
		}
		dest := spreadsheet.ResolvePath(cfg.DataDir, src.File)
		slog.Info("phase.source.fetch.start", "name", src.Name, "url", src.URL, "dest", dest)
		n, err := client.Download(ctx, src.URL, dest)
		if err != nil {
			slog.Error("phase.source.fetch.error", "name", src.Name, "url", src.URL, "error", err)
			errs = append(errs, fmt.Errorf("source %s: %w", src.Name, err))
			continue
		}
		fetched++
		slog.Info("phase.source.fetch.done", "name", src.Name, "bytes", n)
	}
	slog.Info("import.done", "fetched", fetched, "failed", len(errs))
	return errors.Join(errs...)
}
