package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/example/snapmark/internal/output"
)

// pruneCmd removes stale working files left behind by editor sessions that
// never saved.
type pruneCmd struct {
	maxAgeHours int
	*root
	fs *flag.FlagSet
}

func parsePruneCmd(args []string, r *root) (*pruneCmd, error) {
	fs := flag.NewFlagSet("prune", flag.ExitOnError)
	p := &pruneCmd{root: r, fs: fs}
	fs.Usage = usageFunc(p)
	fs.IntVar(&p.maxAgeHours, "max-age", r.config.Output.PruneMaxAgeHours, "remove working files older than this many hours")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: p}
	}
	if p.maxAgeHours <= 0 {
		return nil, fmt.Errorf("max-age must be positive")
	}
	return p, nil
}

func (p *pruneCmd) Run() error {
	var opts []output.StorageOption
	if dir := strings.TrimSpace(p.root.config.Output.TempDir); dir != "" {
		opts = append(opts, output.WithTempDir(dir))
	}
	storage := output.NewStorage(opts...)
	removed, err := storage.PruneStale(time.Duration(p.maxAgeHours) * time.Hour)
	if err != nil {
		return fmt.Errorf("prune working files: %w", err)
	}
	fmt.Fprintf(os.Stderr, "removed %d stale working file(s)\n", removed)
	return nil
}

func (p *pruneCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func (p *pruneCmd) Template() string {
	return "prune.txt"
}
