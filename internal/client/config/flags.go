package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the REST API
//	-t int      request timeout in seconds
//	-o string   export directory
func parseFlags(cfg *Config, args []string) error {
	// Filter args to include only those handled here.
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.ExportDir, "o", cfg.ExportDir, "directory for exported files")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
