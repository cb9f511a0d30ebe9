package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-d", "-s", "-t", "-l", "-f", "-seed", "-u", "-p", "-b", "-r", "-e"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8084")
//	-g string   gRPC bind address (e.g., ":50051"), empty disables gRPC
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-l string   log backend (slog|zerolog)
//	-f string   log format (json|text)
//	-seed       seed demo items into an empty inventory
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-r string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// args are filtered with flagx.FilterArgs first, so flags owned by other
// components (-c/-config) do not cause parse errors.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("stockkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to run the gRPC server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend (slog|zerolog)")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (json|text)")
	fs.BoolVar(&config.SeedDemoData, "seed", config.SeedDemoData, "seed demo inventory")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Only override when given: minutes would truncate sub-minute values from other layers.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		}
	})
	return nil
}
