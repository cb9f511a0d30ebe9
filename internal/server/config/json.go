package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/flagx"
	"github.com/dmitrijs2005/stockkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. It uses timex.Duration
// for interval fields, which allows both "1h" and integer nanoseconds.
//
// After unmarshalling, non-zero fields are copied into the runtime Config.
// Pointer fields distinguish "absent" from an explicit empty/false value.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            *string        `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	StoreTimeout                timex.Duration `json:"store_timeout"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	PublicPaths                 []string       `json:"public_paths"`
	GRPCPublicMethods           []string       `json:"grpc_public_methods"`
	ExpiringWithin              timex.Duration `json:"expiring_within"`
	SeedDemoData                *bool          `json:"seed_demo_data"`
	LogBackend                  string         `json:"log_backend"`
	LogFormat                   string         `json:"log_format"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
}

// parseJson loads the file named by -c or -config in args and merges it into
// config. Without either flag nothing is loaded.
func parseJson(config *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFileFlag(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	if c.EndpointAddrGRPC != nil {
		config.EndpointAddrGRPC = *c.EndpointAddrGRPC
	}
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.StoreTimeout, c.StoreTimeout)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.PublicPaths != nil {
		config.PublicPaths = c.PublicPaths
	}
	if c.GRPCPublicMethods != nil {
		config.GRPCPublicMethods = c.GRPCPublicMethods
	}
	setDuration(&config.ExpiringWithin, c.ExpiringWithin)
	if c.SeedDemoData != nil {
		config.SeedDemoData = *c.SeedDemoData
	}
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
