package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_http":             ":9000",
		"endpoint_addr_grpc":             "",
		"database_dsn":                   "postgres://db",
		"secret_key":                     testSecret,
		"access_token_validity_duration": "30m",
		"store_timeout":                  float64(2 * time.Second),
		"public_paths":                   []string{"/only"},
		"seed_demo_data":                 true,
		"s3_bucket":                      "bucket",
	})

	t.Run("loads from json over defaults", func(t *testing.T) {
		var c Config
		c.LoadDefaults()
		require.NoError(t, parseJson(&c, []string{"-config", path}))

		assert.Equal(t, ":9000", c.EndpointAddrHTTP)
		assert.Equal(t, "", c.EndpointAddrGRPC, "explicit empty disables grpc")
		assert.Equal(t, "postgres://db", c.DatabaseDSN)
		assert.Equal(t, testSecret, c.SecretKey)
		assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
		assert.Equal(t, 2*time.Second, c.StoreTimeout)
		assert.Equal(t, []string{"/only"}, c.PublicPaths)
		assert.True(t, c.SeedDemoData)
		assert.Equal(t, "bucket", c.S3Bucket)
		// absent keys keep defaults
		assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
		assert.Equal(t, DefaultGRPCPublicMethods(), c.GRPCPublicMethods)
		assert.Equal(t, "us-east-1", c.S3Region)
	})

	t.Run("no flag loads nothing", func(t *testing.T) {
		var c Config
		c.LoadDefaults()
		require.NoError(t, parseJson(&c, []string{"-a", ":1"}))
		assert.Equal(t, ":8084", c.EndpointAddrHTTP)
	})

	t.Run("missing file", func(t *testing.T) {
		var c Config
		require.Error(t, parseJson(&c, []string{"-c", filepath.Join(t.TempDir(), "nope.json")}))
	})

	t.Run("invalid json", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(p, []byte("{"), 0o600))
		var c Config
		require.Error(t, parseJson(&c, []string{"-c", p}))
	})

	t.Run("invalid duration", func(t *testing.T) {
		p := writeTempJSON(t, "", "", map[string]any{"store_timeout": "soon"})
		var c Config
		require.Error(t, parseJson(&c, []string{"-c", p}))
	})
}
