package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/flagx"
	"github.com/dmitrijs2005/stockkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "5s" or as integer nanoseconds.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	ExportDir      string         `json:"export_dir"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag nothing changes. Only fields present
// in the file are copied.
func parseJson(cfg *Config, args []string) error {
	// Resolve file path from flags.
	jsonConfigFile := flagx.ConfigFileFlag(args)
	if jsonConfigFile == "" {
		return nil
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.ExportDir != "" {
		cfg.ExportDir = jc.ExportDir
	}
	return nil
}
