package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap is the root of the configuration tree loaded at startup.
// It is scanned once and never mutated afterwards.
type Bootstrap struct {
	Server   *Server   `json:"server"`
	Data     *Data     `json:"data"`
	Redirect *Redirect `json:"redirect"`
	Geo      *Geo      `json:"geo"`
	Log      *Log      `json:"log"`
}

type Server struct {
	Http *Server_HTTP `json:"http"`
}

type Server_HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

type Data struct {
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
}

type Data_Database struct {
	// Driver is "postgres" or "sqlite3".
	Driver       string `json:"driver"`
	Source       string `json:"source"`
	AutoMigrate  bool   `json:"auto_migrate"`
	MaxOpenConns int    `json:"max_open_conns"`
}

type Data_Redis struct {
	Addr         string   `json:"addr"`
	Password     string   `json:"password"`
	Db           int      `json:"db"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
}

// Redirect holds the settings the resolution engine reads.
type Redirect struct {
	Domain string `json:"domain"`
	// BlockedPaths is a ';' separated list of tokens that are never resolved.
	BlockedPaths string `json:"blocked_paths"`
	MarketingUrl string `json:"marketing_url"`
}

type Geo struct {
	// Provider is one of "ipstack", "geoip" or "none".
	Provider      string   `json:"provider"`
	IpstackApiKey string   `json:"ipstack_api_key"`
	Endpoint      string   `json:"endpoint"`
	DatabasePath  string   `json:"database_path"`
	Timeout       Duration `json:"timeout"`
	CacheTtl      Duration `json:"cache_ttl"`
	// DebugIp replaces the peer address for every lookup. Development only.
	DebugIp string `json:"debug_ip"`
}

type Log struct {
	Title string `json:"title"`
	Level string `json:"level"`
}

// Duration decodes "1.5s" style strings as well as integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		if value == "" {
			d.Duration = 0
			return nil
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// AsDuration mirrors durationpb so call sites read the same as generated config.
func (d Duration) AsDuration() time.Duration {
	return d.Duration
}
