package config

import (
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
)

// Flags holds parsed command-line flag values and which were set.
type Flags struct {
	Addr   string
	DB     string
	Config string
	Set    map[string]bool
}

// Effective is the merged runtime configuration: flags win over env, env
// wins over the config file.
type Effective struct {
	Config *Config
	Addr   string
	DBPath string
	// Sources lists which inputs contributed ("flags", "env", "config").
	Sources []string
}

// ParseFlags parses command-line flags and records which were set.
func ParseFlags() Flags {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./.board-db", "Pebble DB path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return Flags{Addr: *addrPtr, DB: *dbPtr, Config: *cfgPtr, Set: set}
}

// applyEnv overlays CALCBOARD_* environment variables onto cfg and
// reports whether any were present.
func applyEnv(cfg *Config) bool {
	used := false
	parseList := func(v string) []string {
		var parts []string
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				parts = append(parts, s)
			}
		}
		return parts
	}

	if v := os.Getenv("CALCBOARD_ADDR"); v != "" {
		used = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	}
	if v := os.Getenv("CALCBOARD_DB_PATH"); v != "" {
		used = true
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("CALCBOARD_LOG_LEVEL"); v != "" {
		used = true
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CALCBOARD_LOG_FORMAT"); v != "" {
		used = true
		cfg.Logging.Format = v
	}
	if v := os.Getenv("CALCBOARD_CORS_ORIGINS"); v != "" {
		used = true
		cfg.Security.CORS.AllowedOrigins = parseList(v)
	}
	if v := os.Getenv("CALCBOARD_RATE_RPS"); v != "" {
		used = true
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Security.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("CALCBOARD_RATE_BURST"); v != "" {
		used = true
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.RateLimit.Burst = n
		}
	}
	if v := os.Getenv("CALCBOARD_BACKUP_ENABLED"); v != "" {
		used = true
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes":
			cfg.Backup.Enabled = true
		default:
			cfg.Backup.Enabled = false
		}
	}
	if v := os.Getenv("CALCBOARD_BACKUP_CRON"); v != "" {
		used = true
		cfg.Backup.Cron = v
	}
	if v := os.Getenv("CALCBOARD_BACKUP_DIR"); v != "" {
		used = true
		cfg.Backup.Dir = v
	}
	return used
}

// LoadEffective merges the config file, environment and flags into the
// runtime configuration used by main.
func LoadEffective(flags Flags) (Effective, error) {
	eff := Effective{}
	cfg := &Config{}

	if c, err := Load(flags.Config); err == nil {
		cfg = c
		eff.Sources = append(eff.Sources, "config")
	} else if !os.IsNotExist(err) {
		return eff, err
	}

	if applyEnv(cfg) {
		eff.Sources = append(eff.Sources, "env")
	}

	addr := cfg.Addr()
	if flags.Set["addr"] {
		addr = flags.Addr
	}
	dbPath := cfg.Storage.DBPath
	if dbPath == "" || flags.Set["db"] {
		dbPath = flags.DB
	}
	if len(flags.Set) > 0 {
		eff.Sources = append(eff.Sources, "flags")
	}

	eff.Config = cfg
	eff.Addr = addr
	eff.DBPath = dbPath
	return eff, nil
}
