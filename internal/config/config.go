package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type EventsCfg struct {
	Enabled bool
	Brokers string
	Topic   string
}

type Config struct {
	SkyServerURL   string
	SASURL         string
	Release        int
	QueryTimeout   time.Duration
	LogLevel       string
	LogConsole     bool
	RedisAddr      string
	CacheEnabled   bool
	CacheTTL       time.Duration
	CacheLRUSize   int
	CacheOpTimeout time.Duration
	Events         EventsCfg
}

func FromEnv() Config {
	return Config{
		SkyServerURL:   getenv("SKYSERVER_BASEURL", "http://skyserver.sdss.org"),
		SASURL:         getenv("SAS_BASEURL", "http://data.sdss3.org"),
		Release:        getint("DATA_RELEASE", 12),
		QueryTimeout:   getduration("QUERY_TIMEOUT", 60*time.Second),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogConsole:     getbool("LOG_CONSOLE", false),
		RedisAddr:      getenv("REDIS_ADDR", ""),
		CacheEnabled:   getbool("CACHE_ENABLED", true),
		CacheTTL:       getduration("CACHE_TTL_DEFAULT", 15*time.Minute),
		CacheLRUSize:   getint("CACHE_LRU_SIZE", 256),
		CacheOpTimeout: getduration("CACHE_OP_TIMEOUT", 250*time.Millisecond),
		Events: EventsCfg{
			Enabled: getbool("QUERY_EVENTS_ENABLED", false),
			Brokers: getenv("KAFKA_BROKERS", "localhost:9092"),
			Topic:   getenv("KAFKA_TOPIC", "skyquery-events"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
