package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.SkyServerURL != "http://skyserver.sdss.org" {
		t.Fatalf("SkyServerURL = %q", cfg.SkyServerURL)
	}
	if cfg.Release != 12 {
		t.Fatalf("Release = %d", cfg.Release)
	}
	if cfg.QueryTimeout != 60*time.Second {
		t.Fatalf("QueryTimeout = %v", cfg.QueryTimeout)
	}
	if !cfg.CacheEnabled {
		t.Fatal("CacheEnabled default should be true")
	}
	if cfg.Events.Enabled {
		t.Fatal("Events.Enabled default should be false")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SKYSERVER_BASEURL", "http://mirror.test")
	t.Setenv("DATA_RELEASE", "16")
	t.Setenv("QUERY_TIMEOUT", "5s")
	t.Setenv("CACHE_ENABLED", "no")
	t.Setenv("QUERY_EVENTS_ENABLED", "yes")

	cfg := FromEnv()
	if cfg.SkyServerURL != "http://mirror.test" {
		t.Fatalf("SkyServerURL = %q", cfg.SkyServerURL)
	}
	if cfg.Release != 16 {
		t.Fatalf("Release = %d", cfg.Release)
	}
	if cfg.QueryTimeout != 5*time.Second {
		t.Fatalf("QueryTimeout = %v", cfg.QueryTimeout)
	}
	if cfg.CacheEnabled {
		t.Fatal("CacheEnabled override ignored")
	}
	if !cfg.Events.Enabled {
		t.Fatal("Events.Enabled override ignored")
	}
}

func TestFromEnvBadValuesFallBack(t *testing.T) {
	t.Setenv("DATA_RELEASE", "not-a-number")
	t.Setenv("QUERY_TIMEOUT", "soon")
	t.Setenv("CACHE_ENABLED", "maybe")

	cfg := FromEnv()
	if cfg.Release != 12 {
		t.Fatalf("Release = %d, want default", cfg.Release)
	}
	if cfg.QueryTimeout != 60*time.Second {
		t.Fatalf("QueryTimeout = %v, want default", cfg.QueryTimeout)
	}
	if !cfg.CacheEnabled {
		t.Fatal("CacheEnabled should fall back to default")
	}
}
