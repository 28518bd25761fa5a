package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak
// into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FUNDRAISER_ADDR", "PORT", "FUNDRAISER_DATA_DIR", "FUNDRAISER_STATIC_DIR",
		"FUNDRAISER_LOG_LEVEL", "FUNDRAISER_EMBED_URL", "FUNDRAISER_ALLOWED_HOSTS",
		"FUNDRAISER_FETCH_TIMEOUT", "FUNDRAISER_POLL_INTERVAL", "FUNDRAISER_ANNOUNCE",
		"FUNDRAISER_CACHE_TTL",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Server.PollInterval != 60*time.Second {
		t.Errorf("PollInterval = %v, want 60s", cfg.Server.PollInterval)
	}
	if cfg.Server.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", cfg.Server.CacheTTL, DefaultCacheTTL)
	}
	if cfg.Campaign.Cause.Goal != 7000 {
		t.Errorf("Cause.Goal = %v, want 7000", cfg.Campaign.Cause.Goal)
	}
	if len(cfg.Campaign.Prizes) != 3 {
		t.Errorf("len(Prizes) = %d, want 3", len(cfg.Campaign.Prizes))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "campaign.yaml", `
server:
  addr: ":8080"
  fetch_timeout: 5s
  poll_interval: 2m
  allowed_hosts: ["widgets.example.org"]
campaign:
  totals:
    currency: GBP
  brand:
    name: Test Brand
    primary: "#000000"
    accent: "#ffffff"
  cause:
    goal: 12000
    raised: 4000
  prizes:
    - name: Only Prize
      by: Someone
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.FetchTimeout != 5*time.Second {
		t.Errorf("FetchTimeout = %v, want 5s", cfg.Server.FetchTimeout)
	}
	if cfg.Server.PollInterval != 2*time.Minute {
		t.Errorf("PollInterval = %v, want 2m", cfg.Server.PollInterval)
	}
	if cfg.Campaign.Totals.Currency != "GBP" {
		t.Errorf("Currency = %q, want GBP", cfg.Campaign.Totals.Currency)
	}
	if cfg.Campaign.Cause.Goal != 12000 || cfg.Campaign.Cause.Raised != 4000 {
		t.Errorf("Cause goal/raised = %v/%v, want 12000/4000", cfg.Campaign.Cause.Goal, cfg.Campaign.Cause.Raised)
	}
	if len(cfg.Campaign.Prizes) != 1 || cfg.Campaign.Prizes[0].Name != "Only Prize" {
		t.Errorf("Prizes = %+v, want the single configured prize", cfg.Campaign.Prizes)
	}
	// Untouched fields keep their defaults.
	if cfg.Campaign.GoFundMe.EmbedURL == "" {
		t.Error("EmbedURL lost its default")
	}
	if cfg.Campaign.Cause.Title == "" {
		t.Error("Cause.Title lost its default")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "bad.yaml", "server: [unclosed")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("Load() error = %v, want parse config error", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("FUNDRAISER_DATA_DIR", "/tmp/fundraiser")
	t.Setenv("FUNDRAISER_EMBED_URL", "https://www.gofundme.com/f/other/widget/large")
	t.Setenv("FUNDRAISER_FETCH_TIMEOUT", "3s")
	t.Setenv("FUNDRAISER_POLL_INTERVAL", "30s")
	t.Setenv("FUNDRAISER_ALLOWED_HOSTS", "a.example.com, b.example.com")
	t.Setenv("FUNDRAISER_ANNOUNCE", "dry-run")
	t.Setenv("FUNDRAISER_CACHE_TTL", "0s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Server.DataDir != "/tmp/fundraiser" {
		t.Errorf("DataDir = %q", cfg.Server.DataDir)
	}
	if !strings.Contains(cfg.Campaign.GoFundMe.EmbedURL, "/f/other/") {
		t.Errorf("EmbedURL = %q", cfg.Campaign.GoFundMe.EmbedURL)
	}
	if cfg.Server.FetchTimeout != 3*time.Second {
		t.Errorf("FetchTimeout = %v, want 3s", cfg.Server.FetchTimeout)
	}
	if cfg.Server.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v, want 30s", cfg.Server.PollInterval)
	}
	if len(cfg.Server.AllowedHosts) != 2 || cfg.Server.AllowedHosts[1] != "b.example.com" {
		t.Errorf("AllowedHosts = %v", cfg.Server.AllowedHosts)
	}
	if cfg.Server.Announce != AnnounceDryRun {
		t.Errorf("Announce = %q, want dry-run", cfg.Server.Announce)
	}
	if cfg.Server.CacheTTL != 0 {
		t.Errorf("CacheTTL = %v, want 0", cfg.Server.CacheTTL)
	}
}

func TestLoad_AddrTakesPrecedenceOverPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("FUNDRAISER_ADDR", "127.0.0.1:4000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:4000" {
		t.Errorf("Addr = %q, want 127.0.0.1:4000", cfg.Server.Addr)
	}
}

func TestLoad_InvalidDurationEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("FUNDRAISER_FETCH_TIMEOUT", "soon")

	if _, err := Load(""); err == nil {
		t.Error("Load() expected error for invalid duration")
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("LoadDotEnv(missing) error = %v", err)
	}

	path := writeFile(t, ".env", "FUNDRAISER_LOG_LEVEL=debug\n")
	// An empty value counts as set, so unset it for godotenv to fill in.
	os.Unsetenv("FUNDRAISER_LOG_LEVEL")
	defer os.Unsetenv("FUNDRAISER_LOG_LEVEL")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.Server.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"zero timeout", func(c *Config) { c.Server.FetchTimeout = 0 }, "fetch_timeout"},
		{"tiny interval", func(c *Config) { c.Server.PollInterval = 10 * time.Millisecond }, "poll_interval"},
		{"negative cache ttl", func(c *Config) { c.Server.CacheTTL = -time.Second }, "cache_ttl"},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "loud" }, "log_level"},
		{"relative embed url", func(c *Config) { c.Campaign.GoFundMe.EmbedURL = "/widget" }, "embed_url"},
		{"bad currency", func(c *Config) { c.Campaign.Totals.Currency = "DOLLARS" }, "currency"},
		{"negative goal", func(c *Config) { c.Campaign.Cause.Goal = -1 }, "negative"},
		{"bad colour", func(c *Config) { c.Campaign.Brand.Primary = "green;}" }, "brand.primary"},
		{"empty form url allowed", func(c *Config) { c.Campaign.Form.URL = "" }, ""},
		{"dry-run announce", func(c *Config) { c.Server.Announce = AnnounceDryRun }, ""},
		{"unknown announce", func(c *Config) { c.Server.Announce = "carrier-pigeon" }, "server.announce"},
		{"milestone over 100", func(c *Config) { c.Server.Milestones = []int{50, 150} }, "server.milestones"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestHostAllowed(t *testing.T) {
	s := Server{AllowedHosts: DefaultAllowedHosts}

	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.gofundme.com/f/x/widget/large", true},
		{"https://WWW.GOFUNDME.COM/f/x", true},
		{"https://gofund.me/b0a31fc33", true},
		{"https://www.gofundme.com:443/f/x", true},
		{"https://evil.example.com/f/x", false},
		{"http://169.254.169.254/latest/meta-data", false},
		{"::not a url", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := s.HostAllowed(tt.url); got != tt.want {
				t.Errorf("HostAllowed(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}

	open := Server{}
	if !open.HostAllowed("https://anything.example.com") {
		t.Error("empty AllowedHosts should allow any host")
	}
}
