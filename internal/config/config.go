package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/inkboundsociety/fundraiser/internal/logger"
)

// Config holds all application configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	Campaign Campaign `yaml:"campaign"`
}

// Server holds settings for the HTTP server, the proxy and the totals poller.
type Server struct {
	Addr         string        `yaml:"addr"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
	// CacheTTL is how long a successful scrape is reused. Zero disables it.
	CacheTTL  time.Duration `yaml:"cache_ttl"`
	DataDir   string        `yaml:"data_dir"`
	StaticDir string        `yaml:"static_dir"`
	LogLevel  string        `yaml:"log_level"`
	// AllowedHosts restricts which hosts /api/gfm will fetch. Empty allows any.
	AllowedHosts []string `yaml:"allowed_hosts"`
	// Announce selects where milestone posts go: off, dry-run, twitter or telegram.
	Announce string `yaml:"announce"`
	// Milestones are the progress percentages announced. Empty uses 25/50/75/100.
	Milestones []int `yaml:"milestones"`
}

// Announce modes
const (
	AnnounceOff      = "off"
	AnnounceDryRun   = "dry-run"
	AnnounceTwitter  = "twitter"
	AnnounceTelegram = "telegram"
)

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load reads config from a YAML file on top of the defaults, then applies
// environment variable overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("FUNDRAISER_ADDR"); v != "" {
		c.Server.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("FUNDRAISER_DATA_DIR"); v != "" {
		c.Server.DataDir = v
	}
	if v := os.Getenv("FUNDRAISER_STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("FUNDRAISER_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("FUNDRAISER_EMBED_URL"); v != "" {
		c.Campaign.GoFundMe.EmbedURL = v
	}
	if v := os.Getenv("FUNDRAISER_ALLOWED_HOSTS"); v != "" {
		c.Server.AllowedHosts = splitList(v)
	}
	if v := os.Getenv("FUNDRAISER_ANNOUNCE"); v != "" {
		c.Server.Announce = v
	}
	if v := os.Getenv("FUNDRAISER_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FUNDRAISER_FETCH_TIMEOUT: %w", err)
		}
		c.Server.FetchTimeout = d
	}
	if v := os.Getenv("FUNDRAISER_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FUNDRAISER_CACHE_TTL: %w", err)
		}
		c.Server.CacheTTL = d
	}
	if v := os.Getenv("FUNDRAISER_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FUNDRAISER_POLL_INTERVAL: %w", err)
		}
		c.Server.PollInterval = d
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.FetchTimeout <= 0 {
		return fmt.Errorf("server.fetch_timeout must be positive")
	}
	if c.Server.PollInterval < time.Second {
		return fmt.Errorf("server.poll_interval must be at least 1s")
	}
	if c.Server.CacheTTL < 0 {
		return fmt.Errorf("server.cache_ttl must not be negative")
	}
	if _, err := logger.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("server.log_level: %w", err)
	}
	switch c.Server.Announce {
	case "", AnnounceOff, AnnounceDryRun, AnnounceTwitter, AnnounceTelegram:
	default:
		return fmt.Errorf("server.announce must be off, dry-run, twitter or telegram, got %q", c.Server.Announce)
	}
	for _, m := range c.Server.Milestones {
		if m <= 0 || m > 100 {
			return fmt.Errorf("server.milestones must be between 1 and 100, got %d", m)
		}
	}
	if err := requireAbsoluteURL("campaign.gofundme.embed_url", c.Campaign.GoFundMe.EmbedURL); err != nil {
		return err
	}
	if err := requireAbsoluteURL("campaign.gofundme.url", c.Campaign.GoFundMe.URL); err != nil {
		return err
	}
	if c.Campaign.Form.URL != "" {
		if err := requireAbsoluteURL("campaign.form.url", c.Campaign.Form.URL); err != nil {
			return err
		}
	}
	if len(c.Campaign.Totals.Currency) != 3 {
		return fmt.Errorf("campaign.totals.currency must be a 3-letter ISO code, got %q", c.Campaign.Totals.Currency)
	}
	if c.Campaign.Cause.Goal < 0 || c.Campaign.Cause.Raised < 0 {
		return fmt.Errorf("campaign.cause goal and raised must not be negative")
	}
	if !colorPattern.MatchString(c.Campaign.Brand.Primary) {
		return fmt.Errorf("campaign.brand.primary must be a hex colour, got %q", c.Campaign.Brand.Primary)
	}
	if !colorPattern.MatchString(c.Campaign.Brand.Accent) {
		return fmt.Errorf("campaign.brand.accent must be a hex colour, got %q", c.Campaign.Brand.Accent)
	}
	return nil
}

func requireAbsoluteURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", field, raw)
	}
	return nil
}

// HostAllowed reports whether the proxy may fetch rawURL.
func (s Server) HostAllowed(rawURL string) bool {
	if len(s.AllowedHosts) == 0 {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	for _, allowed := range s.AllowedHosts {
		if strings.EqualFold(host, allowed) {
			return true
		}
	}
	return false
}
