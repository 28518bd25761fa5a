package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/inkboundsociety/fundraiser/internal/config"
	"github.com/inkboundsociety/fundraiser/internal/logger"
	"github.com/inkboundsociety/fundraiser/internal/notifier"
	"github.com/inkboundsociety/fundraiser/internal/page"
	"github.com/inkboundsociety/fundraiser/internal/poller"
	"github.com/inkboundsociety/fundraiser/internal/scraper"
	"github.com/inkboundsociety/fundraiser/internal/secrets"
	"github.com/inkboundsociety/fundraiser/internal/server"
	"github.com/inkboundsociety/fundraiser/internal/storage"
	"github.com/inkboundsociety/fundraiser/internal/totals"
	"github.com/inkboundsociety/fundraiser/internal/widget"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitNoTotals = 2
)

// SecretKeyEnv holds the passphrase for sealed credentials
const SecretKeyEnv = "FUNDRAISER_SECRET_KEY"

// errNoTotals signals a completed run that found no usable totals
var errNoTotals = errors.New("no totals found")

var (
	flagConfig   string
	flagEnvFile  string
	flagLogLevel string
	flagURL      string
	flagFormat   string
	flagVerbose  bool
	flagLive     bool
	flagProxy    string
	flagInterval time.Duration
	flagAnnounce string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fundraiser",
		Short: "Serve the Indie Relief fundraiser page",
		Long: `A single-page fundraiser site with live GoFundMe totals.
Serves the landing page, proxies the GoFundMe widget to read goal and raised
amounts, and keeps the displayed totals fresh.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "configs/campaign.yaml", "Campaign config file (YAML)")
	cmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Optional .env file")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	cmd.AddCommand(newServeCmd(), newTotalsCmd(), newRenderCmd(), newWatchCmd(), newSealCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server and totals poller",
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&flagAnnounce, "announce", "", "Milestone announcements: off, dry-run, twitter or telegram (overrides config)")
	return cmd
}

func newTotalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Scrape goal and raised once and print them",
		RunE:  runTotals,
	}
	cmd.Flags().StringVar(&flagURL, "url", "", "Widget URL (defaults to the configured embed URL)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Show page title and token count")
	return cmd
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the landing page HTML to stdout",
		RunE:  runRender,
	}
	cmd.Flags().BoolVar(&flagLive, "live", false, "Fetch totals once before rendering")
	return cmd
}

func newSealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seal <value>",
		Short: "Encrypt a credential with " + SecretKeyEnv + " for use in the environment",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeal,
	}
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll a running server's /api/gfm and print each update",
		RunE:  runWatch,
	}
	cmd.Flags().StringVar(&flagProxy, "proxy", "http://localhost:3000", "Base URL of a running fundraiser server")
	cmd.Flags().StringVar(&flagURL, "url", "", "Widget URL (defaults to the configured embed URL)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().DurationVar(&flagInterval, "interval", 0, "Poll interval (defaults to the configured interval)")
	return cmd
}

// loadConfig loads .env, the config file and env overrides, then sets up logging
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(flagEnvFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagLogLevel != "" {
		cfg.Server.LogLevel = flagLogLevel
	}
	if flagAnnounce != "" {
		cfg.Server.Announce = flagAnnounce
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(logger.New(level, os.Stderr))
	return cfg, nil
}

func parseFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

func widgetURL(cfg *config.Config) string {
	if u := strings.TrimSpace(flagURL); u != "" {
		return u
	}
	return cfg.Campaign.GoFundMe.EmbedURL
}

// newDisplay seeds the display from config, then from the stored snapshot if any
func newDisplay(cfg *config.Config, store *storage.Storage) *poller.Display {
	display := poller.NewDisplay(
		decimal.NewFromFloat(cfg.Campaign.Cause.Goal),
		decimal.NewFromFloat(cfg.Campaign.Cause.Raised),
	)
	if store == nil {
		return display
	}

	snap, err := store.Load()
	if err != nil {
		logger.Warn("ignoring stored totals", logger.Fields{"path": store.Path(), "error": err.Error()})
		return display
	}
	if snap != nil && snap.URL == cfg.Campaign.GoFundMe.EmbedURL {
		display.Restore(snap)
	}
	return display
}

func openStorage(cfg *config.Config) (*storage.Storage, error) {
	if cfg.Server.DataDir == "" {
		return nil, nil
	}
	store, err := storage.New(cfg.Server.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

func newRenderer(cfg *config.Config) (*page.Renderer, error) {
	embed, err := widget.New(cfg.Campaign.GoFundMe.EmbedURL)
	if err != nil {
		return nil, err
	}
	return page.New(cfg.Campaign, embed, cfg.Server.PollInterval)
}

// newAnnouncer builds the milestone announcer, or returns nil when announcements are off
func newAnnouncer(cfg *config.Config, out io.Writer) (*notifier.Announcer, error) {
	var n notifier.Notifier
	switch cfg.Server.Announce {
	case "", config.AnnounceOff:
		return nil, nil
	case config.AnnounceDryRun:
		n = notifier.NewDryRunNotifier(out)
	case config.AnnounceTwitter:
		creds, err := notifier.CredentialsFromEnv(secrets.NewSealer(os.Getenv(SecretKeyEnv)))
		if err != nil {
			return nil, fmt.Errorf("configuring twitter: %w", err)
		}
		n = notifier.NewTwitterNotifier(creds)
	case config.AnnounceTelegram:
		tg, err := notifier.TelegramFromEnv(secrets.NewSealer(os.Getenv(SecretKeyEnv)))
		if err != nil {
			return nil, fmt.Errorf("configuring telegram: %w", err)
		}
		n = tg
	default:
		return nil, fmt.Errorf("unknown announce mode %q", cfg.Server.Announce)
	}

	name := cfg.Campaign.Featured.Name
	if name == "" {
		name = cfg.Campaign.Brand.Name
	}
	return notifier.NewAnnouncer(n, name, cfg.Campaign.GoFundMe.URL, cfg.Server.Milestones), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	display := newDisplay(cfg, store)

	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	announcer, err := newAnnouncer(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	var source scraper.Fetcher = scraper.New(cfg.Server.FetchTimeout)
	if cfg.Server.CacheTTL > 0 {
		source = scraper.NewCache(source, cfg.Server.CacheTTL)
	}
	opts := []poller.Option{}
	if store != nil {
		opts = append(opts, poller.WithSaver(store))
	}
	if announcer != nil {
		if state := display.Current(); state.Live {
			announcer.Prime(state.Goal, state.Raised)
		}
		opts = append(opts, poller.WithOnUpdate(func(s poller.State) {
			if err := announcer.Observe(s.Goal, s.Raised, s.CurrencySymbol); err != nil {
				logger.Error("announcing milestone", nil, err)
			}
		}))
	}
	p := poller.New(source, cfg.Campaign.GoFundMe.EmbedURL, display, cfg.Server.PollInterval, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := p.Start(ctx); err != nil {
		return err
	}
	defer p.Stop()

	handlers := server.NewHandlers(cfg, source, renderer, display)
	return server.Serve(ctx, cfg.Server.Addr, server.NewRouter(handlers, cfg.Server.StaticDir))
}

func runTotals(cmd *cobra.Command, args []string) error {
	format, err := parseFormat()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	target := widgetURL(cfg)
	if flagVerbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Fetching totals from %s\n", target)
	}

	sc := scraper.New(cfg.Server.FetchTimeout)
	result := &OutputResult{CheckedAt: time.Now().UTC(), URL: target}

	body, err := sc.Fetch(cmd.Context(), target)
	if err != nil {
		result.SetTotals(totals.Failure(err.Error()))
	} else {
		result.SetTotals(totals.Parse(body))
		result.Title = scraper.PageTitle(body)
		result.TokenCount = len(totals.Extract(body))
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if !result.OK {
		return errNoTotals
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	display := newDisplay(cfg, store)

	if flagLive {
		sc := scraper.New(cfg.Server.FetchTimeout)
		display.Apply(sc.FetchTotals(cmd.Context(), cfg.Campaign.GoFundMe.EmbedURL), time.Now().UTC())
	}

	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	state := display.Current()
	return renderer.Render(cmd.OutOrStdout(), page.Totals{Goal: state.Goal, Raised: state.Raised, Live: state.Live})
}

func runWatch(cmd *cobra.Command, args []string) error {
	format, err := parseFormat()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	interval := flagInterval
	if interval <= 0 {
		interval = cfg.Server.PollInterval
	}
	target := widgetURL(cfg)
	out := cmd.OutOrStdout()

	client := poller.NewProxyClient(flagProxy, cfg.Server.FetchTimeout+5*time.Second)
	display := poller.NewDisplay(decimal.NewFromFloat(cfg.Campaign.Cause.Goal), decimal.NewFromFloat(cfg.Campaign.Cause.Raised))
	p := poller.New(client, target, display, interval, poller.WithOnUpdate(func(s poller.State) {
		result := &OutputResult{CheckedAt: s.UpdatedAt, URL: target}
		result.SetState(s)
		if err := WriteOutput(out, result, format, false); err != nil {
			logger.Error("writing watch output", nil, err)
		}
	}))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := p.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	p.Stop()
	return nil
}

func runSeal(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(flagEnvFile); err != nil {
		return err
	}
	sealer := secrets.NewSealer(os.Getenv(SecretKeyEnv))
	if sealer == nil {
		return fmt.Errorf("%s must be set", SecretKeyEnv)
	}

	sealed, err := sealer.Seal(args[0])
	if err != nil {
		return fmt.Errorf("sealing value: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sealed)
	return nil
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	switch {
	case err == nil:
		os.Exit(ExitSuccess)
	case errors.Is(err, errNoTotals):
		os.Exit(ExitNoTotals)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
