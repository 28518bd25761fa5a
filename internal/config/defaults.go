package config

import "time"

const (
	DefaultAddr         = ":3000"
	DefaultFetchTimeout = 10 * time.Second
	DefaultPollInterval = 60 * time.Second
	DefaultCacheTTL     = 30 * time.Second
	DefaultLogLevel     = "info"
	DefaultStaticDir    = "static"
)

// DefaultAllowedHosts limits the proxy to GoFundMe pages.
var DefaultAllowedHosts = []string{"www.gofundme.com", "gofundme.com", "gofund.me"}

// Default returns the built-in configuration for the Inkbound × Ash B round.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:         DefaultAddr,
			FetchTimeout: DefaultFetchTimeout,
			PollInterval: DefaultPollInterval,
			CacheTTL:     DefaultCacheTTL,
			LogLevel:     DefaultLogLevel,
			StaticDir:    DefaultStaticDir,
			AllowedHosts: append([]string(nil), DefaultAllowedHosts...),
			Announce:     AnnounceOff,
		},
		Campaign: Campaign{
			Totals: Totals{Amount: 0, Currency: "USD"},
			Brand: Brand{
				Name:    "Inkbound × Ash B",
				Primary: "#355e3b",
				Accent:  "#d4af37",
			},
			GoFundMe: GoFundMe{
				URL:      "https://gofund.me/b0a31fc33",
				EmbedURL: "https://www.gofundme.com/f/donate-to-restore-terrahs-independence/widget/large",
			},
			Form: Form{URL: "https://forms.gle/fja1KcQQ2mJc38Mx8"},
			Cause: Cause{
				Name:      "Current Creative — Community Relief",
				Title:     "Support Our Featured Indie Creator",
				Summary:   "We’re rallying the community to cover urgent costs so this member of the Indie Community can stay safe, stable, and keep creating.",
				Image:     "https://images.unsplash.com/photo-1516979187457-637abb4f9353?q=80&w=1974&auto=format&fit=crop",
				HeroImage: "https://images.unsplash.com/photo-1512820790803-83ca734da794?q=80&w=1974&auto=format&fit=crop",
				Impact: []string{
					"Covers immediate essentials (rent, groceries, utilities)",
					"Provides recovery time to get back on their feet",
					"Keeps indie work moving forward",
				},
				Goal:    7000,
				Raised:  0,
				DrawISO: "2025-10-20T20:00:00Z",
			},
			Featured: Featured{
				Name:  "Terrah Faire",
				Intro: "Hello! My name is Mille, and I started this fundraiser for my dear friend Terrah Faire. Terrah is facing severe health issues, and with her permission, I will share her story below.",
				Story: []string{
					"Terrah has lived for years with chronic, systemic disabilities and has been off her chronic medications for nearly a year after losing access to care.",
					"She had to medically retire her service dog early, and his understudy still struggles with public access. Getting him up to speed would greatly increase her independence again.",
				},
				Uses: []string{
					"Accessing necessary medications for Terrah.",
					"Seeing proper specialists for her chronic medical conditions.",
					"Travel and potential boarding to see proper specialists and treatments.",
					"Assistance with public access training for her service dog.",
				},
				Image:    "/static/doggo.webp",
				ImageAlt: "Terrah's service dog",
			},
			Prizes: []Prize{
				{Name: "Custom Character Art Voucher", By: "Ash B", Details: "One fully rendered character portrait (digital)", Value: "$TBC value"},
				{Name: "Website Audit or Mini Build", By: "Inkbound (Amanda)", Details: "Audit + action plan, or a 1–3 page mini-build", Value: "€TBC value"},
				{Name: "Editing Consultation", By: "Partner Editor", Details: "1-hour developmental consultation via Zoom", Value: "$TBC value"},
			},
			Past: []PastCampaign{
				{Name: "A", Total: 4200, Date: "2025-08-12", Image: "https://images.unsplash.com/photo-1519681393784-d120267933ba?q=80&w=1974&auto=format&fit=crop"},
				{Name: "B", Total: 3100, Date: "2025-06-03", Image: "https://images.unsplash.com/photo-1455884981818-54cb785db6fc?q=80&w=1974&auto=format&fit=crop"},
				{Name: "C", Total: 5200, Date: "2025-03-21", Image: "https://images.unsplash.com/photo-1495446815901-a7297e633e8d?q=80&w=1974&auto=format&fit=crop"},
			},
			Site: Site{
				Title:         "Inkbound × Ash B — Indie Relief Portal",
				Heading:       "Indie Relief Portal",
				Subtitle:      "Support indie creators fast and transparently. Donations go directly to GoFundMe. Digital raffle prizes make it global and instant.",
				Description:   "A transparent, digital fundraiser hub for indie creators. Donate via GoFundMe, confirm your entry, and see the impact grow.",
				OGTitle:       "Indie Relief Portal — Inkbound × Ash B",
				OGDescription: "Support indie creators fast and transparently. Donate on GoFundMe, confirm your entry, see live totals.",
				OGImage:       "https://inkboundsociety.com/og/indie-relief-portal.png",
				OGImageAlt:    "Indie Relief Portal banner",
				Logo:          "/static/logo.png",
				Contacts: []Contact{
					{Name: "Amanda", Handle: "@the.inkbound.society"},
					{Name: "Ash.B", Handle: "@reptilesandreads"},
				},
				TicketRule: "Every $10 = 1 ticket.",
			},
		},
	}
}
