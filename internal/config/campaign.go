package config

// Campaign is the static, read-only content of the fundraiser page.
type Campaign struct {
	Totals   Totals         `yaml:"totals"`
	Brand    Brand          `yaml:"brand"`
	GoFundMe GoFundMe       `yaml:"gofundme"`
	Form     Form           `yaml:"form"`
	Cause    Cause          `yaml:"cause"`
	Featured Featured       `yaml:"featured"`
	Prizes   []Prize        `yaml:"prizes"`
	Past     []PastCampaign `yaml:"past"`
	Site     Site           `yaml:"site"`
}

// Totals is the overall amount raised across all rounds
type Totals struct {
	Amount   float64 `yaml:"amount"`
	Currency string  `yaml:"currency"` // ISO 4217 code, e.g. USD
}

// Brand holds the display name and theme colours
type Brand struct {
	Name    string `yaml:"name"`
	Primary string `yaml:"primary"`
	Accent  string `yaml:"accent"`
}

// GoFundMe holds the donation link and the widget page the proxy scrapes
type GoFundMe struct {
	URL      string `yaml:"url"`
	EmbedURL string `yaml:"embed_url"`
}

// Form is the entry-confirmation form donors fill in after giving
type Form struct {
	URL string `yaml:"url"`
}

// Cause describes the current round. Goal and Raised are the values shown
// until the first successful totals fetch.
type Cause struct {
	Name      string   `yaml:"name"`
	Title     string   `yaml:"title"`
	Summary   string   `yaml:"summary"`
	Image     string   `yaml:"image"`
	HeroImage string   `yaml:"hero_image"`
	Impact    []string `yaml:"impact"`
	Goal      float64  `yaml:"goal"`
	Raised    float64  `yaml:"raised"`
	DrawISO   string   `yaml:"draw_iso"`
}

// Featured is the creator this round supports
type Featured struct {
	Name     string   `yaml:"name"`
	Intro    string   `yaml:"intro"`
	Story    []string `yaml:"story"`
	Uses     []string `yaml:"uses"`
	Image    string   `yaml:"image"`
	ImageAlt string   `yaml:"image_alt"`
}

// Prize is one raffle prize
type Prize struct {
	Name    string `yaml:"name"`
	By      string `yaml:"by"`
	Details string `yaml:"details"`
	Value   string `yaml:"value"`
}

// PastCampaign is a finished round shown for transparency
type PastCampaign struct {
	Name  string  `yaml:"name"`
	Total float64 `yaml:"total"`
	Date  string  `yaml:"date"`
	Image string  `yaml:"image"`
}

// Site holds document head content and footer contacts
type Site struct {
	Title         string    `yaml:"title"`
	Heading       string    `yaml:"heading"`
	Subtitle      string    `yaml:"subtitle"`
	Description   string    `yaml:"description"`
	OGTitle       string    `yaml:"og_title"`
	OGDescription string    `yaml:"og_description"`
	OGImage       string    `yaml:"og_image"`
	OGImageAlt    string    `yaml:"og_image_alt"`
	Logo          string    `yaml:"logo"`
	Contacts      []Contact `yaml:"contacts"`
	TicketRule    string    `yaml:"ticket_rule"`
}

// Contact is a person donors can reach about the raffle
type Contact struct {
	Name   string `yaml:"name"`
	Handle string `yaml:"handle"`
}
