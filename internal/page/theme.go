package page

import (
	"fmt"
	"html/template"
	"regexp"

	"github.com/inkboundsociety/fundraiser/internal/config"
)

var hexColour = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Theme is the page's brand palette
type Theme struct {
	Primary string
	Accent  string
}

// NewTheme builds the theme from the brand colours
func NewTheme(b config.Brand) (Theme, error) {
	for _, c := range []string{b.Primary, b.Accent} {
		if !hexColour.MatchString(c) {
			return Theme{}, fmt.Errorf("invalid brand colour %q", c)
		}
	}
	return Theme{Primary: b.Primary, Accent: b.Accent}, nil
}

// CSS declares the theme's custom properties on :root
func (t Theme) CSS() template.CSS {
	// Both values were checked against hexColour in NewTheme.
	return template.CSS(fmt.Sprintf(":root{--hunter:%s;--gold:%s}", t.Primary, t.Accent))
}
