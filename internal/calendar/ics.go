// Package calendar builds an iCalendar invite for the raffle draw.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkboundsociety/fundraiser/internal/config"
)

// DrawDuration is the length of the draw event
const DrawDuration = 30 * time.Minute

// ErrNoDrawDate is returned when the campaign has no draw scheduled
var ErrNoDrawDate = errors.New("campaign has no draw date")

// DrawICS generates an iCalendar (.ics) file for the campaign's prize draw.
// The UID is derived from the campaign so repeated downloads update one entry.
func DrawICS(c config.Campaign, now time.Time) (string, error) {
	if strings.TrimSpace(c.Cause.DrawISO) == "" {
		return "", ErrNoDrawDate
	}
	start, err := time.Parse(time.RFC3339, c.Cause.DrawISO)
	if err != nil {
		return "", fmt.Errorf("parsing draw date: %w", err)
	}

	uid := uuid.NewSHA1(uuid.NameSpaceURL, []byte(c.GoFundMe.EmbedURL+"#draw"))

	var ics strings.Builder
	line := func(name, value string) {
		ics.WriteString(fold(name + ":" + value))
	}

	line("BEGIN", "VCALENDAR")
	line("VERSION", "2.0")
	line("PRODID", "-//Inkbound Society//fundraiser//EN")
	line("CALSCALE", "GREGORIAN")
	line("METHOD", "PUBLISH")
	line("BEGIN", "VEVENT")
	line("UID", uid.String())
	line("DTSTAMP", formatICSTime(now))
	line("DTSTART", formatICSTime(start))
	line("DTEND", formatICSTime(start.Add(DrawDuration)))

	summary := "Raffle draw"
	if c.Brand.Name != "" {
		summary = c.Brand.Name + " raffle draw"
	}
	line("SUMMARY", escapeICS(summary))

	var desc []string
	if c.Cause.Title != "" {
		desc = append(desc, c.Cause.Title)
	}
	if c.Site.TicketRule != "" {
		desc = append(desc, c.Site.TicketRule)
	}
	if c.GoFundMe.URL != "" {
		desc = append(desc, "Donate: "+c.GoFundMe.URL)
	}
	if len(desc) > 0 {
		line("DESCRIPTION", escapeICS(strings.Join(desc, "\n")))
	}
	if c.GoFundMe.URL != "" {
		line("URL", c.GoFundMe.URL)
	}

	line("STATUS", "CONFIRMED")
	line("TRANSP", "TRANSPARENT")
	line("END", "VEVENT")
	line("END", "VCALENDAR")

	return ics.String(), nil
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes TEXT values per RFC 5545
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// fold splits a content line into 75-octet chunks joined by CRLF and a space,
// never cutting a UTF-8 sequence.
func fold(s string) string {
	const limit = 75

	var b strings.Builder
	n := 0
	for _, r := range s {
		size := len(string(r))
		if n+size > limit {
			b.WriteString("\r\n ")
			n = 1
		}
		b.WriteRune(r)
		n += size
	}
	b.WriteString("\r\n")
	return b.String()
}
