package notifier

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/inkboundsociety/fundraiser/internal/logger"
	"github.com/inkboundsociety/fundraiser/internal/secrets"
)

// postDelay spaces out consecutive posts
var postDelay = 2 * time.Second

// Credentials are the OAuth1 keys for the posting account
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// CredentialsFromEnv reads TWITTER_API_KEY, TWITTER_API_SECRET,
// TWITTER_ACCESS_TOKEN and TWITTER_ACCESS_SECRET. Values sealed with the
// secrets package are opened with sealer.
func CredentialsFromEnv(sealer *secrets.Sealer) (Credentials, error) {
	names := [4]string{"TWITTER_API_KEY", "TWITTER_API_SECRET", "TWITTER_ACCESS_TOKEN", "TWITTER_ACCESS_SECRET"}

	var vals [4]string
	for i, name := range names {
		raw := os.Getenv(name)
		if raw == "" {
			return Credentials{}, fmt.Errorf("missing required Twitter credential %s", name)
		}
		val, err := secrets.Reveal(sealer, raw)
		if err != nil {
			return Credentials{}, fmt.Errorf("reading %s: %w", name, err)
		}
		vals[i] = val
	}

	return Credentials{
		APIKey:       vals[0],
		APISecret:    vals[1],
		AccessToken:  vals[2],
		AccessSecret: vals[3],
	}, nil
}

// StatusUpdater posts a status. *twitter.StatusService satisfies it.
type StatusUpdater interface {
	Update(status string, params *twitter.StatusUpdateParams) (*twitter.Tweet, *http.Response, error)
}

// TwitterNotifier posts milestones to Twitter
type TwitterNotifier struct {
	statuses StatusUpdater
}

// NewTwitterNotifier creates a Twitter notifier authenticated with c
func NewTwitterNotifier(c Credentials) *TwitterNotifier {
	config := oauth1.NewConfig(c.APIKey, c.APISecret)
	token := oauth1.NewToken(c.AccessToken, c.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{statuses: client.Statuses}
}

// Notify posts one tweet per milestone
func (n *TwitterNotifier) Notify(milestones []Milestone) error {
	for i, m := range milestones {
		tweet := formatPost(m)

		if _, _, err := n.statuses.Update(tweet, nil); err != nil {
			logger.IncrCounter("notifier.errors")
			return fmt.Errorf("failed to post milestone %d%%: %w", m.Threshold, err)
		}
		logger.IncrCounter("notifier.posts")
		logger.Info("posted milestone", logger.Fields{"threshold": m.Threshold})

		if i < len(milestones)-1 {
			time.Sleep(postDelay)
		}
	}
	return nil
}
