package notifier

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// DryRunNotifier prints what would be posted without actually posting
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to out
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	return &DryRunNotifier{out: out}
}

// Notify prints the posts that would be made
func (n *DryRunNotifier) Notify(milestones []Milestone) error {
	for i, m := range milestones {
		post := formatPost(m)
		fmt.Fprintf(n.out, "--- Post %d/%d ---\n", i+1, len(milestones))
		fmt.Fprintln(n.out, post)
		fmt.Fprintf(n.out, "\n(Length: %d characters)\n\n", utf8.RuneCountInString(post))
	}
	return nil
}
