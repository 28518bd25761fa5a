// Package notifier announces fundraising milestones.
//
// An Announcer watches the live totals and, when progress crosses one of its
// thresholds (25, 50, 75 and 100 percent by default), hands a Milestone to a
// Notifier. Notifiers post to Twitter or a Telegram chat or, in dry-run
// mode, print what would have been posted. The first observation only records the starting point so a
// restart never re-announces milestones that were already reached.
package notifier
