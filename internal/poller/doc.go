// Package poller keeps the displayed campaign totals fresh.
//
// A Poller asks a Source for totals once when started and then on a fixed
// schedule. Successful results replace the Display's goal and raised values;
// soft failures leave the previous values in place. Ticks are not serialised, so
// two fetches may be in flight at once and whichever completes last wins. After
// Stop, late responses are discarded and never reach the Display.
package poller
