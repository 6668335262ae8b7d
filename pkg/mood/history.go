package mood

import (
	"errors"
	"sort"

	"tableflip.dev/mood/pkg/timeutil"
)

var (
	// ErrOutsideWindow is returned for a date older than every date a full
	// history keeps.
	ErrOutsideWindow = errors.New("mood: date is outside the history window")
	// ErrFutureDate is returned for a date after today.
	ErrFutureDate = errors.New("mood: date is in the future")
)

// History is a list of day records ascending by date with at most
// HistoryDays distinct dates. Missing days are absent, not zero-filled.
type History []DayRecord

// Clone returns a copy that shares nothing with h.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}

// Find returns the record for date.
func (h History) Find(date timeutil.Date) (DayRecord, bool) {
	for _, r := range h {
		if r.Date == date {
			return r, true
		}
	}
	return DayRecord{}, false
}

// OutsideWindow reports whether a record for date would be evicted as soon
// as it was applied: the history is full, date is not in it and date is
// older than its oldest record.
func (h History) OutsideWindow(date timeutil.Date) bool {
	if len(h) < HistoryDays {
		return false
	}
	if _, ok := h.Find(date); ok {
		return false
	}
	return date.Before(h[0].Date)
}

// Dates lists the populated dates in ascending order.
func (h History) Dates() []timeutil.Date {
	dates := make([]timeutil.Date, 0, len(h))
	for _, r := range h {
		dates = append(dates, r.Date)
	}
	return dates
}

// Equal reports whether two histories hold the same records sample for sample.
func (h History) Equal(o History) bool {
	if len(h) != len(o) {
		return false
	}
	for i := range h {
		if h[i].Date != o[i].Date || !h[i].Sample.Equivalent(o[i].Sample) ||
			!h[i].Sample.Timestamp.Equal(o[i].Sample.Timestamp) {
			return false
		}
	}
	return true
}

// Apply merges rec into the history and returns the new history and whether
// anything changed. Within a date the newest sample wins regardless of source;
// a sample older than the stored one, or equivalent to it, changes nothing.
// New dates are inserted in order and the oldest dates are evicted beyond
// HistoryDays.
func (h History) Apply(rec DayRecord) (History, bool) {
	out := h.Clone()
	for i, existing := range out {
		if existing.Date != rec.Date {
			continue
		}
		if existing.Sample.Equivalent(rec.Sample) || rec.Sample.Timestamp.Before(existing.Sample.Timestamp) {
			return h, false
		}
		out[i] = rec
		return out, true
	}

	out = append(out, rec)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	if len(out) > HistoryDays {
		evicted := out[:len(out)-HistoryDays]
		out = append(History(nil), out[len(out)-HistoryDays:]...)
		for _, r := range evicted {
			if r.Date == rec.Date {
				return h, false
			}
		}
	}
	return out, true
}

// Normalize sorts records, keeps the newest sample per date and trims the
// history to HistoryDays. It is used on data read from disk.
func (h History) Normalize() History {
	var out History
	for _, r := range h {
		if r.Date.IsZero() {
			continue
		}
		r.Sample.Label = NormalizeLabel(r.Sample.Label)
		r.Sample.Score = ClampScore(r.Sample.Score)
		out, _ = out.Apply(r)
	}
	return out
}
