package schedule

import "sort"

// Entry ties a confirmed booking to the interval it occupies.
type Entry struct {
	BookingID int
	Interval  Interval
}

// ConflictIndex holds the confirmed intervals of a single court, ordered by
// start time. Because the ledger only inserts admitted intervals, entries
// never overlap, so end times are ordered too and overlap queries can binary
// search. The index does not re-check on insert; the admission check and the
// insert happen together under the ledger's court lock.
type ConflictIndex struct {
	entries []Entry
}

func NewConflictIndex() *ConflictIndex {
	return &ConflictIndex{}
}

func (ix *ConflictIndex) Len() int { return len(ix.entries) }

// Insert adds an entry at its sorted position. The caller must have already
// verified the interval is conflict-free.
func (ix *ConflictIndex) Insert(e Entry) {
	i := sort.Search(len(ix.entries), func(i int) bool {
		return ix.entries[i].Interval.Start().After(e.Interval.Start())
	})
	ix.entries = append(ix.entries, Entry{})
	copy(ix.entries[i+1:], ix.entries[i:])
	ix.entries[i] = e
}

// Remove deletes the entry for the given booking. Returns false if the
// booking has no entry in this index.
func (ix *ConflictIndex) Remove(bookingID int) bool {
	for i, e := range ix.entries {
		if e.BookingID == bookingID {
			ix.entries = append(ix.entries[:i], ix.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Overlapping returns the entries whose intervals overlap the candidate,
// ordered by start time. Empty result means the candidate is admissible.
func (ix *ConflictIndex) Overlapping(candidate Interval) []Entry {
	// First entry that could still overlap: entries are disjoint and sorted
	// by start, so ends are sorted as well.
	lo := sort.Search(len(ix.entries), func(i int) bool {
		return ix.entries[i].Interval.End().After(candidate.Start())
	})

	var out []Entry
	for i := lo; i < len(ix.entries); i++ {
		if !ix.entries[i].Interval.Start().Before(candidate.End()) {
			break
		}
		out = append(out, ix.entries[i])
	}
	return out
}

// Entries returns a copy of the index contents, ordered by start time.
// Used for read-only snapshots handed to the slot enumerator.
func (ix *ConflictIndex) Entries() []Entry {
	out := make([]Entry, len(ix.entries))
	copy(out, ix.entries)
	return out
}
