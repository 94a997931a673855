package schedule

// Decision is the outcome of an admission check.
type Decision struct {
	Admitted  bool
	Conflicts []Entry
}

// Check decides whether the candidate interval can be admitted against the
// given index. Pure: never mutates, safe for read-only previews. Writers
// must hold the court lock so the check and the subsequent insert form one
// atomic unit.
func Check(ix *ConflictIndex, candidate Interval) Decision {
	conflicts := ix.Overlapping(candidate)
	return Decision{
		Admitted:  len(conflicts) == 0,
		Conflicts: conflicts,
	}
}
