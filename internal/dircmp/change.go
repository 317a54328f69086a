package dircmp

// ChangeKind classifies how a path differs between a live directory tree
// and a previously saved record.
type ChangeKind int

const (
	// OnlyInDirectory marks a file present under the live root that the
	// record has no entry for.
	OnlyInDirectory ChangeKind = iota

	// OnlyInRecord marks a record entry whose path was not seen during
	// the live walk.
	OnlyInRecord

	// Differs marks a path present on both sides whose live content digest
	// does not match the recorded one.
	Differs
)

func (k ChangeKind) String() string {
	switch k {
	case OnlyInDirectory:
		return "only in directory"
	case OnlyInRecord:
		return "only in record"
	case Differs:
		return "differs"
	default:
		return "unknown"
	}
}

// Change is a single comparison finding. Paths whose content matches the
// record produce no Change.
type Change struct {
	Kind ChangeKind
	Path string // slash-separated, relative to the compared root
}

// CompareStats summarizes one comparison run.
type CompareStats struct {
	FilesSeen       int // regular files walked under the live root
	OnlyInDirectory int
	OnlyInRecord    int
	Differs         int
}

// Clean reports whether the comparison found no differences at all.
func (st CompareStats) Clean() bool {
	return st.OnlyInDirectory == 0 && st.OnlyInRecord == 0 && st.Differs == 0
}
