package retar

// Kind classifies an archive member for structural ordering.
type Kind uint8

const (
	// KindRegular is a regular file with readable content.
	KindRegular Kind = iota
	// KindDir is a directory.
	KindDir
	// KindOther covers symlinks, hard links, devices, fifos and anything
	// else without regular content.
	KindOther
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindDir:
		return "dir"
	}
	return "other"
}

// Entry describes one archive member during reordering.
//
// Entries are immutable for the duration of a reorder. Head may be called
// more than once for the same entry and must return the same bytes each
// time; the final copy re-reads content independently of any sniffing reads.
type Entry interface {
	// Path returns the member's full slash-separated path inside the archive.
	Path() string

	// Kind returns the member's structural kind.
	Kind() Kind

	// Head returns up to max bytes from the start of the member's content.
	// Members without content return nil.
	Head(max int) ([]byte, error)
}
