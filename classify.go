package retar

import "strings"

// criterion is one stage of the grouping sequence.
type criterion uint8

const (
	byKind criterion = iota
	byContentType
	byExtChain
	byBaseName
	terminal
)

// criteria is the fixed grouping sequence. Recursion depth is bounded by its
// length: terminal never produces new groups, so nextLevel clamps there.
var criteria = [...]criterion{byKind, byContentType, byExtChain, byBaseName, terminal}

func nextLevel(level int) int {
	if level+1 >= len(criteria) {
		return len(criteria) - 1
	}
	return level + 1
}

func (c criterion) String() string {
	switch c {
	case byKind:
		return "kind"
	case byContentType:
		return "content-type"
	case byExtChain:
		return "extension-chain"
	case byBaseName:
		return "base-name"
	}
	return "terminal"
}

// bucket routes an entry at one recursion level.
type bucket uint8

const (
	bucketKey bucket = iota // grouped under a string key
	bucketBefore
	bucketAfter
)

// classify routes e under crit, returning either a structural bucket or a
// grouping key.
func (c *config) classify(e Entry, crit criterion) (bucket, string) {
	switch crit {
	case byKind:
		switch e.Kind() {
		case KindDir:
			return bucketBefore, ""
		case KindOther:
			return bucketAfter, ""
		}
		return bucketKey, c.sniffKey(e)
	case byContentType:
		return bucketKey, c.sniffKey(e)
	case byExtChain:
		return bucketKey, extChain(baseName(e.Path()))
	case byBaseName:
		return bucketKey, baseName(e.Path())
	case terminal:
		return bucketBefore, ""
	}
	panic("retar: unknown criterion")
}

// sniffKey returns the sniffed MIME type for a regular member, or the empty
// string when sniffing is disabled, the content is unreadable, or the type
// is unknown. A failed sniff never fails the reorder.
func (c *config) sniffKey(e Entry) string {
	if c.sniffer == nil || e.Kind() != KindRegular {
		return ""
	}
	head, err := e.Head(SniffLimit)
	if err != nil {
		c.log().Debug("content sniff failed", "path", e.Path(), "error", err)
		return ""
	}
	return c.sniffer.Sniff(head)
}

// baseName returns the final path segment.
func baseName(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// extChain strips extensions from name right to left and concatenates them
// in strip order, so "archive.tar.bz2" yields ".bz2.tar". Keying on the
// innermost compression suffix first keeps all .bz2 members near each other
// regardless of what they wrap.
func extChain(name string) string {
	var chain strings.Builder
	for {
		stem, ext := splitExt(name)
		if ext == "" {
			return chain.String()
		}
		chain.WriteString(ext)
		name = stem
	}
}

// splitExt splits name into stem and extension. Leading dots never start an
// extension, so ".bashrc" has none.
func splitExt(name string) (stem, ext string) {
	start := 0
	for start < len(name) && name[start] == '.' {
		start++
	}
	if i := strings.LastIndexByte(name, '.'); i > start {
		return name[:i], name[i:]
	}
	return name, ""
}
