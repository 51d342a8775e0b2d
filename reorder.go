package retar

import "sort"

// Sink receives entries in final order.
type Sink func(Entry) error

// Reorder emits entries to sink grouped and ordered by the fixed criterion
// sequence: structural kind, then content type, then extension chain, then
// base name. Directories come first and non-regular members last; regular
// files are grouped so similar content ends up adjacent.
//
// Every entry is emitted exactly once, and the emission order is
// deterministic for a given input order and sniffer. A sink error aborts the
// reorder and is returned unchanged; sniffing problems only degrade grouping
// and never fail the operation.
func Reorder(entries []Entry, sink Sink, opts ...Option) error {
	return newConfig(opts).reorder(entries, 0, sink)
}

// reorder recursively partitions entries under the criterion at level and
// emits them. Each recursive call owns its own group map; depth is bounded
// by the criteria sequence since terminal produces no further groups.
func (c *config) reorder(entries []Entry, level int, sink Sink) error {
	if len(entries) <= 1 {
		return c.emit(entries, sink)
	}

	crit := criteria[level]
	var before, after []Entry
	groups := make(map[string][]Entry)
	var keys []string

	for _, e := range entries {
		b, key := c.classify(e, crit)
		switch b {
		case bucketBefore:
			before = append(before, e)
		case bucketAfter:
			after = append(after, e)
		default:
			if _, ok := groups[key]; !ok {
				keys = append(keys, key)
			}
			groups[key] = append(groups[key], e)
		}
	}

	c.log().Debug("partitioned",
		"criterion", crit.String(),
		"total", len(entries),
		"before", len(before),
		"after", len(after),
		"groups", len(keys))

	sortByPath(before)
	sortByPath(after)

	if err := c.emit(before, sink); err != nil {
		return err
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := c.reorder(groups[key], nextLevel(level), sink); err != nil {
			return err
		}
	}
	return c.emit(after, sink)
}

// sortByPath orders entries lexicographically by full path. The sort is
// stable so duplicate paths keep their input order.
func sortByPath(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Path() < entries[j].Path()
	})
}

func (c *config) emit(entries []Entry, sink Sink) error {
	for _, e := range entries {
		if c.onEntry != nil {
			c.onEntry(e)
		}
		if err := sink(e); err != nil {
			return err
		}
	}
	return nil
}
