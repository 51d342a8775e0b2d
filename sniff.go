package retar

import "github.com/gabriel-vasile/mimetype"

// SniffLimit is the maximum number of content bytes passed to a Sniffer.
const SniffLimit = 4096

// Sniffer identifies the MIME type of a content sample. Implementations
// return the empty string when the type is unknown.
//
// Sniffing is an optional capability: the reorder runs correctly without one,
// degrading all content-type grouping keys to the empty string.
type Sniffer interface {
	Sniff(data []byte) string
}

// SnifferFunc adapts a function to the Sniffer interface.
type SnifferFunc func(data []byte) string

// Sniff calls f.
func (f SnifferFunc) Sniff(data []byte) string { return f(data) }

// DefaultSniffer returns the built-in content detector.
func DefaultSniffer() Sniffer {
	return SnifferFunc(func(data []byte) string {
		if len(data) == 0 {
			return ""
		}
		return mimetype.Detect(data).String()
	})
}
