package retar

import "errors"

// ErrNotArchive is returned when an input file cannot be parsed as a tar
// archive in any supported container codec.
var ErrNotArchive = errors.New("not a tar archive")
