// Package retar rewrites tar archives so that similar members sit next to
// each other, which helps downstream compressors with limited window sizes
// find redundancy.
//
// Members are grouped recursively by a fixed sequence of criteria: structural
// kind (directories first, symlinks and specials last), detected content
// type, stacked extension chain, and base filename. The emission order is
// fully deterministic for a given input and sniffer.
//
// # Quick Start
//
// Rewrite an archive in place:
//
//	err := retar.RewriteInPlace(ctx, "dist.tar.gz")
//
// Or write the reordered archive somewhere else:
//
//	err := retar.Rewrite(ctx, "dist.tar.gz", "dist-sorted.tar.gz")
//
// The output container uses the same compression codec as the input. The
// original file is only replaced after the full rewrite succeeds; any
// failure leaves it untouched.
//
// # Content detection
//
// Regular files are grouped by sniffed MIME type before falling back to
// extension and name grouping. Detection is a best-effort capability: it can
// be replaced with [WithSniffer] or disabled with [WithoutSniffing], and a
// failed sniff silently degrades that member's grouping key.
package retar
