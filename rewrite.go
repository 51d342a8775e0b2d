package retar

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Rewrite reads the tar archive at src, reorders its members by similarity,
// and writes the result to dst using the same container codec as the input.
//
// The output is staged in a temp file next to dst and promoted atomically;
// on any failure the temp file is removed and dst is left untouched. Member
// metadata is preserved byte-for-byte, only the order changes.
//
// The context is checked once before work starts; one archive rewrite is an
// atomic unit and is not cancelled mid-traversal.
func Rewrite(ctx context.Context, src, dst string, opts ...Option) error {
	return newConfig(opts).rewrite(ctx, src, dst)
}

// RewriteInPlace rewrites the archive at path over itself. The original file
// survives byte-for-byte unless the full reorder and write succeed, and its
// permissions are kept across the replacement.
func RewriteInPlace(ctx context.Context, path string, opts ...Option) error {
	return newConfig(opts).rewrite(ctx, path, path)
}

func (c *config) rewrite(ctx context.Context, src, dst string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	a, err := openArchive(src)
	if err != nil {
		return err
	}
	defer a.Close()

	c.log().Info("reordering archive",
		"path", src, "codec", a.codec.String(), "members", len(a.entries))

	// Replace a symlinked archive at its target rather than swapping the
	// symlink for a regular file.
	target := dst
	if resolved, evalErr := filepath.EvalSymlinks(dst); evalErr == nil {
		target = resolved
	}

	// Keep the destination's permissions across the rename.
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(target); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".retar-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = c.writeArchive(a, tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return err
	}
	c.log().Debug("archive replaced", "path", target)
	return os.Chmod(target, mode)
}

// writeArchive emits a's members in reordered sequence to w, wrapped in a's
// container codec.
func (c *config) writeArchive(a *archive, w io.Writer) error {
	enc, err := a.codec.Writer(w)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(enc)

	entries := make([]Entry, len(a.entries))
	for i, e := range a.entries {
		entries[i] = e
	}
	sink := func(e Entry) error {
		return writeEntry(tw, e.(*tarEntry))
	}
	if err := c.reorder(entries, 0, sink); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close %s stream: %w", a.codec, err)
	}
	return nil
}

// writeEntry copies one member to the output, re-reading regular file
// content independently of any earlier sniffing reads.
func writeEntry(tw *tar.Writer, e *tarEntry) error {
	if err := tw.WriteHeader(e.hdr); err != nil {
		return err
	}
	if e.data == nil {
		return nil
	}
	_, err := io.Copy(tw, e.content())
	return err
}
