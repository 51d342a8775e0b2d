// Package testutil builds tar fixtures for tests.
package testutil

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Member describes one entry of a generated test archive.
type Member struct {
	Name     string
	Typeflag byte // zero value means tar.TypeReg
	Content  []byte
	Linkname string
	Mode     int64 // zero value picks a default per type
}

// BuildTar encodes members into an uncompressed tar stream.
func BuildTar(tb testing.TB, members []Member) []byte {
	tb.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, m := range members {
		hdr := &tar.Header{
			Name:     m.Name,
			Typeflag: m.Typeflag,
			Linkname: m.Linkname,
			Mode:     m.Mode,
			ModTime:  time.Unix(1_700_000_000, 0),
		}
		if hdr.Typeflag == 0 {
			hdr.Typeflag = tar.TypeReg
		}
		if hdr.Mode == 0 {
			hdr.Mode = 0o644
			if hdr.Typeflag == tar.TypeDir {
				hdr.Mode = 0o755
			}
		}
		if hdr.Typeflag == tar.TypeReg {
			hdr.Size = int64(len(m.Content))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			tb.Fatalf("write header %s: %v", m.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write(m.Content); err != nil {
				tb.Fatalf("write content %s: %v", m.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		tb.Fatalf("close tar: %v", err)
	}
	return buf.Bytes()
}

// WriteTar writes a generated archive to dir/name and returns its path.
func WriteTar(tb testing.TB, dir, name string, members []Member) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, BuildTar(tb, members), 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ListTar returns the member names of a tar stream in order.
func ListTar(tb testing.TB, data []byte) []string {
	tb.Helper()
	var names []string
	tr := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return names
		}
		if err != nil {
			tb.Fatalf("read tar: %v", err)
		}
		names = append(names, hdr.Name)
	}
}

// ReadTar returns member contents keyed by name. Non-regular members map to
// nil.
func ReadTar(tb testing.TB, data []byte) map[string][]byte {
	tb.Helper()
	contents := make(map[string][]byte)
	tr := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return contents
		}
		if err != nil {
			tb.Fatalf("read tar: %v", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			contents[hdr.Name] = nil
			continue
		}
		body, err := io.ReadAll(tr)
		if err != nil {
			tb.Fatalf("read %s: %v", hdr.Name, err)
		}
		contents[hdr.Name] = body
	}
}
