package retar

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/meigma/retar/internal/codec"
)

// tarEntry is an archive member backed by a byte-offset view into the
// decompressed tar stream, so content reads are repeatable for both sniffing
// and the final copy.
type tarEntry struct {
	hdr  *tar.Header
	data *io.SectionReader // nil for members without content
}

func (e *tarEntry) Path() string { return e.hdr.Name }

func (e *tarEntry) Kind() Kind {
	switch e.hdr.Typeflag {
	case tar.TypeReg:
		return KindRegular
	case tar.TypeDir:
		return KindDir
	}
	return KindOther
}

func (e *tarEntry) Head(max int) ([]byte, error) {
	if e.data == nil || max <= 0 {
		return nil, nil
	}
	if size := e.data.Size(); int64(max) > size {
		max = int(size)
	}
	buf := make([]byte, max)
	n, err := e.data.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// content returns an independent reader over the member's full payload.
func (e *tarEntry) content() io.Reader {
	return io.NewSectionReader(e.data, 0, e.data.Size())
}

// archive holds one parsed input container: its codec, the file backing
// entry content, and the scanned members in input order.
type archive struct {
	codec   codec.Codec
	src     *os.File // the input file
	spool   *os.File // decompressed tar stream, nil when the input is plain tar
	entries []*tarEntry
}

// backing returns the plain tar stream entries read from.
func (a *archive) backing() *os.File {
	if a.spool != nil {
		return a.spool
	}
	return a.src
}

func (a *archive) Close() error {
	var err error
	if a.spool != nil {
		err = a.spool.Close()
		if rmErr := os.Remove(a.spool.Name()); err == nil {
			err = rmErr
		}
	}
	if closeErr := a.src.Close(); err == nil {
		err = closeErr
	}
	return err
}

// openArchive reads the container at path: detects the codec from its magic
// bytes, spools the decompressed tar stream to a temp file when compressed,
// and scans member headers, recording where each regular file's data begins
// so its content can be re-read at sniff and copy time.
func openArchive(path string) (*archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	head := make([]byte, codec.MagicLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	a := &archive{codec: codec.Detect(head[:n]), src: f}
	if a.codec != codec.None {
		a.spool, err = spoolDecompressed(a.codec, f)
		if err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := a.scan(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// spoolDecompressed writes the decompressed tar stream to a temp file. The
// caller removes the file via archive.Close.
func spoolDecompressed(c codec.Codec, src io.Reader) (*os.File, error) {
	dec, err := c.Reader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s stream: %v", ErrNotArchive, c, err)
	}
	defer dec.Close()

	spool, err := os.CreateTemp("", "retar-spool-*")
	if err != nil {
		return nil, err
	}
	if err := fillSpool(c, dec, spool); err != nil {
		spool.Close()
		os.Remove(spool.Name())
		return nil, err
	}
	return spool, nil
}

// fillSpool copies the decompressed stream into the spool. A read error
// means the container is corrupt; a write error is a plain I/O failure and
// is reported as such.
func fillSpool(c codec.Codec, dec io.Reader, spool io.Writer) error {
	sw := &spoolWriter{w: spool}
	if _, err := io.Copy(sw, dec); err != nil {
		if sw.err != nil {
			return fmt.Errorf("write spool: %w", sw.err)
		}
		return fmt.Errorf("%w: decompress %s: %v", ErrNotArchive, c, err)
	}
	return nil
}

// spoolWriter records the first error raised by its own Write calls, so
// fillSpool can tell write failures apart from decompressor read failures.
type spoolWriter struct {
	w   io.Writer
	err error
}

func (s *spoolWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil && s.err == nil {
		s.err = err
	}
	return n, err
}

// scan walks the tar stream once, recording headers and the byte offset
// where each member's data begins. After tar.Reader.Next returns, the
// counting reader sits exactly at the start of the member's data.
func (a *archive) scan() error {
	backing := a.backing()
	if _, err := backing.Seek(0, io.SeekStart); err != nil {
		return err
	}
	cr := &countingReader{r: backing}
	tr := tar.NewReader(cr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			// Empty and all-zero files parse as zero members; treat them
			// as unreadable input rather than rewriting them into a bare
			// tar trailer.
			if len(a.entries) == 0 {
				return fmt.Errorf("%w: empty file", ErrNotArchive)
			}
			return nil
		}
		if err != nil {
			if len(a.entries) == 0 {
				return fmt.Errorf("%w: %v", ErrNotArchive, err)
			}
			return fmt.Errorf("read archive: %w", err)
		}
		e := &tarEntry{hdr: hdr}
		if hdr.Typeflag == tar.TypeReg {
			e.data = io.NewSectionReader(backing, cr.n, hdr.Size)
		}
		a.entries = append(a.entries, e)
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
