package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		head []byte
		want Codec
	}{
		{[]byte{0x1f, 0x8b, 0x08}, Gzip},
		{[]byte("BZh91AY"), Bzip2},
		{[]byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, Xz},
		{[]byte{0x28, 0xb5, 0x2f, 0xfd, 0x00}, Zstd},
		{[]byte{0x04, 0x22, 0x4d, 0x18, 0x64}, Lz4},
		{[]byte("pkg/readme"), None},
		{[]byte{0x1f}, None}, // too short for the gzip magic
		{nil, None},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Detect(tt.head), "head %q", tt.head)
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	names := map[Codec]string{
		None:  "none",
		Gzip:  "gzip",
		Bzip2: "bzip2",
		Xz:    "xz",
		Zstd:  "zstd",
		Lz4:   "lz4",
	}
	for c, want := range names {
		assert.Equal(t, want, c.String())
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("similar files cluster together. "), 64)

	for _, c := range []Codec{None, Gzip, Bzip2, Xz, Zstd, Lz4} {
		t.Run(c.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			w, err := c.Writer(&buf)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if c != None {
				assert.Equal(t, c, Detect(buf.Bytes()), "compressed output must carry the codec magic")
			}

			r, err := c.Reader(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			defer r.Close()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}
