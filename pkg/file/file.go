// Package file moves DMap byte streams between disk and memory. SuperDARN
// archives store most files bzip2-compressed and some mirrors use gzip,
// so reading detects the compression from magic bytes and hands the
// codec fully decompressed bytes; the codec itself never sees a file or
// a compressed stream.
package file

import (
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	dbzip2 "github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
)

// Compression identifies the on-disk encoding of a stream.
type Compression int

const (
	None Compression = iota
	Bzip2
	Gzip
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Bzip2:
		return "bzip2"
	case Gzip:
		return "gzip"
	}
	return fmt.Sprintf("file.Compression(%d)", int(c))
}

// ErrEmptyFile marks a zero-length input, which is distinct from a
// well-formed stream containing zero records.
var ErrEmptyFile = errors.New("file: empty file")

var (
	bzip2Magic = []byte{'B', 'Z', 'h'}
	gzipMagic  = []byte{0x1f, 0x8b}
)

// Detect inspects the leading magic bytes of data.
func Detect(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, bzip2Magic):
		return Bzip2
	case bytes.HasPrefix(data, gzipMagic):
		return Gzip
	}
	return None
}

// ForPath maps a filename extension to a Compression, for writers that
// want the output encoding implied by the target name.
func ForPath(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".bz2"):
		return Bzip2
	case strings.HasSuffix(path, ".gz"):
		return Gzip
	}
	return None
}

// Decompress returns the raw bytes of data together with the detected
// compression. Uncompressed input passes through untouched.
func Decompress(data []byte) ([]byte, Compression, error) {
	if len(data) == 0 {
		return nil, None, ErrEmptyFile
	}
	switch c := Detect(data); c {
	case Bzip2:
		raw, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, c, fmt.Errorf("file: bzip2 decompress: %w", err)
		}
		return raw, c, nil
	case Gzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, c, fmt.Errorf("file: gzip decompress: %w", err)
		}
		raw, err := io.ReadAll(zr)
		if cerr := zr.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, c, fmt.Errorf("file: gzip decompress: %w", err)
		}
		return raw, c, nil
	default:
		return data, None, nil
	}
}

// Compress encodes data with the requested compression. None is a
// passthrough.
func Compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case None:
		return data, nil
	case Bzip2:
		var buf bytes.Buffer
		zw, err := dbzip2.NewWriter(&buf, &dbzip2.WriterConfig{Level: dbzip2.DefaultCompression})
		if err != nil {
			return nil, fmt.Errorf("file: bzip2 compress: %w", err)
		}
		if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("file: bzip2 compress: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("file: bzip2 compress: %w", err)
		}
		return buf.Bytes(), nil
	case Gzip:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("file: gzip compress: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("file: gzip compress: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("file: unknown compression %v", c)
}

// ReadBytes loads a file and returns its fully decompressed contents
// along with the compression it was stored with.
func ReadBytes(path string) ([]byte, Compression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, None, err
	}
	if len(data) == 0 {
		return nil, None, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	raw, c, err := Decompress(data)
	if err != nil {
		return nil, c, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("read dmap file",
		"path", path, "compression", c.String(),
		"compressed_bytes", len(data), "raw_bytes", len(raw))
	return raw, c, nil
}

// WriteBytes compresses data as requested and writes it to path.
func WriteBytes(path string, data []byte, c Compression) error {
	out, err := Compress(data, c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return err
	}
	slog.Debug("wrote dmap file",
		"path", path, "compression", c.String(),
		"raw_bytes", len(data), "compressed_bytes", len(out))
	return nil
}
