package terminal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	logFilePrefix   = "linutil_log_"
	logTimestampFmt = "2006-01-02-15-04-05"
)

// Compression selects the encoding of archived logs
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// Exporter writes output log snapshots to timestamped files
type Exporter struct {
	// Dir is the target directory; empty means os.TempDir().
	Dir string
	// Now returns the export time; nil means time.Now.
	Now func() time.Time
}

// NewExporter creates an exporter writing into dir
func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir}
}

// Path returns the log path for an export made at t.
func (e *Exporter) Path(t time.Time) string {
	dir := e.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	// Local resolves to UTC when no zone information is available.
	return filepath.Join(dir, logFilePrefix+t.Local().Format(logTimestampFmt)+".log")
}

// Write stores content in a new log file and returns its path. The file is
// written to a temporary name and renamed into place so readers never see a
// partial log.
func (e *Exporter) Write(content string) (string, error) {
	path := e.Path(e.now())
	if err := writeAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	}); err != nil {
		return "", err
	}
	return path, nil
}

// Archive stores a compressed copy of content next to where Write would put
// it, with a .gz or .zst suffix. CompressionNone behaves like Write.
func (e *Exporter) Archive(content string, compression Compression) (string, error) {
	path := e.Path(e.now())

	var encode func(w io.Writer) error
	switch compression {
	case CompressionNone, "":
		encode = func(w io.Writer) error {
			_, err := io.WriteString(w, content)
			return err
		}
	case CompressionGzip:
		path += ".gz"
		encode = func(w io.Writer) error {
			gz := gzip.NewWriter(w)
			if _, err := io.WriteString(gz, content); err != nil {
				gz.Close()
				return err
			}
			return gz.Close()
		}
	case CompressionZstd:
		path += ".zst"
		encode = func(w io.Writer) error {
			zw, err := zstd.NewWriter(w)
			if err != nil {
				return err
			}
			if _, err := io.WriteString(zw, content); err != nil {
				zw.Close()
				return err
			}
			return zw.Close()
		}
	default:
		return "", fmt.Errorf("%w: unknown compression %q", ErrIO, compression)
	}

	if err := writeAtomic(path, encode); err != nil {
		return "", err
	}
	return path, nil
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func writeAtomic(path string, encode func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	tmpName := tmp.Name()

	if err := encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
