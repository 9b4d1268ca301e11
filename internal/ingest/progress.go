package ingest

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// WithProgress wraps an open file in a byte-progress reader so large
// extracts show load progress. Files whose size cannot be determined are
// returned unwrapped.
func WithProgress(f *os.File, label string) io.Reader {
	info, err := f.Stat()
	if err != nil || info.Size() <= 0 {
		return f
	}
	bar := progressbar.DefaultBytes(info.Size(), label)
	return io.TeeReader(f, bar)
}
