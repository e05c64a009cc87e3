package framecap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FrameOutput persists encoded frames, to files in a directory, to a
// stream, or both.
type FrameOutput struct {
	// Dir is the directory frame files are written to. When empty, no files
	// are written.
	Dir string

	// Pattern is the fmt format of frame file names, applied to the frame
	// number, for example "%d.png" or "frame-%04d.jpg".
	Pattern string

	// Stream, when not nil, receives every frame back to back in capture
	// order, suitable for an image2pipe encoder. A Stream with a Flush
	// method is flushed after the last frame. Stream is never closed.
	Stream io.Writer
}

// Open validates the output and creates its directory.
func (o *FrameOutput) Open() error {
	if o.Dir == "" && o.Stream == nil {
		return fmt.Errorf("%w: no directory or stream", ErrInvalidOutput)
	}
	if o.Dir == "" {
		return nil
	}
	if !strings.Contains(o.Pattern, "%") {
		return fmt.Errorf("%w: pattern %q has no frame number verb", ErrInvalidOutput, o.Pattern)
	}
	return os.MkdirAll(o.Dir, 0o755)
}

// Path returns the file path of frame.
func (o *FrameOutput) Path(frame int) string {
	return filepath.Join(o.Dir, fmt.Sprintf(o.Pattern, frame))
}

// WriteFrame persists buf as frame.
func (o *FrameOutput) WriteFrame(frame int, buf []byte) error {
	if o.Dir != "" {
		if err := os.WriteFile(o.Path(frame), buf, 0o644); err != nil {
			return err
		}
	}
	if o.Stream != nil {
		if _, err := o.Stream.Write(buf); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
	}
	return nil
}

// Flush flushes the stream, if it can be flushed.
func (o *FrameOutput) Flush() error {
	if f, ok := o.Stream.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// defaultPattern fills in the file name pattern for ext when none is set.
func (o *FrameOutput) defaultPattern(ext string) {
	if o.Pattern == "" {
		o.Pattern = "%d." + ext
	}
}
