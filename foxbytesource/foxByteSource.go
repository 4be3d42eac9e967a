// Package foxbytesource provides the pull-based byte source abstraction that
// the decoder pulls raw container bytes from. A Source knows nothing about
// RIFF/WAVE; it only knows how to hand back bytes and how to skip forward or
// backward by a relative offset.
package foxbytesource

import (
	"os"
)

const packageName = "foxbytesource"

// Source is the minimal capability the decoder needs from an underlying
// byte stream: a short read signals end-of-stream or I/O error without
// distinguishing the two, and seeking is always relative to the current
// position.
type Source interface {
	// Read copies up to len(buf) bytes into buf and returns the number of
	// bytes actually read. A return value less than len(buf) signals
	// end-of-stream or an I/O error.
	Read(buf []byte) int

	// SeekRelative moves the cursor by offset bytes from the current
	// position. It reports false on failure.
	SeekRelative(offset int32) bool

	// Close releases any resource the Source owns. It is safe to call
	// exactly once.
	Close()
}

// FileSource wraps an *os.File opened for reading. Close disposes the
// handle.
type FileSource struct {
	file *os.File
}

// NewFileSource opens path for reading and wraps it as a Source.
func NewFileSource(path string) (*FileSource, error) {
	const functionName = "NewFileSource"

	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Package: packageName, Function: functionName, Err: err}
	}

	return &FileSource{file: f}, nil
}

// Read implements Source.
func (s *FileSource) Read(buf []byte) int {
	if s == nil || s.file == nil {
		return 0
	}

	n, _ := s.file.Read(buf)
	// io.Reader returning (n, io.EOF) with n>0 is valid; a short read with
	// no distinguishable cause is exactly what the contract asks for.
	if n < 0 {
		return 0
	}

	return n
}

// SeekRelative implements Source.
func (s *FileSource) SeekRelative(offset int32) bool {
	if s == nil || s.file == nil {
		return false
	}

	_, err := s.file.Seek(int64(offset), os.SEEK_CUR)
	return err == nil
}

// Close implements Source.
func (s *FileSource) Close() {
	if s == nil || s.file == nil {
		return
	}

	s.file.Close()
	s.file = nil
}

// MemorySource wraps a borrowed byte slice plus a cursor. The backing bytes
// are never copied and never owned; Close only disposes the cursor state.
type MemorySource struct {
	data []byte
	pos  int
}

// NewMemorySource wraps data (borrowed, not copied) as a Source.
func NewMemorySource(data []byte) *MemorySource {
	return &MemorySource{data: data}
}

// Read implements Source.
func (s *MemorySource) Read(buf []byte) int {
	if s == nil || s.data == nil {
		return 0
	}

	remaining := len(s.data) - s.pos
	if remaining <= 0 {
		return 0
	}

	n := len(buf)
	if n > remaining {
		n = remaining
	}

	copy(buf[:n], s.data[s.pos:s.pos+n])
	s.pos += n

	return n
}

// SeekRelative implements Source. It always reports success, clamping the
// resulting position to [0, len(data)].
func (s *MemorySource) SeekRelative(offset int32) bool {
	if s == nil {
		return false
	}

	target := s.pos + int(offset)
	if target < 0 {
		target = 0
	}
	if target > len(s.data) {
		target = len(s.data)
	}

	s.pos = target
	return true
}

// Close implements Source. It releases only the cursor state; the backing
// slice is borrowed and is never touched here.
func (s *MemorySource) Close() {
	if s == nil {
		return
	}

	s.data = nil
	s.pos = 0
}

// SourceError reports a failure to acquire an underlying resource (such as
// opening a file) rather than a parse failure. Parse failures never surface
// as errors; see foxwaveformat and foxwavestream.
type SourceError struct {
	Package  string
	Function string
	Err      error
}

func (e *SourceError) Error() string {
	return e.Package + ":" + e.Function + ":" + e.Err.Error()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
