// Package foxwavestream is the live decoding context: it owns a byte
// source, holds the parsed format, and serves raw/sample-granular reads and
// seek-by-sample-index against the "data" chunk. It never performs sample
// conversion itself — that's foxwaveconvert, layered on top.
package foxwavestream

import (
	"strconv"

	"github.com/foxenfurter/foxwavestream/foxbytesource"
	"github.com/foxenfurter/foxwavestream/foxwaveformat"
)

const packageName = "foxwavestream"

// Decoder is the live decoding context created by Open/OpenFile/OpenMemory,
// mutated only by Read/ReadRaw/Seek, and destroyed by Close. It holds no
// lock: two concurrent operations on the same Decoder are a contract
// violation, per the single-threaded synchronous model this package
// implements.
type Decoder struct {
	source foxbytesource.Source
	format foxwaveformat.FormatDescriptor

	translatedFormatTag uint16
	bytesPerSample      uint16
	totalSampleCount    uint64
	bytesRemaining      uint64

	debug func(string)
}

// Open builds a Decoder from an already-constructed Source. It returns
// ok=false on any malformed header, short read, or failed seek encountered
// while parsing the container — per the spec's null-decoder convention,
// nothing is returned on failure, not even a partially-initialized Decoder.
// Open takes ownership of src only when it succeeds; on failure src is left
// open and the caller is still responsible for closing it.
//
// debugHook, when supplied, receives one trace line per chunk skipped while
// locating "data" and one summary line after a successful open. It stays
// attached to the returned Decoder, where Seek uses it to report a clamped
// index; Read does not trace. Callers that don't want tracing omit it
// entirely.
func Open(src foxbytesource.Source, debugHook ...func(string)) (*Decoder, bool) {
	if src == nil {
		return nil, false
	}

	var debug func(string)
	if len(debugHook) > 0 {
		debug = debugHook[0]
	}

	fmtDesc, dataSize, ok := foxwaveformat.ParseHeader(src, debug)
	if !ok {
		return nil, false
	}

	if fmtDesc.Channels == 0 || fmtDesc.BlockAlign == 0 {
		return nil, false
	}

	bytesPerSample := fmtDesc.BlockAlign / fmtDesc.Channels
	if bytesPerSample == 0 {
		return nil, false
	}

	d := &Decoder{
		source:              src,
		format:              fmtDesc,
		translatedFormatTag: fmtDesc.TranslatedFormatTag(),
		bytesPerSample:      bytesPerSample,
		totalSampleCount:    uint64(dataSize) / uint64(bytesPerSample),
		bytesRemaining:      uint64(dataSize),
		debug:               debug,
	}

	d.trace(packageName + ": opened stream, " + formatOpenSummary(d))

	return d, true
}

// OpenFile opens path and decodes its WAVE header. Unlike Open, it reports
// failures as Go errors: an os.Open failure (missing file, permission
// denied) comes back as a *foxbytesource.SourceError, while a file that
// opened but did not decode as WAVE comes back as an *OpenError. In both
// cases the returned Decoder is nil.
func OpenFile(path string, debugHook ...func(string)) (*Decoder, error) {
	const functionName = "OpenFile"

	src, err := foxbytesource.NewFileSource(path)
	if err != nil {
		return nil, err
	}

	d, ok := Open(src, debugHook...)
	if !ok {
		src.Close()
		return nil, &OpenError{Package: packageName, Function: functionName, Path: path}
	}

	return d, nil
}

// OpenMemory decodes a WAVE header out of data without copying it. The
// caller must keep data valid for the lifetime of the returned Decoder.
func OpenMemory(data []byte, debugHook ...func(string)) (*Decoder, bool) {
	return Open(foxbytesource.NewMemorySource(data), debugHook...)
}

// SetDebugFunc attaches an optional debug hook, mirroring the teacher's
// WavReader.DebugFunc pattern. A nil hook (the default) disables tracing.
func (d *Decoder) SetDebugFunc(hook func(string)) {
	if d == nil {
		return
	}
	d.debug = hook
}

func (d *Decoder) trace(msg string) {
	if d != nil && d.debug != nil {
		d.debug(msg)
	}
}

// Close disposes the Decoder's Source. Idempotent; safe to call on a nil
// Decoder.
func (d *Decoder) Close() {
	if d == nil || d.source == nil {
		return
	}

	d.source.Close()
	d.source = nil
}

// ---- Getters, mirroring the teacher's FoxDecoder Get*/Set* surface ----

// Format returns the parsed "fmt " chunk, unchanged since Open.
func (d *Decoder) Format() foxwaveformat.FormatDescriptor {
	if d == nil {
		return foxwaveformat.FormatDescriptor{}
	}
	return d.format
}

// SampleRate returns the declared sample rate in Hz.
func (d *Decoder) SampleRate() uint32 {
	if d == nil {
		return 0
	}
	return d.format.SampleRate
}

// BitDepth returns the declared bits per sample.
func (d *Decoder) BitDepth() uint16 {
	if d == nil {
		return 0
	}
	return d.format.BitsPerSample
}

// NumChannels returns the declared channel count.
func (d *Decoder) NumChannels() uint16 {
	if d == nil {
		return 0
	}
	return d.format.Channels
}

// TranslatedFormatTag returns the effective format tag (EXTENSIBLE already
// resolved).
func (d *Decoder) TranslatedFormatTag() uint16 {
	if d == nil {
		return 0
	}
	return d.translatedFormatTag
}

// BytesPerSample returns blockAlign / channels, as fixed at Open.
func (d *Decoder) BytesPerSample() uint16 {
	if d == nil {
		return 0
	}
	return d.bytesPerSample
}

// TotalSampleCount returns the total number of per-channel samples in the
// data chunk (a stereo frame counts as 2 samples).
func (d *Decoder) TotalSampleCount() uint64 {
	if d == nil {
		return 0
	}
	return d.totalSampleCount
}

// BytesRemaining returns the number of unread bytes left in the data chunk.
func (d *Decoder) BytesRemaining() uint64 {
	if d == nil {
		return 0
	}
	return d.bytesRemaining
}

// ---- Reading ----

// ReadRaw reads up to len(out) bytes of raw sample data, clamped to the
// bytes remaining in the data chunk. It returns 0 for a nil Decoder, an
// empty out, or once bytesRemaining has reached zero.
func (d *Decoder) ReadRaw(out []byte) int {
	if d == nil || d.source == nil || len(out) == 0 {
		return 0
	}

	toRead := out
	if uint64(len(toRead)) > d.bytesRemaining {
		toRead = toRead[:d.bytesRemaining]
	}

	n := d.source.Read(toRead)
	d.bytesRemaining -= uint64(n)

	return n
}

// Read reads up to samplesRequested whole samples into out, clamped so the
// read never exceeds len(out) bytes. It returns the number of whole samples
// actually read; a partial trailing sample (when the data chunk or the
// source ends partway through a sample) is not counted. Only meaningful for the
// fixed-size encodings this package supports.
func (d *Decoder) Read(samplesRequested int, out []byte) int {
	if d == nil || samplesRequested <= 0 || len(out) == 0 {
		return 0
	}

	bytesPerSample := int(d.bytesPerSample)
	if bytesPerSample == 0 {
		return 0
	}

	maxSamples := len(out) / bytesPerSample
	if samplesRequested > maxSamples {
		samplesRequested = maxSamples
	}
	if samplesRequested <= 0 {
		return 0
	}

	bytesRead := d.ReadRaw(out[:samplesRequested*bytesPerSample])

	return bytesRead / bytesPerSample
}

// Seek moves the read position to the given per-channel sample index,
// clamping to the last valid sample. It always reports ok=true once the
// bookkeeping completes — even a failed underlying SeekRelative call does
// not abort the loop, matching the original decoder's documented behavior
// (see DESIGN.md's open-question entry rather than "fixing" this silently).
func (d *Decoder) Seek(sampleIndex uint64) bool {
	if d == nil || d.source == nil {
		return false
	}

	if d.totalSampleCount == 0 {
		return true
	}

	if sampleIndex >= d.totalSampleCount {
		d.trace(packageName + ": seek index " + strconv.FormatUint(sampleIndex, 10) + " clamped to " + strconv.FormatUint(d.totalSampleCount-1, 10))
		sampleIndex = d.totalSampleCount - 1
	}

	bytesPerSample := uint64(d.bytesPerSample)
	totalSizeInBytes := d.totalSampleCount * bytesPerSample
	currentBytePos := totalSizeInBytes - d.bytesRemaining
	targetBytePos := sampleIndex * bytesPerSample

	var offset uint64
	var direction int32
	if currentBytePos < targetBytePos {
		offset = targetBytePos - currentBytePos
		direction = 1
	} else {
		offset = currentBytePos - targetBytePos
		direction = -1
	}

	const maxStep = 0x7FFFFFFF
	for offset > 0 {
		step := offset
		if step > maxStep {
			step = maxStep
		}

		d.source.SeekRelative(int32(step) * direction)
		if direction > 0 {
			d.bytesRemaining -= step
		} else {
			d.bytesRemaining += step
		}
		offset -= step
	}

	return true
}

// formatOpenSummary builds the one-line trace emitted after a successful
// Open, describing the format enough to spot a mis-parsed header at a
// glance.
func formatOpenSummary(d *Decoder) string {
	return strconv.Itoa(int(d.format.Channels)) + "ch/" +
		strconv.Itoa(int(d.format.SampleRate)) + "Hz/" +
		strconv.Itoa(int(d.format.BitsPerSample)) + "bit, tag=0x" +
		strconv.FormatUint(uint64(d.translatedFormatTag), 16) + ", " +
		strconv.FormatUint(d.totalSampleCount, 10) + " samples"
}

// OpenError is OpenFile's error for a file that opened but whose WAVE header
// could not be decoded. A failure to open the file itself is reported as a
// *foxbytesource.SourceError instead.
type OpenError struct {
	Package  string
	Function string
	Path     string
}

func (e *OpenError) Error() string {
	return e.Package + ":" + e.Function + ": could not decode WAVE header for " + e.Path
}
