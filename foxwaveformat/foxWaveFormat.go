// Package foxwaveformat parses the RIFF/WAVE container header and the
// "fmt " sub-chunk, walking past any intervening chunks until it reaches
// "data". It knows nothing about streaming playback — that's
// foxwavestream's job — it only ever produces a parsed FormatDescriptor plus
// the byte size of the data chunk it stopped on.
package foxwaveformat

import (
	"strconv"

	"github.com/foxenfurter/foxwavestream/foxbytesource"
	"github.com/foxenfurter/foxwavestream/foxwavebits"
	"github.com/google/uuid"
)

// Recognized values of FormatDescriptor.FormatTag / TranslatedFormatTag.
const (
	FormatTagPCM        uint16 = 0x0001
	FormatTagADPCM      uint16 = 0x0002 // Not supported by foxwaveconvert.
	FormatTagIEEEFloat  uint16 = 0x0003
	FormatTagALaw       uint16 = 0x0006
	FormatTagMuLaw      uint16 = 0x0007
	FormatTagExtensible uint16 = 0xFFFE
)

// Well-known KSDATAFORMAT_SUBTYPE GUIDs carried in an EXTENSIBLE fmt chunk's
// sub-format field. Mirrors the teacher's WaveFormatEx well-known constants
// (foxWavReader.go), re-expressed as uuid.UUID values.
var (
	SubtypePCM       = uuid.MustParse("00000001-0000-0010-8000-00aa00389b71")
	SubtypeIEEEFloat = uuid.MustParse("00000003-0000-0010-8000-00aa00389b71")
)

// FormatDescriptor is the parsed "fmt " chunk, immutable after Open.
type FormatDescriptor struct {
	FormatTag      uint16
	Channels       uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16

	// Only meaningful when the chunk size was 40; zero-valued otherwise.
	ExtendedSize       uint16
	ValidBitsPerSample uint16
	ChannelMask        uint32
	SubFormat          [16]byte
}

// TranslatedFormatTag returns the effective format tag: when FormatTag is
// WAVE_FORMAT_EXTENSIBLE, the true encoding is carried in the first two
// bytes of SubFormat; otherwise it's FormatTag itself.
func (f FormatDescriptor) TranslatedFormatTag() uint16 {
	if f.FormatTag == FormatTagExtensible {
		return foxwavebits.ReadU16LE(f.SubFormat[0:2])
	}
	return f.FormatTag
}

// SubFormatGUID returns the EXTENSIBLE sub-format field as a uuid.UUID,
// useful for comparing against SubtypePCM / SubtypeIEEEFloat rather than
// doing raw byte comparisons. The first three GUID fields are stored
// little-endian in the file and are byte-swapped into uuid's big-endian
// layout. Only meaningful when FormatTag is WAVE_FORMAT_EXTENSIBLE.
func (f FormatDescriptor) SubFormatGUID() uuid.UUID {
	s := f.SubFormat
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = s[3], s[2], s[1], s[0]
	u[4], u[5] = s[5], s[4]
	u[6], u[7] = s[7], s[6]
	copy(u[8:], s[8:])
	return u
}

// IsSupportedFormat reports whether foxwaveconvert has a converter for the
// given translated format tag and bit depth. ADPCM and any tag/bit-depth
// combination outside the documented table (u8/s16/s24/s32 PCM, 32/64-bit
// float, 8-bit A-law/mu-law) are unsupported.
func IsSupportedFormat(translatedFormatTag, bitsPerSample uint16) bool {
	switch translatedFormatTag {
	case FormatTagPCM:
		switch bitsPerSample {
		case 8, 16, 24, 32:
			return true
		}
	case FormatTagIEEEFloat:
		switch bitsPerSample {
		case 32, 64:
			return true
		}
	case FormatTagALaw, FormatTagMuLaw:
		return bitsPerSample == 8
	}
	return false
}

const packageName = "foxwaveformat"

// maxSeekStep is the largest offset a single SeekRelative call can carry,
// imposed by the signed 32-bit seek contract.
const maxSeekStep = 0x7FFFFFFF

// ParseHeader runs the RIFF/WAVE open algorithm against src: it validates
// the RIFF/WAVE magic, parses the "fmt " chunk (sizes 16, 18, or 40), and
// walks any intervening chunks until it finds "data". On success it leaves
// src positioned at the first byte of the data chunk's payload and returns
// the parsed format plus the data chunk's declared size. ok is false on any
// malformed header, short read, or failed seek — callers never get a
// partially-populated FormatDescriptor back.
//
// debug, when non-nil, receives one trace line per chunk skipped while
// walking to "data". It is never required for correct operation.
func ParseHeader(src foxbytesource.Source, debug func(string)) (fmtOut FormatDescriptor, dataSize uint32, ok bool) {
	if src == nil {
		return FormatDescriptor{}, 0, false
	}

	if !readRIFFHeader(src) {
		return FormatDescriptor{}, 0, false
	}

	fmtOut, ok = readFmtChunk(src)
	if !ok {
		return FormatDescriptor{}, 0, false
	}

	dataSize, ok = walkToDataChunk(src, debug)
	if !ok {
		return FormatDescriptor{}, 0, false
	}

	return fmtOut, dataSize, true
}

// readRIFFHeader consumes the 12-byte RIFF/WAVE container header.
func readRIFFHeader(src foxbytesource.Source) bool {
	var riff [12]byte
	if src.Read(riff[:]) != len(riff) {
		return false
	}

	if riff[0] != 'R' || riff[1] != 'I' || riff[2] != 'F' || riff[3] != 'F' {
		return false
	}

	chunkSize := foxwavebits.ReadU32LE(riff[4:8])
	if chunkSize < 36 {
		return false
	}

	if riff[8] != 'W' || riff[9] != 'A' || riff[10] != 'V' || riff[11] != 'E' {
		return false
	}

	return true
}

// readFmtChunk consumes the "fmt " sub-chunk: the mandatory 24-byte header
// plus body, then whichever of the 18- or 40-byte tails applies.
func readFmtChunk(src foxbytesource.Source) (FormatDescriptor, bool) {
	var fmtOut FormatDescriptor

	var header [24]byte
	if src.Read(header[:]) != len(header) {
		return FormatDescriptor{}, false
	}

	if header[0] != 'f' || header[1] != 'm' || header[2] != 't' || header[3] != ' ' {
		return FormatDescriptor{}, false
	}

	chunkSize := foxwavebits.ReadU32LE(header[4:8])
	if chunkSize != 16 && chunkSize != 18 && chunkSize != 40 {
		return FormatDescriptor{}, false
	}

	fmtOut.FormatTag = foxwavebits.ReadU16LE(header[8:10])
	fmtOut.Channels = foxwavebits.ReadU16LE(header[10:12])
	fmtOut.SampleRate = foxwavebits.ReadU32LE(header[12:16])
	fmtOut.AvgBytesPerSec = foxwavebits.ReadU32LE(header[16:20])
	fmtOut.BlockAlign = foxwavebits.ReadU16LE(header[20:22])
	fmtOut.BitsPerSample = foxwavebits.ReadU16LE(header[22:24])

	switch chunkSize {
	case 18:
		if !src.SeekRelative(2) {
			return FormatDescriptor{}, false
		}
	case 40:
		var cbSize [2]byte
		if src.Read(cbSize[:]) != len(cbSize) {
			return FormatDescriptor{}, false
		}

		fmtOut.ExtendedSize = foxwavebits.ReadU16LE(cbSize[:])
		if fmtOut.ExtendedSize != 22 {
			return FormatDescriptor{}, false
		}

		var ext [22]byte
		if src.Read(ext[:]) != len(ext) {
			return FormatDescriptor{}, false
		}

		fmtOut.ValidBitsPerSample = foxwavebits.ReadU16LE(ext[0:2])
		fmtOut.ChannelMask = foxwavebits.ReadU32LE(ext[2:6])
		fmtOut.SubFormat = foxwavebits.ReadGUID(ext[6:22])
	}

	return fmtOut, true
}

// walkToDataChunk repeatedly reads an 8-byte chunk header, skipping the body
// of any chunk that isn't "data" (honoring the WAVE pad byte on odd sizes),
// until it either finds "data" or a read/seek fails.
func walkToDataChunk(src foxbytesource.Source, debug func(string)) (uint32, bool) {
	for {
		var chunk [8]byte
		if src.Read(chunk[:]) != len(chunk) {
			return 0, false
		}

		chunkSize := foxwavebits.ReadU32LE(chunk[4:8])

		if chunk[0] == 'd' && chunk[1] == 'a' && chunk[2] == 't' && chunk[3] == 'a' {
			return chunkSize, true
		}

		if debug != nil {
			debug(packageName + ": skipping chunk \"" + string(chunk[0:4]) + "\" (" + strconv.Itoa(int(chunkSize)) + " bytes)")
		}

		skipSize := chunkSize
		if skipSize%2 != 0 {
			skipSize++
		}

		if !skipBytes(src, skipSize) {
			return 0, false
		}
	}
}

// skipBytes issues as many SeekRelative calls as needed to advance n bytes,
// each no larger than maxSeekStep to fit the signed 32-bit seek contract.
func skipBytes(src foxbytesource.Source, n uint32) bool {
	remaining := n
	for remaining > 0 {
		step := remaining
		if step > maxSeekStep {
			step = maxSeekStep
		}

		if !src.SeekRelative(int32(step)) {
			return false
		}

		remaining -= step
	}

	return true
}
