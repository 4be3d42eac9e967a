// Package foxwaveconvert holds the pure sample-to-float32 converters and the
// dispatcher that drives foxwavestream.Decoder through them. The converters
// never allocate or touch a Source; they only ever see bytes already in
// memory. The dispatcher, ReadAsFloat32, allocates its read buffer and pulls
// bytes through the Decoder.
package foxwaveconvert

import (
	"math"

	"github.com/foxenfurter/foxwavestream/foxwaveformat"
	"github.com/foxenfurter/foxwavestream/foxwavestream"
)

// scratchSize is the fixed buffered-path read chunk of 4 KiB; the scratch
// buffer holds as many whole samples of any supported bytesPerSample as fit.
const scratchSize = 4096

// U8ToF32 converts n unsigned 8-bit PCM samples from in into out.
func U8ToF32(in []byte, out []float32, n int) {
	for i := 0; i < n; i++ {
		out[i] = float32(in[i])/255.0*2 - 1
	}
}

// S16ToF32 converts n little-endian signed 16-bit PCM samples from in into
// out.
func S16ToF32(in []byte, out []float32, n int) {
	for i := 0; i < n; i++ {
		v := int16(uint16(in[i*2]) | uint16(in[i*2+1])<<8)
		out[i] = float32(v) / 32768.0
	}
}

// S24ToF32 converts n little-endian signed 24-bit PCM samples from in into
// out. The 3 bytes are left-aligned into a signed 32-bit word before
// dividing, so the sign bit lands in the right place without a manual
// sign-extend.
func S24ToF32(in []byte, out []float32, n int) {
	for i := 0; i < n; i++ {
		b0 := in[i*3]
		b1 := in[i*3+1]
		b2 := in[i*3+2]
		v := int32(uint32(b0)<<8 | uint32(b1)<<16 | uint32(b2)<<24)
		out[i] = float32(v) / 2147483648.0
	}
}

// S32ToF32 converts n little-endian signed 32-bit PCM samples from in into
// out.
func S32ToF32(in []byte, out []float32, n int) {
	for i := 0; i < n; i++ {
		v := int32(uint32(in[i*4]) | uint32(in[i*4+1])<<8 | uint32(in[i*4+2])<<16 | uint32(in[i*4+3])<<24)
		out[i] = float32(v) / 2147483648.0
	}
}

// F32ToF32 passes n IEEE-754 32-bit float samples from in through to out
// unchanged, reassembling only the bit pattern (no arithmetic conversion).
func F32ToF32(in []byte, out []float32, n int) {
	for i := 0; i < n; i++ {
		bits := uint32(in[i*4]) | uint32(in[i*4+1])<<8 | uint32(in[i*4+2])<<16 | uint32(in[i*4+3])<<24
		out[i] = math.Float32frombits(bits)
	}
}

// F64ToF32 narrows n IEEE-754 64-bit float samples from in to float32.
func F64ToF32(in []byte, out []float32, n int) {
	for i := 0; i < n; i++ {
		bits := uint64(in[i*8]) | uint64(in[i*8+1])<<8 | uint64(in[i*8+2])<<16 | uint64(in[i*8+3])<<24 |
			uint64(in[i*8+4])<<32 | uint64(in[i*8+5])<<40 | uint64(in[i*8+6])<<48 | uint64(in[i*8+7])<<56
		out[i] = float32(math.Float64frombits(bits))
	}
}

// ALawToF32 decodes n ITU-T G.711 A-law samples from in into out.
func ALawToF32(in []byte, out []float32, n int) {
	for i := 0; i < n; i++ {
		out[i] = float32(decodeALawSample(in[i])) / 32768.0
	}
}

// MuLawToF32 decodes n ITU-T G.711 mu-law samples from in into out.
func MuLawToF32(in []byte, out []float32, n int) {
	for i := 0; i < n; i++ {
		out[i] = float32(decodeMuLawSample(in[i])) / 32768.0
	}
}

func decodeALawSample(b byte) int32 {
	a := b ^ 0x55
	segment := (a & 0x70) >> 4
	mantissa := int32(a&0x0F) << 4

	var magnitude int32
	if segment == 0 {
		magnitude = mantissa + 8
	} else {
		magnitude = (mantissa + 0x108) << (segment - 1)
	}

	if a&0x80 == 0 {
		return -magnitude
	}
	return magnitude
}

func decodeMuLawSample(b byte) int32 {
	u := ^b
	magnitude := (int32(u&0x0F)<<3 + 0x84) << ((u & 0x70) >> 4)

	if u&0x80 != 0 {
		return 0x84 - magnitude
	}
	return magnitude - 0x84
}

// ReadAsFloat32 converts up to samplesRequested samples from d into out,
// returning the number of samples actually converted. Encodings with no
// converter here (ADPCM, any tag/bit-depth combination outside the
// documented table) return 0.
func ReadAsFloat32(d *foxwavestream.Decoder, samplesRequested int, out []float32) int {
	if d == nil || samplesRequested <= 0 || len(out) == 0 {
		return 0
	}

	if samplesRequested > len(out) {
		samplesRequested = len(out)
	}

	tag := d.TranslatedFormatTag()
	bytesPerSample := int(d.BytesPerSample())

	if tag == foxwaveformat.FormatTagIEEEFloat && bytesPerSample == 4 {
		return readFloatFastPath(d, samplesRequested, out)
	}

	converter := converterFor(tag, bytesPerSample)
	if converter == nil {
		return 0
	}

	return readBuffered(d, samplesRequested, out, bytesPerSample, converter)
}

func readFloatFastPath(d *foxwavestream.Decoder, samplesRequested int, out []float32) int {
	raw := make([]byte, samplesRequested*4)
	n := d.Read(samplesRequested, raw)
	F32ToF32(raw[:n*4], out[:n], n)
	return n
}

type converterFunc func(in []byte, out []float32, n int)

func converterFor(translatedFormatTag uint16, bytesPerSample int) converterFunc {
	switch translatedFormatTag {
	case foxwaveformat.FormatTagPCM:
		switch bytesPerSample {
		case 1:
			return U8ToF32
		case 2:
			return S16ToF32
		case 3:
			return S24ToF32
		case 4:
			return S32ToF32
		}
	case foxwaveformat.FormatTagIEEEFloat:
		switch bytesPerSample {
		case 4:
			return F32ToF32
		case 8:
			return F64ToF32
		}
	case foxwaveformat.FormatTagALaw:
		if bytesPerSample == 1 {
			return ALawToF32
		}
	case foxwaveformat.FormatTagMuLaw:
		if bytesPerSample == 1 {
			return MuLawToF32
		}
	}
	return nil
}

func readBuffered(d *foxwavestream.Decoder, samplesRequested int, out []float32, bytesPerSample int, convert converterFunc) int {
	scratchSamples := scratchSize / bytesPerSample
	if scratchSamples == 0 {
		return 0
	}

	scratch := make([]byte, scratchSamples*bytesPerSample)

	total := 0
	for total < samplesRequested {
		want := samplesRequested - total
		if want > scratchSamples {
			want = scratchSamples
		}

		n := d.Read(want, scratch[:want*bytesPerSample])
		if n == 0 {
			break
		}

		convert(scratch[:n*bytesPerSample], out[total:total+n], n)
		total += n
	}

	return total
}
