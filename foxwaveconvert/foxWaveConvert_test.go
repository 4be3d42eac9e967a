package foxwaveconvert_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/foxenfurter/foxwavestream/foxbytesource"
	"github.com/foxenfurter/foxwavestream/foxwaveconvert"
	"github.com/foxenfurter/foxwavestream/foxwavestream"
)

func almostEqual(a, b float32) bool {
	const eps = 1e-6
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

func TestU8ToF32(t *testing.T) {
	out := make([]float32, 2)
	foxwaveconvert.U8ToF32([]byte{0x00, 0xFF}, out, 2)
	if !almostEqual(out[0], -1.0) || !almostEqual(out[1], 1.0) {
		t.Fatalf("U8ToF32(0x00, 0xFF) = %v, want {-1.0, 1.0}", out)
	}
}

func TestS16ToF32(t *testing.T) {
	out := make([]float32, 2)
	foxwaveconvert.S16ToF32([]byte{0x00, 0x80, 0xFF, 0x7F}, out, 2)
	if !almostEqual(out[0], -1.0) {
		t.Fatalf("S16ToF32(0x8000) = %v, want -1.0", out[0])
	}
	if !almostEqual(out[1], 0.999969) {
		t.Fatalf("S16ToF32(0x7FFF) = %v, want ~0.999969", out[1])
	}
}

func TestS24ToF32SignExtension(t *testing.T) {
	out := make([]float32, 2)
	// 0x800000 (most negative) and 0x7FFFFF (most positive), little-endian bytes.
	foxwaveconvert.S24ToF32([]byte{0x00, 0x00, 0x80, 0xFF, 0xFF, 0x7F}, out, 2)
	if !almostEqual(out[0], -1.0) {
		t.Fatalf("S24ToF32(0x800000) = %v, want -1.0", out[0])
	}
	if out[1] <= 0 || out[1] >= 1.0 {
		t.Fatalf("S24ToF32(0x7FFFFF) = %v, want a value just under 1.0", out[1])
	}
}

func TestS32ToF32(t *testing.T) {
	out := make([]float32, 1)
	foxwaveconvert.S32ToF32([]byte{0x00, 0x00, 0x00, 0x80}, out, 1)
	if !almostEqual(out[0], -1.0) {
		t.Fatalf("S32ToF32(min int32) = %v, want -1.0", out[0])
	}
}

func TestF32ToF32PassThrough(t *testing.T) {
	in := make([]byte, 4)
	binary.LittleEndian.PutUint32(in, math.Float32bits(0.5))
	out := make([]float32, 1)
	foxwaveconvert.F32ToF32(in, out, 1)
	if out[0] != 0.5 {
		t.Fatalf("F32ToF32(0.5) = %v, want exactly 0.5", out[0])
	}
}

func TestF64ToF32Narrowing(t *testing.T) {
	in := make([]byte, 8)
	binary.LittleEndian.PutUint64(in, math.Float64bits(0.25))
	out := make([]float32, 1)
	foxwaveconvert.F64ToF32(in, out, 1)
	if out[0] != 0.25 {
		t.Fatalf("F64ToF32(0.25) = %v, want exactly 0.25", out[0])
	}
}

// TestALawMuLawFullTable exercises all 256 byte values through both
// companding decoders and confirms every output lands in the valid [-1, 1]
// companded range. It does not compare individual outputs against a
// reference value.
func TestALawMuLawFullTable(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)

		out := make([]float32, 1)
		foxwaveconvert.ALawToF32([]byte{b}, out, 1)
		if out[0] < -1.0001 || out[0] > 1.0001 {
			t.Fatalf("ALawToF32(%#x) = %v, out of range", b, out[0])
		}

		foxwaveconvert.MuLawToF32([]byte{b}, out, 1)
		if out[0] < -1.0001 || out[0] > 1.0001 {
			t.Fatalf("MuLawToF32(%#x) = %v, out of range", b, out[0])
		}
	}
}

func TestMuLawSilenceSpotCheck(t *testing.T) {
	out := make([]float32, 1)
	foxwaveconvert.MuLawToF32([]byte{0xFF}, out, 1)
	if out[0] != 0.0 {
		t.Fatalf("MuLawToF32(0xFF) = %v, want 0.0", out[0])
	}
}

func buildFloat32File(channels uint16, sampleRate uint32, payload []byte) []byte {
	fmtChunk := make([]byte, 8+16)
	copy(fmtChunk[0:4], "fmt ")
	binary.LittleEndian.PutUint32(fmtChunk[4:8], 16)
	binary.LittleEndian.PutUint16(fmtChunk[8:10], 3) // IEEE_FLOAT
	binary.LittleEndian.PutUint16(fmtChunk[10:12], channels)
	binary.LittleEndian.PutUint32(fmtChunk[12:16], sampleRate)
	binary.LittleEndian.PutUint32(fmtChunk[16:20], sampleRate*uint32(channels)*4)
	binary.LittleEndian.PutUint16(fmtChunk[20:22], channels*4)
	binary.LittleEndian.PutUint16(fmtChunk[22:24], 32)

	dataChunk := make([]byte, 8+len(payload))
	copy(dataChunk[0:4], "data")
	binary.LittleEndian.PutUint32(dataChunk[4:8], uint32(len(payload)))
	copy(dataChunk[8:], payload)

	var riff [12]byte
	copy(riff[0:4], "RIFF")
	binary.LittleEndian.PutUint32(riff[4:8], uint32(4+len(fmtChunk)+len(dataChunk)))
	copy(riff[8:12], "WAVE")

	var file []byte
	file = append(file, riff[:]...)
	file = append(file, fmtChunk...)
	file = append(file, dataChunk...)
	return file
}

func TestReadAsFloat32FastPathIEEE(t *testing.T) {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint32(payload[0:4], math.Float32bits(-0.5))
	binary.LittleEndian.PutUint32(payload[4:8], math.Float32bits(0.75))

	file := buildFloat32File(1, 8000, payload)
	d, ok := foxwavestream.OpenMemory(file)
	if !ok {
		t.Fatal("OpenMemory returned ok=false")
	}
	defer d.Close()

	out := make([]float32, 2)
	n := foxwaveconvert.ReadAsFloat32(d, 2, out)
	if n != 2 {
		t.Fatalf("ReadAsFloat32 = %d samples, want 2", n)
	}
	if out[0] != -0.5 || out[1] != 0.75 {
		t.Fatalf("ReadAsFloat32 fast path = %v, want [-0.5 0.75]", out)
	}
}

func buildPCM8File(payload []byte) []byte {
	fmtChunk := make([]byte, 8+16)
	copy(fmtChunk[0:4], "fmt ")
	binary.LittleEndian.PutUint32(fmtChunk[4:8], 16)
	binary.LittleEndian.PutUint16(fmtChunk[8:10], 1)
	binary.LittleEndian.PutUint16(fmtChunk[10:12], 1)
	binary.LittleEndian.PutUint32(fmtChunk[12:16], 8000)
	binary.LittleEndian.PutUint32(fmtChunk[16:20], 8000)
	binary.LittleEndian.PutUint16(fmtChunk[20:22], 1)
	binary.LittleEndian.PutUint16(fmtChunk[22:24], 8)

	dataChunk := make([]byte, 8+len(payload))
	copy(dataChunk[0:4], "data")
	binary.LittleEndian.PutUint32(dataChunk[4:8], uint32(len(payload)))
	copy(dataChunk[8:], payload)

	var riff [12]byte
	copy(riff[0:4], "RIFF")
	binary.LittleEndian.PutUint32(riff[4:8], uint32(4+len(fmtChunk)+len(dataChunk)))
	copy(riff[8:12], "WAVE")

	var file []byte
	file = append(file, riff[:]...)
	file = append(file, fmtChunk...)
	file = append(file, dataChunk...)
	return file
}

func TestReadAsFloat32BufferedPathExceedsScratch(t *testing.T) {
	payload := make([]byte, 5000)
	for i := range payload {
		payload[i] = 255
	}

	file := buildPCM8File(payload)
	d, ok := foxwavestream.OpenMemory(file)
	if !ok {
		t.Fatal("OpenMemory returned ok=false")
	}
	defer d.Close()

	out := make([]float32, len(payload))
	n := foxwaveconvert.ReadAsFloat32(d, len(payload), out)
	if n != len(payload) {
		t.Fatalf("ReadAsFloat32 = %d, want %d (buffered path must loop past one scratch buffer)", n, len(payload))
	}
	for i, v := range out {
		if !almostEqual(v, 1.0) {
			t.Fatalf("sample %d = %v, want 1.0", i, v)
		}
	}
}

func TestReadAsFloat32UnsupportedTagReturnsZero(t *testing.T) {
	fmtChunk := make([]byte, 8+16)
	copy(fmtChunk[0:4], "fmt ")
	binary.LittleEndian.PutUint32(fmtChunk[4:8], 16)
	binary.LittleEndian.PutUint16(fmtChunk[8:10], 2) // ADPCM
	binary.LittleEndian.PutUint16(fmtChunk[10:12], 1)
	binary.LittleEndian.PutUint32(fmtChunk[12:16], 8000)
	binary.LittleEndian.PutUint32(fmtChunk[16:20], 8000)
	binary.LittleEndian.PutUint16(fmtChunk[20:22], 1)
	binary.LittleEndian.PutUint16(fmtChunk[22:24], 4)

	payload := []byte{0x00, 0x01}
	dataChunk := make([]byte, 8+len(payload))
	copy(dataChunk[0:4], "data")
	binary.LittleEndian.PutUint32(dataChunk[4:8], uint32(len(payload)))
	copy(dataChunk[8:], payload)

	var riff [12]byte
	copy(riff[0:4], "RIFF")
	binary.LittleEndian.PutUint32(riff[4:8], uint32(4+len(fmtChunk)+len(dataChunk)))
	copy(riff[8:12], "WAVE")

	var file []byte
	file = append(file, riff[:]...)
	file = append(file, fmtChunk...)
	file = append(file, dataChunk...)

	src := foxbytesource.NewMemorySource(file)
	d, ok := foxwavestream.Open(src)
	if !ok {
		t.Fatal("Open returned ok=false")
	}
	defer d.Close()

	out := make([]float32, 2)
	n := foxwaveconvert.ReadAsFloat32(d, 2, out)
	if n != 0 {
		t.Fatalf("ReadAsFloat32 on ADPCM = %d, want 0 (unsupported encoding)", n)
	}
}
