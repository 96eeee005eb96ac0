package hzip

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
)

// ============================================================================
// Helper Functions
// ============================================================================

func mustEncode(t testing.TB, enc *Encoder, data []byte) []byte {
	t.Helper()
	out, err := enc.EncodeBytes(data)
	if err != nil {
		t.Fatalf("EncodeBytes failed: %v", err)
	}
	return out
}

func mustDecode(t testing.TB, dec *Decoder, data []byte) []byte {
	t.Helper()
	out, err := dec.DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes failed: %v", err)
	}
	return out
}

func randomBytes(seed int64, n int, alphabet int) []byte {
	rng := rand.New(rand.NewSource(seed))
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(rng.Intn(alphabet))
	}
	return data
}

func everyByte() []byte {
	b := make([]byte, 256)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

// ============================================================================
// Container Layout Tests
// ============================================================================

func TestEncodeAAAB(t *testing.T) {
	got := mustEncode(t, NewEncoder(), []byte("aaab"))
	want := []byte{
		0x02, 0x00, 0x00, 0x00, // two symbols
		'a', 0x03, 0x00, 0x00, 0x00,
		'b', 0x01, 0x00, 0x00, 0x00,
		0xE0, // a=1 a=1 a=1 b=0, then four padding zeros
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("container mismatch:\n got %x\nwant %x", got, want)
	}
	if back := mustDecode(t, NewDecoder(), got); string(back) != "aaab" {
		t.Fatalf("round trip: got %q want %q", back, "aaab")
	}
}

func TestEncodeSingleSymbol(t *testing.T) {
	input := []byte("zzzzz")
	got := mustEncode(t, NewEncoder(), input)
	want := []byte{
		0x01, 0x00, 0x00, 0x00,
		'z', 0x05, 0x00, 0x00, 0x00,
		0xF8, // five one-bit codes "1"
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("container mismatch:\n got %x\nwant %x", got, want)
	}

	back := mustDecode(t, NewDecoder(), got)
	if !bytes.Equal(back, input) {
		t.Fatalf("round trip: got %q want %q", back, input)
	}
}

func TestEncodeSingleSymbolLong(t *testing.T) {
	input := bytes.Repeat([]byte{0x00}, 1000)
	got := mustEncode(t, NewEncoder(), input)
	if len(got) != 4+5+125 {
		t.Fatalf("container size: got %d want %d", len(got), 4+5+125)
	}
	back := mustDecode(t, NewDecoder(), got)
	if !bytes.Equal(back, input) {
		t.Fatalf("round trip mismatch: got %d bytes want %d", len(back), len(input))
	}
}

func TestEncodeExactByteBoundary(t *testing.T) {
	// Seven one-bit codes for a and one for b fill exactly one byte.
	got := mustEncode(t, NewEncoder(), []byte("aaaaaaab"))
	if len(got) != 4+10+1 {
		t.Fatalf("container size: got %d want %d", len(got), 4+10+1)
	}
	if last := got[len(got)-1]; last != 0xFE {
		t.Fatalf("payload byte: got %#x want %#x", last, 0xFE)
	}

	var buf bytes.Buffer
	stats, err := NewEncoder().Compress(&buf, bytes.NewReader([]byte("aaaaaaabaaaaaaab")))
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if stats.EncodedBits != 16 || stats.PayloadBytes != 2 || stats.PaddingBits() != 0 {
		t.Fatalf("stats: bits=%d payload=%d padding=%d", stats.EncodedBits, stats.PayloadBytes, stats.PaddingBits())
	}
	if int64(buf.Len()) != stats.ContainerBytes() {
		t.Fatalf("container bytes: got %d want %d", buf.Len(), stats.ContainerBytes())
	}
}

func TestEncodeBigEndianHeader(t *testing.T) {
	enc := NewEncoder(WithByteOrder(binary.BigEndian))
	got := mustEncode(t, enc, []byte("aaab"))
	want := []byte{
		0x00, 0x00, 0x00, 0x02,
		'a', 0x00, 0x00, 0x00, 0x03,
		'b', 0x00, 0x00, 0x00, 0x01,
		0xE0,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("container mismatch:\n got %x\nwant %x", got, want)
	}

	back := mustDecode(t, NewDecoder(WithByteOrder(binary.BigEndian)), got)
	if string(back) != "aaab" {
		t.Fatalf("round trip: got %q", back)
	}

	// Read with the wrong order the symbol count is 0x02000000.
	if _, err := NewDecoder().DecodeBytes(got); !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("expected ErrMalformedContainer, got %v", err)
	}
}

func TestEncodeEmptyInput(t *testing.T) {
	if _, err := NewEncoder().EncodeBytes(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}

	var buf bytes.Buffer
	if _, err := NewEncoder().Compress(&buf, bytes.NewReader(nil)); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty input, got %d bytes", buf.Len())
	}
}

// ============================================================================
// Round Trip Tests
// ============================================================================

func TestRoundTrip(t *testing.T) {
	cases := map[string][]byte{
		"single byte":    {0x42},
		"two bytes":      {0x00, 0xFF},
		"all 0xFF":       bytes.Repeat([]byte{0xFF}, 33),
		"text":           []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 50)),
		"every byte":     everyByte(),
		"random 4":       randomBytes(1, 10000, 4),
		"random 256":     randomBytes(2, 65536, 256),
		"skewed":         append(bytes.Repeat([]byte{'x'}, 5000), randomBytes(3, 50, 256)...),
		"nul and 0xff":   []byte{0, 0, 0, 0xFF, 0xFF, 0, 0xFF},
		"buffer crosser": randomBytes(4, defaultBufferSize*2+17, 31),
	}

	enc := NewEncoder()
	dec := NewDecoder()
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			packed := mustEncode(t, enc, input)
			back := mustDecode(t, dec, packed)
			if !bytes.Equal(back, input) {
				t.Fatalf("round trip mismatch: got %d bytes want %d", len(back), len(input))
			}
		})
	}
}

func TestRoundTripSmallBuffers(t *testing.T) {
	input := randomBytes(5, 5000, 200)
	enc := NewEncoder(WithBufferSize(16))
	dec := NewDecoder(WithBufferSize(16))

	back := mustDecode(t, dec, mustEncode(t, enc, input))
	if !bytes.Equal(back, input) {
		t.Fatalf("round trip mismatch with small buffers")
	}
}

func TestCompressRewindsToStartOffset(t *testing.T) {
	data := []byte("skip-this|keep this part")
	src := bytes.NewReader(data)
	if _, err := src.Seek(10, 0); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}

	var buf bytes.Buffer
	if _, err := NewEncoder().Compress(&buf, src); err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	back := mustDecode(t, NewDecoder(), buf.Bytes())
	if string(back) != "keep this part" {
		t.Fatalf("got %q want %q", back, "keep this part")
	}
}

func TestDeterministicOutput(t *testing.T) {
	input := randomBytes(6, 20000, 97)
	first := mustEncode(t, NewEncoder(), input)
	for i := 0; i < 3; i++ {
		again := mustEncode(t, NewEncoder(), input)
		if !bytes.Equal(first, again) {
			t.Fatalf("run %d produced different bytes", i)
		}
	}
}

func TestStatsChecksumMatches(t *testing.T) {
	input := []byte(strings.Repeat("abracadabra", 100))

	var packed bytes.Buffer
	encStats, err := NewEncoder().Compress(&packed, bytes.NewReader(input))
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	var unpacked bytes.Buffer
	decStats, err := NewDecoder().Decompress(&unpacked, bytes.NewReader(packed.Bytes()))
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}

	want := xxhash.Sum64(input)
	if encStats.Checksum != want || decStats.Checksum != want {
		t.Fatalf("checksum: enc=%x dec=%x want=%x", encStats.Checksum, decStats.Checksum, want)
	}
	if encStats.Symbols != 5 || decStats.Symbols != 5 {
		t.Fatalf("symbols: enc=%d dec=%d want 5", encStats.Symbols, decStats.Symbols)
	}
	if encStats.OriginalBytes != int64(len(input)) || decStats.OriginalBytes != int64(len(input)) {
		t.Fatalf("original bytes: enc=%d dec=%d", encStats.OriginalBytes, decStats.OriginalBytes)
	}
	if encStats.EncodedBits != decStats.EncodedBits || encStats.PayloadBytes != decStats.PayloadBytes {
		t.Fatalf("payload stats differ: enc=%+v dec=%+v", encStats, decStats)
	}
	if encStats.Ratio() >= 1 {
		t.Fatalf("expected repetitive text to shrink, ratio %.3f", encStats.Ratio())
	}
}

// ============================================================================
// Encoder Misuse Tests
// ============================================================================

func TestEncodeRejectsByteMissingFromHeader(t *testing.T) {
	var hist Histogram
	hist.Add([]byte("ab"))
	hdr, err := NewHeader(&hist)
	if err != nil {
		t.Fatalf("NewHeader failed: %v", err)
	}

	var buf bytes.Buffer
	_, err = NewEncoder().Encode(&buf, strings.NewReader("abc"), hdr)
	if err == nil || !strings.Contains(err.Error(), "not in the symbol table") {
		t.Fatalf("expected symbol table error, got %v", err)
	}
}

func TestEncodeRejectsChangedInput(t *testing.T) {
	var hist Histogram
	hist.Add([]byte("aabb"))
	hdr, err := NewHeader(&hist)
	if err != nil {
		t.Fatalf("NewHeader failed: %v", err)
	}

	var buf bytes.Buffer
	_, err = NewEncoder().Encode(&buf, strings.NewReader("ab"), hdr)
	if err == nil || !strings.Contains(err.Error(), "changed between passes") {
		t.Fatalf("expected changed input error, got %v", err)
	}
}

func TestNewHeaderRejectsOversizedFrequency(t *testing.T) {
	var hist Histogram
	hist['q'] = 1 << 31
	if _, err := NewHeader(&hist); !errors.Is(err, ErrInputTooLarge) {
		t.Fatalf("expected ErrInputTooLarge, got %v", err)
	}
}
