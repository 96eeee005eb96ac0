package hzip

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/seiflotfy/hzip/tree"
)

// Wire format:
//
//	count    = int32
//	repeat count times:
//	  value  = uint8
//	  freq   = int32
//	payload  = packed code bits, MSB first, last byte zero-padded
//
// The integers use the configured byte order. There is no magic number,
// version or checksum; the layout is purely positional. The payload length
// follows from the table: the sum over symbols of freq × code length, in
// bits, rounded up to whole bytes.
const (
	countFieldSize  = 4
	symbolEntrySize = 1 + 4
)

// Header is the symbol table at the start of a container.
type Header struct {
	Symbols []tree.Symbol // ascending byte order when produced by NewHeader

	order binary.ByteOrder
}

// NewHeader builds the header for the counted bytes.
func NewHeader(h *Histogram) (Header, error) {
	symbols := h.Symbols()
	if len(symbols) == 0 {
		return Header{}, ErrEmptyInput
	}
	for _, s := range symbols {
		if s.Weight > math.MaxInt32 {
			return Header{}, fmt.Errorf("%w: byte 0x%02x occurs %d times", ErrInputTooLarge, s.Value, s.Weight)
		}
	}
	return Header{Symbols: symbols}, nil
}

func (h *Header) byteOrder() binary.ByteOrder {
	if h.order == nil {
		return binary.LittleEndian
	}
	return h.order
}

// Size returns the encoded size of the header in bytes.
func (h *Header) Size() int64 {
	return countFieldSize + int64(len(h.Symbols))*symbolEntrySize
}

// Total returns the number of bytes the container decodes to.
func (h *Header) Total() int64 {
	var total int64
	for _, s := range h.Symbols {
		total += s.Weight
	}
	return total
}

func (h *Header) validate() error {
	if len(h.Symbols) == 0 || len(h.Symbols) > maxSymbols {
		return fmt.Errorf("%w: symbol count %d", ErrMalformedContainer, len(h.Symbols))
	}
	var seen [256]bool
	for i, s := range h.Symbols {
		if s.Weight <= 0 || s.Weight > math.MaxInt32 {
			return fmt.Errorf("%w: symbol %d (byte 0x%02x) has frequency %d", ErrMalformedContainer, i, s.Value, s.Weight)
		}
		if seen[s.Value] {
			return fmt.Errorf("%w: symbol %d repeats byte 0x%02x", ErrMalformedContainer, i, s.Value)
		}
		seen[s.Value] = true
	}
	return nil
}

func writeBytes(w io.Writer, b []byte) (int64, error) {
	n, err := w.Write(b)
	if err != nil {
		return int64(n), err
	}
	if n != len(b) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

// WriteTo serializes the header to w.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	if err := h.validate(); err != nil {
		return 0, fmt.Errorf("invalid header: %w", err)
	}

	order := h.byteOrder()
	buf := make([]byte, h.Size())
	order.PutUint32(buf, uint32(int32(len(h.Symbols))))
	off := countFieldSize
	for _, s := range h.Symbols {
		buf[off] = s.Value
		order.PutUint32(buf[off+1:], uint32(int32(s.Weight)))
		off += symbolEntrySize
	}
	return writeBytes(w, buf)
}

// ReadFrom deserializes a header from r, leaving r at the first payload byte.
func (h *Header) ReadFrom(r io.Reader) (int64, error) {
	order := h.byteOrder()
	var total int64

	var countBuf [countFieldSize]byte
	n, err := io.ReadFull(r, countBuf[:])
	total += int64(n)
	if err != nil {
		return total, headerReadError("symbol count", 0, err)
	}
	count := int32(order.Uint32(countBuf[:]))
	if count <= 0 || count > maxSymbols {
		return total, fmt.Errorf("%w: symbol count %d at offset 0", ErrMalformedContainer, count)
	}

	entries := make([]byte, int(count)*symbolEntrySize)
	n, err = io.ReadFull(r, entries)
	total += int64(n)
	if err != nil {
		return total, headerReadError("symbol table", countFieldSize, err)
	}

	symbols := make([]tree.Symbol, count)
	for i := range symbols {
		e := entries[i*symbolEntrySize:]
		symbols[i] = tree.Symbol{
			Value:  e[0],
			Weight: int64(int32(order.Uint32(e[1:]))),
		}
	}

	tmp := Header{Symbols: symbols, order: h.order}
	if err := tmp.validate(); err != nil {
		return total, err
	}
	*h = tmp
	return total, nil
}

func headerReadError(what string, offset int64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s at offset %d", ErrMalformedContainer, what, offset)
	}
	return fmt.Errorf("read %s at offset %d: %w", what, offset, err)
}

// PayloadBits returns the exact number of code bits the payload holds.
func (h *Header) PayloadBits() (int64, error) {
	t, err := tree.Build(h.Symbols)
	if err != nil {
		return 0, err
	}
	return t.Codes().EncodedBits(h.Symbols), nil
}
