// Package bitpack packs Huffman codes into bytes and reads them back one bit
// at a time. Bits fill each byte from the most significant end and the last
// byte is padded with zero bits.
package bitpack

import (
	"bufio"
	"errors"
	"io"

	"github.com/icza/bitio"
)

// Writer packs code bits into an underlying io.Writer.
type Writer struct {
	w    *bitio.Writer
	bits int64
}

// NewWriter returns a Writer that writes packed bytes to w.
// Close must be called to emit the final partial byte.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bitio.NewWriter(w)}
}

// WriteCode appends code bits (each 0 or 1) to the stream.
func (w *Writer) WriteCode(code []uint8) error {
	for _, b := range code {
		if err := w.w.WriteBool(b != 0); err != nil {
			return err
		}
	}
	w.bits += int64(len(code))
	return nil
}

// Bits returns the number of code bits written so far.
func (w *Writer) Bits() int64 {
	return w.bits
}

// Bytes returns the number of bytes the stream occupies once closed.
func (w *Writer) Bytes() int64 {
	return PackedSize(w.bits)
}

// Close pads the last partial byte with zeros and flushes it.
// It does not close the underlying writer.
func (w *Writer) Close() error {
	return w.w.Close()
}

// PackedSize returns the number of bytes needed to hold bits.
func PackedSize(bits int64) int64 {
	return (bits + 7) / 8
}

type byteSource interface {
	io.Reader
	io.ByteReader
}

// Reader yields the bits of an underlying stream, most significant first.
type Reader struct {
	src  byteSource
	r    *bitio.Reader
	bits int64
}

// NewReader returns a Reader over r. If r is not an io.ByteReader it is
// buffered, so the caller must not read from r directly afterwards.
func NewReader(r io.Reader) *Reader {
	src, ok := r.(byteSource)
	if !ok {
		src = bufio.NewReader(r)
	}
	return &Reader{src: src, r: bitio.NewReader(src)}
}

// ReadBit returns the next bit. Running out of input is reported as
// io.ErrUnexpectedEOF since callers always know how many symbols remain.
func (r *Reader) ReadBit() (uint8, error) {
	b, err := r.r.ReadBool()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.ErrUnexpectedEOF
		}
		return 0, err
	}
	r.bits++
	if b {
		return 1, nil
	}
	return 0, nil
}

// Bits returns the number of bits consumed so far.
func (r *Reader) Bits() int64 {
	return r.bits
}

// AtEOF reports whether the stream ends with the byte holding the last bit
// read. Any unread padding bits in that byte are ignored. A byte beyond it
// is consumed by the check.
func (r *Reader) AtEOF() (bool, error) {
	_, err := r.src.ReadByte()
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, io.EOF):
		return true, nil
	default:
		return false, err
	}
}
