package hzip

import (
	"errors"
	"fmt"
	"io"

	"github.com/seiflotfy/hzip/tree"
)

// Histogram counts the occurrences of each byte value.
type Histogram [256]int64

// Scan reads r to the end and counts every byte.
func Scan(r io.Reader) (Histogram, error) {
	return scan(r, defaultBufferSize)
}

func scan(r io.Reader, bufSize int) (Histogram, error) {
	var h Histogram
	buf := make([]byte, bufSize)
	for {
		n, err := r.Read(buf)
		h.Add(buf[:n])
		if err != nil {
			if errors.Is(err, io.EOF) {
				return h, nil
			}
			return h, fmt.Errorf("scan input: %w", err)
		}
	}
}

// Add counts the bytes of p.
func (h *Histogram) Add(p []byte) {
	for _, b := range p {
		h[b]++
	}
}

// Distinct returns the number of byte values that occur at least once.
func (h *Histogram) Distinct() int {
	n := 0
	for _, c := range h {
		if c != 0 {
			n++
		}
	}
	return n
}

// Total returns the number of bytes counted.
func (h *Histogram) Total() int64 {
	var total int64
	for _, c := range h {
		total += c
	}
	return total
}

// Symbols lists the bytes that occur, in ascending byte order.
func (h *Histogram) Symbols() []tree.Symbol {
	symbols := make([]tree.Symbol, 0, h.Distinct())
	for v, c := range h {
		if c != 0 {
			symbols = append(symbols, tree.Symbol{Value: byte(v), Weight: c})
		}
	}
	return symbols
}
