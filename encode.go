package hzip

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/seiflotfy/hzip/bitpack"
	"github.com/seiflotfy/hzip/tree"
)

// Encoder writes containers. It holds only configuration, so one Encoder
// may serve any number of sequential or concurrent calls.
type Encoder struct {
	config Config
}

// NewEncoder creates a new encoder with the given options.
func NewEncoder(opts ...Option) *Encoder {
	return &Encoder{config: newConfig(opts)}
}

// Encode writes hdr followed by the codes of every byte read from src.
// src must yield exactly the bytes hdr was built from.
func (e *Encoder) Encode(dst io.Writer, src io.Reader, hdr Header) (Stats, error) {
	hdr.order = e.config.byteOrder()
	if err := hdr.validate(); err != nil {
		return Stats{}, fmt.Errorf("invalid header: %w", err)
	}
	t, err := tree.Build(hdr.Symbols)
	if err != nil {
		return Stats{}, err
	}
	codes := t.Codes()

	bufSize := e.config.bufferSize()
	bw := bufio.NewWriterSize(dst, bufSize)
	headerBytes, err := hdr.WriteTo(bw)
	if err != nil {
		return Stats{}, fmt.Errorf("write header: %w", err)
	}

	pw := bitpack.NewWriter(bw)
	digest := xxhash.New()
	buf := make([]byte, bufSize)
	var read int64
	for {
		n, rerr := src.Read(buf)
		chunk := buf[:n]
		_, _ = digest.Write(chunk)
		for i, b := range chunk {
			code := codes[b]
			if code == nil {
				return Stats{}, fmt.Errorf("byte 0x%02x at offset %d is not in the symbol table", b, read+int64(i))
			}
			if err := pw.WriteCode(code); err != nil {
				return Stats{}, fmt.Errorf("write payload: %w", err)
			}
		}
		read += int64(n)
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			return Stats{}, fmt.Errorf("read input at offset %d: %w", read, rerr)
		}
	}

	if err := pw.Close(); err != nil {
		return Stats{}, fmt.Errorf("write payload: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return Stats{}, fmt.Errorf("write payload: %w", err)
	}
	if total := hdr.Total(); read != total {
		return Stats{}, fmt.Errorf("input changed between passes: read %d bytes, header declares %d", read, total)
	}

	return Stats{
		Symbols:       len(hdr.Symbols),
		OriginalBytes: read,
		HeaderBytes:   headerBytes,
		PayloadBytes:  pw.Bytes(),
		EncodedBits:   pw.Bits(),
		Checksum:      digest.Sum64(),
	}, nil
}

// Compress counts the bytes of src, rewinds it and writes the container.
// Nothing is written to dst when src is empty.
func (e *Encoder) Compress(dst io.Writer, src io.ReadSeeker) (Stats, error) {
	start, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return Stats{}, fmt.Errorf("seek input: %w", err)
	}
	hist, err := scan(src, e.config.bufferSize())
	if err != nil {
		return Stats{}, err
	}
	hdr, err := NewHeader(&hist)
	if err != nil {
		return Stats{}, err
	}
	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return Stats{}, fmt.Errorf("rewind input: %w", err)
	}
	return e.Encode(dst, src, hdr)
}

// EncodeBytes compresses data into a new container.
func (e *Encoder) EncodeBytes(data []byte) ([]byte, error) {
	var hist Histogram
	hist.Add(data)
	hdr, err := NewHeader(&hist)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := e.Encode(&buf, bytes.NewReader(data), hdr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
