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

// Decoder reads containers. Like Encoder it holds only configuration.
type Decoder struct {
	config Config
}

// NewDecoder creates a new decoder with the given options.
func NewDecoder(opts ...Option) *Decoder {
	return &Decoder{config: newConfig(opts)}
}

// Decompress reads a container from src and writes the original bytes to dst.
func (d *Decoder) Decompress(dst io.Writer, src io.Reader) (Stats, error) {
	br := bufio.NewReaderSize(src, d.config.bufferSize())
	hdr := Header{order: d.config.byteOrder()}
	if _, err := hdr.ReadFrom(br); err != nil {
		return Stats{}, err
	}
	t, err := tree.Build(hdr.Symbols)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrMalformedContainer, err)
	}
	return d.decode(dst, br, &hdr, t)
}

// DecodeBytes decompresses a whole container held in memory.
func (d *Decoder) DecodeBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.Decompress(&buf, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decode walks t one payload bit at a time, emitting a byte at every leaf
// and restarting from the root, until the header's total has been produced.
// Padding bits after the last symbol are never examined.
func (d *Decoder) decode(dst io.Writer, src *bufio.Reader, hdr *Header, t *tree.Tree) (Stats, error) {
	bufSize := d.config.bufferSize()
	bw := bufio.NewWriterSize(dst, bufSize)
	digest := xxhash.New()
	out := make([]byte, 0, bufSize)
	flush := func() error {
		_, _ = digest.Write(out)
		_, err := bw.Write(out)
		out = out[:0]
		return err
	}

	pr := bitpack.NewReader(src)
	remaining := hdr.Total()
	root := t.Root()
	cur := root
	for remaining > 0 {
		bit, err := pr.ReadBit()
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return Stats{}, fmt.Errorf("%w: payload ends after %d bits with %d bytes left to decode",
					ErrMalformedContainer, pr.Bits(), remaining)
			}
			return Stats{}, fmt.Errorf("read payload: %w", err)
		}
		cur = t.Child(cur, bit)
		if !t.IsLeaf(cur) {
			continue
		}
		out = append(out, t.Node(cur).Value)
		if len(out) == cap(out) {
			if err := flush(); err != nil {
				return Stats{}, fmt.Errorf("write output: %w", err)
			}
		}
		remaining--
		cur = root
	}
	if err := flush(); err != nil {
		return Stats{}, fmt.Errorf("write output: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return Stats{}, fmt.Errorf("write output: %w", err)
	}

	eof, err := pr.AtEOF()
	if err != nil {
		return Stats{}, fmt.Errorf("read payload: %w", err)
	}
	payloadBytes := bitpack.PackedSize(pr.Bits())
	if !eof {
		return Stats{}, fmt.Errorf("%w: trailing data after payload byte %d",
			ErrMalformedContainer, hdr.Size()+payloadBytes)
	}

	return Stats{
		Symbols:       len(hdr.Symbols),
		OriginalBytes: hdr.Total(),
		HeaderBytes:   hdr.Size(),
		PayloadBytes:  payloadBytes,
		EncodedBits:   pr.Bits(),
		Checksum:      digest.Sum64(),
	}, nil
}
