// Package hzip compresses single files with a Huffman code over byte values.
//
// A container starts with the symbol table (the count of distinct bytes and
// each byte's frequency) followed by the packed code bits. The decoder
// rebuilds the identical tree from the table, so the tree itself is never
// stored.
package hzip

import (
	"encoding/binary"
	"errors"
)

const (
	maxSymbols        = 256
	defaultBufferSize = 64 * 1024
)

// Config holds configuration shared by the Encoder and Decoder.
type Config struct {
	ByteOrder  binary.ByteOrder // Order of the header integers (nil = little-endian)
	BufferSize int              // Read and write buffer size in bytes (0 = 64 KiB)
}

// Option is a functional option for configuring an Encoder or Decoder.
type Option func(*Config)

// WithByteOrder sets the byte order of the int32 fields in the header.
// Containers must be read with the order they were written with.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(c *Config) {
		c.ByteOrder = order
	}
}

// WithBufferSize sets the size of the I/O buffers. Values below 16 bytes
// fall back to the default.
func WithBufferSize(n int) Option {
	return func(c *Config) {
		c.BufferSize = n
	}
}

func newConfig(opts []Option) Config {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c Config) byteOrder() binary.ByteOrder {
	if c.ByteOrder == nil {
		return binary.LittleEndian
	}
	return c.ByteOrder
}

func (c Config) bufferSize() int {
	if c.BufferSize < 16 {
		return defaultBufferSize
	}
	return c.BufferSize
}

var (
	// ErrEmptyInput indicates the input holds no bytes to compress.
	ErrEmptyInput = errors.New("no valid data in input")
	// ErrMalformedContainer indicates a container whose header or payload
	// is inconsistent with itself or with the stream length.
	ErrMalformedContainer = errors.New("malformed container")
	// ErrInputTooLarge indicates a byte frequency that does not fit the
	// header's int32 field.
	ErrInputTooLarge = errors.New("input too large")
)

// IOError reports a file that could not be opened or created.
type IOError struct {
	Op   string // "open" or "create"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}
