package hzip

// Stats describes one compression or decompression run.
type Stats struct {
	Symbols       int    // distinct byte values
	OriginalBytes int64  // size of the uncompressed data
	HeaderBytes   int64  // size of the symbol table
	PayloadBytes  int64  // size of the packed code bits
	EncodedBits   int64  // code bits before padding
	Checksum      uint64 // xxh64 of the uncompressed data
}

// ContainerBytes returns the total size of the container.
func (s Stats) ContainerBytes() int64 {
	return s.HeaderBytes + s.PayloadBytes
}

// Ratio returns the container size as a fraction of the original size.
func (s Stats) Ratio() float64 {
	if s.OriginalBytes == 0 {
		return 0
	}
	return float64(s.ContainerBytes()) / float64(s.OriginalBytes)
}

// PaddingBits returns the number of zero bits filling the last payload byte.
func (s Stats) PaddingBits() int64 {
	return s.PayloadBytes*8 - s.EncodedBits
}
