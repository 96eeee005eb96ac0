package hzip

import (
	"bufio"
	"fmt"
	"os"

	"github.com/seiflotfy/hzip/bitpack"
	"github.com/seiflotfy/hzip/tree"
)

// ScannedFile is an input file whose bytes have been counted.
type ScannedFile struct {
	Path   string
	Header Header
}

// ScanFile counts the bytes of the file at path. It fails with ErrEmptyInput
// for an empty file and never creates or touches any output.
func ScanFile(path string) (*ScannedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	hist, err := Scan(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	hdr, err := NewHeader(&hist)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &ScannedFile{Path: path, Header: hdr}, nil
}

// CompressFile reads src a second time and writes its container to outPath.
// An output file that was created is left in place if a later step fails.
func (e *Encoder) CompressFile(src *ScannedFile, outPath string) (Stats, error) {
	in, err := os.Open(src.Path)
	if err != nil {
		return Stats{}, &IOError{Op: "open", Path: src.Path, Err: err}
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return Stats{}, &IOError{Op: "create", Path: outPath, Err: err}
	}
	stats, err := e.Encode(out, in, src.Header)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", outPath, cerr)
	}
	return stats, err
}

// CompressFile compresses the file at inPath into a container at outPath.
func CompressFile(inPath, outPath string, opts ...Option) (Stats, error) {
	src, err := ScanFile(inPath)
	if err != nil {
		return Stats{}, err
	}
	return NewEncoder(opts...).CompressFile(src, outPath)
}

// ContainerFile is an open container whose header has been read.
type ContainerFile struct {
	Path   string
	Header Header

	f    *os.File
	r    *bufio.Reader
	tree *tree.Tree
}

// OpenContainer opens the container at path and reads its header. The file
// size must match the size the header implies exactly.
func (d *Decoder) OpenContainer(path string) (*ContainerFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	c, err := d.openContainer(path, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return c, nil
}

func (d *Decoder) openContainer(path string, f *os.File) (*ContainerFile, error) {
	r := bufio.NewReaderSize(f, d.config.bufferSize())
	hdr := Header{order: d.config.byteOrder()}
	if _, err := hdr.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t, err := tree.Build(hdr.Symbols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrMalformedContainer, err)
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.Mode().IsRegular() {
		want := hdr.Size() + bitpack.PackedSize(t.Codes().EncodedBits(hdr.Symbols))
		if fi.Size() != want {
			return nil, fmt.Errorf("%s: %w: file is %d bytes, header implies %d",
				path, ErrMalformedContainer, fi.Size(), want)
		}
	}

	return &ContainerFile{Path: path, Header: hdr, f: f, r: r, tree: t}, nil
}

// Close closes the underlying file.
func (c *ContainerFile) Close() error {
	return c.f.Close()
}

// DecompressFile decodes c into a new file at outPath and closes c.
func (d *Decoder) DecompressFile(c *ContainerFile, outPath string) (Stats, error) {
	defer c.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return Stats{}, &IOError{Op: "create", Path: outPath, Err: err}
	}
	stats, err := d.decode(out, c.r, &c.Header, c.tree)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", outPath, cerr)
	}
	return stats, err
}

// DecompressFile decodes the container at inPath into outPath.
func DecompressFile(inPath, outPath string, opts ...Option) (Stats, error) {
	d := NewDecoder(opts...)
	c, err := d.OpenContainer(inPath)
	if err != nil {
		return Stats{}, err
	}
	return d.DecompressFile(c, outPath)
}
