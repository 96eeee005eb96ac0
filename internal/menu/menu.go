// Package menu runs the interactive compress/decompress loop.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/seiflotfy/hzip"
)

// ErrInvalidChoice indicates input that is not one of the menu options.
var ErrInvalidChoice = errors.New("invalid menu choice")

// Choice is a menu option.
type Choice int

// Menu options.
const (
	Compress   Choice = 1
	Decompress Choice = 2
	Exit       Choice = 3
)

const banner = `Option 1 - Compress a specific file
Option 2 - Decompress a specific file
Option 3 - Exit
Please choose...
`

// Menu reads choices and paths line by line from its input.
type Menu struct {
	in      *bufio.Scanner
	out     io.Writer
	log     *slog.Logger
	printer *message.Printer
	enc     *hzip.Encoder
	dec     *hzip.Decoder
}

// New returns a Menu reading from in and writing prompts to out. opts
// configure both the encoder and the decoder.
func New(in io.Reader, out io.Writer, logger *slog.Logger, opts ...hzip.Option) *Menu {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Menu{
		in:      bufio.NewScanner(in),
		out:     out,
		log:     logger,
		printer: message.NewPrinter(language.English),
		enc:     hzip.NewEncoder(opts...),
		dec:     hzip.NewDecoder(opts...),
	}
}

// ParseChoice converts a line of input into a Choice.
func ParseChoice(line string) (Choice, error) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidChoice, strings.TrimSpace(line))
	}
	switch c := Choice(n); c {
	case Compress, Decompress, Exit:
		return c, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidChoice, n)
	}
}

// Run shows the menu and serves choices until Exit or the end of input.
// Failed operations are reported and the loop continues; only an error
// reading the input ends Run early.
func (m *Menu) Run() error {
	m.print(banner)
	for {
		line, err := m.readLine()
		if err != nil {
			return ignoreEOF(err)
		}

		choice, err := ParseChoice(line)
		if err != nil {
			m.log.Debug("invalidChoice", "err", err)
			m.print("Please enter a valid option\n")
			continue
		}

		switch choice {
		case Exit:
			return nil
		case Compress:
			err = m.compress()
		case Decompress:
			err = m.decompress()
		}
		if err != nil {
			return ignoreEOF(err)
		}
		m.print(banner)
	}
}

func (m *Menu) compress() error {
	m.print("Please enter the path of the file to be opened.\n")
	inPath, err := m.readLine()
	if err != nil {
		return err
	}
	src, err := hzip.ScanFile(inPath)
	if err != nil {
		m.fail("compressFailed", inPath, err)
		return nil
	}

	m.print("Enter the path and name of the compressed result file:\n")
	outPath, err := m.readLine()
	if err != nil {
		return err
	}
	stats, err := m.enc.CompressFile(src, outPath)
	if err != nil {
		m.fail("compressFailed", outPath, err)
		return nil
	}

	m.log.Debug("compressed", "in", inPath, "out", outPath,
		"symbols", stats.Symbols, "bytes", stats.OriginalBytes, "container", stats.ContainerBytes())
	m.print("Compression completed\n")
	m.summary(stats.OriginalBytes, stats.ContainerBytes(), stats)
	return nil
}

func (m *Menu) decompress() error {
	m.print("Please enter the path of the file to be decompressed:\n")
	inPath, err := m.readLine()
	if err != nil {
		return err
	}
	c, err := m.dec.OpenContainer(inPath)
	if err != nil {
		m.fail("decompressFailed", inPath, err)
		return nil
	}

	m.print("Please enter the path for the decompressed file:\n")
	outPath, err := m.readLine()
	if err != nil {
		c.Close()
		return err
	}
	stats, err := m.dec.DecompressFile(c, outPath)
	if err != nil {
		m.fail("decompressFailed", outPath, err)
		return nil
	}

	m.log.Debug("decompressed", "in", inPath, "out", outPath,
		"symbols", stats.Symbols, "bytes", stats.OriginalBytes)
	m.print("Decompression completed\n")
	m.summary(stats.ContainerBytes(), stats.OriginalBytes, stats)
	return nil
}

// fail reports err to the user and the log.
func (m *Menu) fail(event, path string, err error) {
	m.log.Warn(event, "path", path, "err", err)
	m.print(Message(err) + "\n")
}

// Message returns the user-facing text for an operation error.
func Message(err error) string {
	var ioErr *hzip.IOError
	switch {
	case errors.As(err, &ioErr) && ioErr.Op == "create":
		return "Failed to open the (new) file"
	case errors.As(err, &ioErr):
		return "Failed to open the file"
	case errors.Is(err, hzip.ErrEmptyInput):
		return "No valid data in the file."
	case errors.Is(err, hzip.ErrMalformedContainer):
		return "The file is not a valid compressed file"
	case errors.Is(err, hzip.ErrInputTooLarge):
		return "The file is too large to compress"
	default:
		return "Operation failed: " + err.Error()
	}
}

func (m *Menu) summary(from, to int64, stats hzip.Stats) {
	pct := 0.0
	if from > 0 {
		pct = 100 * float64(to) / float64(from)
	}
	m.printer.Fprintf(m.out, "%d bytes -> %d bytes (%.1f%%), %d symbols, xxh64 %s\n",
		from, to, pct, stats.Symbols, fmt.Sprintf("%016x", stats.Checksum))
}

func (m *Menu) print(s string) {
	io.WriteString(m.out, s)
}

// readLine returns the next input line without surrounding whitespace.
func (m *Menu) readLine() (string, error) {
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
