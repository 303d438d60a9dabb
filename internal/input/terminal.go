package input

import (
	"errors"
	"fmt"
	"os"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// Terminal is a Source reading stdin in raw mode. Pending reads can be
// canceled from another goroutine.
type Terminal struct {
	fd     int
	state  *term.State
	reader cancelreader.CancelReader
	src    *ReaderSource
}

// OpenTerminal switches f into raw mode and wraps it in a cancelable reader.
func OpenTerminal(f *os.File) (*Terminal, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("input is not a terminal")
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	reader, err := cancelreader.NewReader(f)
	if err != nil {
		if rerr := term.Restore(fd, state); rerr != nil {
			// Best-effort restore on setup failure.
			_ = rerr
		}
		return nil, fmt.Errorf("failed to create input reader: %w", err)
	}
	return &Terminal{
		fd:     fd,
		state:  state,
		reader: reader,
		src:    NewReaderSource(reader),
	}, nil
}

// ReadUnit implements Source.
func (t *Terminal) ReadUnit() (int, error) {
	return t.src.ReadUnit()
}

// Cancel unblocks a pending ReadUnit; it and later reads fail with
// cancelreader.ErrCanceled.
func (t *Terminal) Cancel() bool {
	return t.reader.Cancel()
}

// Close releases the reader and restores the terminal mode.
func (t *Terminal) Close() error {
	cerr := t.reader.Close()
	if err := term.Restore(t.fd, t.state); err != nil {
		return fmt.Errorf("failed to restore terminal: %w", err)
	}
	if cerr != nil {
		return fmt.Errorf("failed to close input reader: %w", cerr)
	}
	return nil
}

// Size returns the terminal dimensions, or 80x24 when unknown.
func Size(f *os.File) (width, height int) {
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// IsCanceled reports whether err comes from a canceled Terminal read.
func IsCanceled(err error) bool {
	return errors.Is(err, cancelreader.ErrCanceled)
}
