// Package input turns raw terminal units into code points.
package input

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

const (
	// Cancel is the code point of Ctrl-C, which aborts a line.
	Cancel rune = 0x03
	// Replacement is returned for undecodable two-unit sequences.
	Replacement rune = utf8.RuneError

	highMin = 128
	highMax = 255
)

// DefaultEncoding is the encoding used when none is configured.
const DefaultEncoding = "utf-8"

// Source yields raw input units: 0-255 for bytes, larger values for
// out-of-band key codes. ReadUnit blocks until a unit is available.
type Source interface {
	ReadUnit() (int, error)
}

// LookupEncoding resolves a WHATWG encoding label.
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Decoder reads code points from a Source. Its only state is a one-unit
// pushback slot.
type Decoder struct {
	src        Source
	enc        encoding.Encoding
	pending    int
	hasPending bool
}

// NewDecoder returns a Decoder over src. A nil enc means UTF-8.
func NewDecoder(src Source, enc encoding.Encoding) *Decoder {
	if enc == nil {
		enc = unicode.UTF8
	}
	return &Decoder{src: src, enc: enc}
}

// Unread pushes u back so that the next read returns it. Only one unit can
// be pending; a second Unread replaces the first.
func (d *Decoder) Unread(u int) {
	d.pending = u
	d.hasPending = true
}

// NextCodePoint returns the next complete code point or control value. A
// high unit followed by another high unit is decoded as one character; decode
// failures yield Replacement. Errors come only from the Source.
func (d *Decoder) NextCodePoint() (rune, error) {
	u1, err := d.read()
	if err != nil {
		return 0, err
	}
	if !isHigh(u1) {
		return rune(u1), nil
	}
	u2, err := d.read()
	if err != nil {
		return 0, err
	}
	if !isHigh(u2) {
		d.Unread(u2)
		return rune(u1), nil
	}
	return d.decode(byte(u1), byte(u2)), nil
}

func (d *Decoder) read() (int, error) {
	if d.hasPending {
		d.hasPending = false
		return d.pending, nil
	}
	return d.src.ReadUnit()
}

func (d *Decoder) decode(b1, b2 byte) rune {
	out, err := d.enc.NewDecoder().Bytes([]byte{b1, b2})
	if err != nil || utf8.RuneCount(out) != 1 {
		return Replacement
	}
	r, _ := utf8.DecodeRune(out)
	return r
}

func isHigh(u int) bool {
	return u >= highMin && u <= highMax
}

// CheckTypeable rejects characters the Decoder can never return under enc:
// anything that does not encode to a single ASCII unit or to exactly two high
// units decoding back to the same character. A nil enc means UTF-8.
func CheckTypeable(enc encoding.Encoding, chars []rune) error {
	if enc == nil {
		enc = unicode.UTF8
	}
	var bad []string
	for _, r := range chars {
		if !typeable(enc, r) {
			bad = append(bad, fmt.Sprintf("%q", r))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("characters cannot be typed in this encoding: %s", strings.Join(bad, ", "))
	}
	return nil
}

func typeable(enc encoding.Encoding, r rune) bool {
	if r < highMin {
		return true
	}
	b, err := enc.NewEncoder().Bytes([]byte(string(r)))
	if err != nil || len(b) != 2 || !isHigh(int(b[0])) || !isHigh(int(b[1])) {
		return false
	}
	d := &Decoder{enc: enc}
	return d.decode(b[0], b[1]) == r
}
