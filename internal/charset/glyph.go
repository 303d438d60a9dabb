package charset

// Kind is the display annotation of a practice character.
type Kind int

const (
	KindNormal Kind = iota
	KindSpace
	KindControl
	KindAccented
)

func (k Kind) String() string {
	switch k {
	case KindSpace:
		return "space"
	case KindControl:
		return "control"
	case KindAccented:
		return "accented"
	default:
		return "normal"
	}
}

// Glyph is one annotated character of a practice line.
type Glyph struct {
	Char rune
	Kind Kind
}

// Placeholder is the hint shown for characters without a table entry.
const Placeholder = "-"

var hints = map[rune]string{
	' ':  "space bar",
	'!':  "shift + 1",
	'@':  "shift + 2",
	'#':  "shift + 3",
	'$':  "shift + 4",
	'%':  "shift + 5",
	'^':  "shift + 6",
	'&':  "shift + 7",
	'*':  "shift + 8",
	'(':  "shift + 9",
	')':  "shift + 0",
	'{':  "shift + [",
	'}':  "shift + ]",
	'"':  "shift + '",
	'+':  "shift + =",
	'|':  "shift + \\",
	'_':  "shift + -",
	'?':  "shift + /",
	':':  "shift + ;",
	'~':  "shift + `",
	'å':  "compose + a + a",
	'Å':  "compose + A + A",
	'ä':  "compose + a + \"",
	'Ä':  "compose + A + \"",
	'ö':  "compose + o + \"",
	'Ö':  "compose + O + \"",
	'\\': "backslash",
}

// Hint returns a short typing hint for r.
func Hint(r rune) string {
	if isControl(r) {
		return "control + " + string(controlLetter(r))
	}
	if h, ok := hints[r]; ok {
		return h
	}
	return Placeholder
}

// Label returns a printable representation of r, using caret notation for
// control characters.
func Label(r rune) string {
	if isControl(r) {
		return "^" + string(Letter(r))
	}
	if r == ' ' {
		return "<space>"
	}
	return string(r)
}

// Letter returns the letter shown in place of a control character.
func Letter(r rune) rune {
	if isControl(r) {
		return controlLetter(r) - 'a' + 'A'
	}
	return r
}

func isControl(r rune) bool {
	return r >= 0x01 && r <= 0x1a
}

func controlLetter(r rune) rune {
	return 'a' + r - 1
}
