// Package keyboard maps characters to US QWERTY keys and renders a key hint.
package keyboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuichar/internal/ascii"
)

// Key is one physical key with its unshifted and shifted glyphs.
type Key struct {
	Name    string
	Base    rune
	Shifted rune
}

// Label returns the glyph pair printed on the key cap.
func (k Key) Label() string {
	if k.Base >= 'a' && k.Base <= 'z' {
		return strings.ToUpper(string(k.Base))
	}
	return string(k.Shifted) + string(k.Base)
}

// Hint tells the user which key, and whether Shift, produces a character.
type Hint struct {
	Key   Key
	Shift bool
}

// Rows is the US QWERTY layout, top to bottom.
var Rows = [][]Key{
	{
		{"tilde", '`', '~'}, {"1", '1', '!'}, {"2", '2', '@'}, {"3", '3', '#'},
		{"4", '4', '$'}, {"5", '5', '%'}, {"6", '6', '^'}, {"7", '7', '&'},
		{"8", '8', '*'}, {"9", '9', '('}, {"0", '0', ')'}, {"minus", '-', '_'},
		{"equals", '=', '+'},
	},
	{
		{"q", 'q', 'Q'}, {"w", 'w', 'W'}, {"e", 'e', 'E'}, {"r", 'r', 'R'},
		{"t", 't', 'T'}, {"y", 'y', 'Y'}, {"u", 'u', 'U'}, {"i", 'i', 'I'},
		{"o", 'o', 'O'}, {"p", 'p', 'P'}, {"l-bracket", '[', '{'},
		{"r-bracket", ']', '}'}, {"backslash", '\\', '|'},
	},
	{
		{"a", 'a', 'A'}, {"s", 's', 'S'}, {"d", 'd', 'D'}, {"f", 'f', 'F'},
		{"g", 'g', 'G'}, {"h", 'h', 'H'}, {"j", 'j', 'J'}, {"k", 'k', 'K'},
		{"l", 'l', 'L'}, {"semicolon", ';', ':'}, {"s-quote", '\'', '"'},
	},
	{
		{"z", 'z', 'Z'}, {"x", 'x', 'X'}, {"c", 'c', 'C'}, {"v", 'v', 'V'},
		{"b", 'b', 'B'}, {"n", 'n', 'N'}, {"m", 'm', 'M'}, {"comma", ',', '<'},
		{"period", '.', '>'}, {"slash", '/', '?'},
	},
}

// Row offsets in cells, approximating the physical stagger.
var rowIndent = []int{0, 2, 3, 4}

var hints = buildHints()

func buildHints() map[ascii.Char]Hint {
	out := make(map[ascii.Char]Hint, ascii.Count)
	for _, row := range Rows {
		for _, key := range row {
			out[ascii.MustFromRune(key.Base)] = Hint{Key: key}
			out[ascii.MustFromRune(key.Shifted)] = Hint{Key: key, Shift: true}
		}
	}
	return out
}

// HintFor returns the key that types c. Every supported character has one.
func HintFor(c ascii.Char) Hint {
	return hints[c]
}

// String describes the hint, e.g. "Shift+1".
func (h Hint) String() string {
	name := h.Key.Name
	if len(name) == 1 {
		name = strings.ToUpper(name)
	}
	if h.Shift {
		return "Shift+" + name
	}
	return name
}

var (
	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8C8C8C"))
	activeKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1E1E")).
			Background(lipgloss.Color("#C89A3A")).
			Bold(true)
)

const cellWidth = 4

// Render draws the keyboard with the key for c highlighted, plus Shift when
// it is required.
func Render(c ascii.Char) string {
	hint := HintFor(c)
	lines := make([]string, 0, len(Rows)+1)
	for i, row := range Rows {
		var b strings.Builder
		b.WriteString(strings.Repeat(" ", rowIndent[i]))
		for _, key := range row {
			style := keyStyle
			if key == hint.Key {
				style = activeKeyStyle
			}
			b.WriteString(style.Render(cell(key.Label())))
		}
		lines = append(lines, b.String())
	}
	shiftStyle := keyStyle
	if hint.Shift {
		shiftStyle = activeKeyStyle
	}
	lines = append(lines, shiftStyle.Render(runewidth.FillRight(" Shift", cellWidth*3)))
	return strings.Join(lines, "\n")
}

func cell(label string) string {
	padded := runewidth.FillLeft(label, (cellWidth+runewidth.StringWidth(label))/2)
	return runewidth.FillRight(padded, cellWidth)
}
