// Package ascii defines the printable ASCII character set used as the stats key.
package ascii

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	// First is the lowest supported code point ('!').
	First = 33
	// Last is the highest supported code point ('~').
	Last = 126
	// Count is the number of supported characters.
	Count = Last - First + 1
)

// ErrInvalidCharacter is returned for code points outside First..Last.
var ErrInvalidCharacter = errors.New("invalid character")

// InvalidCharacterError reports the rejected code point.
type InvalidCharacterError struct {
	Code rune
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character %U: supported range is %U-%U", e.Code, rune(First), rune(Last))
}

// Is matches ErrInvalidCharacter.
func (e *InvalidCharacterError) Is(target error) bool {
	return target == ErrInvalidCharacter
}

// Char is one printable, non-space ASCII symbol. The zero value is not valid;
// construct with FromRune.
type Char byte

// FromRune validates r and returns it as a Char.
func FromRune(r rune) (Char, error) {
	if r < First || r > Last {
		return 0, &InvalidCharacterError{Code: r}
	}
	return Char(r), nil
}

// MustFromRune is like FromRune but panics on invalid input.
func MustFromRune(r rune) Char {
	c, err := FromRune(r)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse converts a single-glyph string to a Char.
func Parse(s string) (Char, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, fmt.Errorf("expected a single character, got %q", s)
	}
	return FromRune(r)
}

// All returns the supported characters in ascending order.
func All() []Char {
	out := make([]Char, 0, Count)
	for code := First; code <= Last; code++ {
		out = append(out, Char(code))
	}
	return out
}

// Valid reports whether c is inside the supported range.
func (c Char) Valid() bool {
	return c >= First && c <= Last
}

// Rune returns the character as a rune.
func (c Char) Rune() rune {
	return rune(c)
}

// String returns the glyph.
func (c Char) String() string {
	return string(rune(c))
}

// Less orders characters by code point.
func (c Char) Less(other Char) bool {
	return c < other
}

// Index returns the position of c in All.
func (c Char) Index() int {
	return int(c) - First
}

// MarshalText renders the glyph so Char can key JSON objects.
func (c Char) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, &InvalidCharacterError{Code: rune(c)}
	}
	return []byte{byte(c)}, nil
}

// UnmarshalText parses a single glyph.
func (c *Char) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
