// internal/css/values.go
package css

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KeywordValue ValueKind = iota
	LengthValue
	ColorValue
)

// Unit is the unit of a length value.
type Unit int

const (
	Px Unit = iota
)

func (u Unit) String() string {
	switch u {
	case Px:
		return "px"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}

// Color represents an RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Value is a specified CSS value. Only the field matching Kind is meaningful.
// Values are comparable with ==.
type Value struct {
	Kind    ValueKind
	Keyword string
	Length  float64
	Unit    Unit
	Color   Color
}

// Keyword creates a keyword value such as "auto" or "block".
func Keyword(name string) Value {
	return Value{Kind: KeywordValue, Keyword: name}
}

// Length creates a length value.
func Length(v float64, unit Unit) Value {
	return Value{Kind: LengthValue, Length: v, Unit: unit}
}

// PxLength is shorthand for Length(v, Px).
func PxLength(v float64) Value {
	return Length(v, Px)
}

// ColorOf creates a color value.
func ColorOf(c Color) Value {
	return Value{Kind: ColorValue, Color: c}
}

// ToPx returns the size of a length in pixels, or zero for non-lengths.
func (v Value) ToPx() float64 {
	if v.Kind == LengthValue && v.Unit == Px {
		return v.Length
	}
	return 0
}

// IsKeyword reports whether v is the given keyword.
func (v Value) IsKeyword(name string) bool {
	return v.Kind == KeywordValue && v.Keyword == name
}

func (v Value) String() string {
	switch v.Kind {
	case LengthValue:
		return strconv.FormatFloat(v.Length, 'f', -1, 64) + v.Unit.String()
	case ColorValue:
		if v.Color.A == 255 {
			return fmt.Sprintf("#%02x%02x%02x", v.Color.R, v.Color.G, v.Color.B)
		}
		return fmt.Sprintf("#%02x%02x%02x%02x", v.Color.R, v.Color.G, v.Color.B, v.Color.A)
	default:
		return v.Keyword
	}
}

var namedColors = map[string]Color{
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseValue converts the text of a single-component declaration value.
func ParseValue(text string) (Value, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Value{}, fmt.Errorf("empty value")
	}
	switch ch := text[0]; {
	case ch == '#':
		c, ok := parseHexColor(text)
		if !ok {
			return Value{}, fmt.Errorf("invalid color %q", text)
		}
		return ColorOf(c), nil
	case isDigit(ch) || ch == '.' || (ch == '-' || ch == '+') && len(text) > 1 && (isDigit(text[1]) || text[1] == '.'):
		return parseLength(text)
	case isValidIdentifierStart(ch):
		name := strings.ToLower(text)
		for i := 0; i < len(name); i++ {
			if !isValidIdentifierChar(name[i]) {
				return Value{}, fmt.Errorf("invalid keyword %q", text)
			}
		}
		return Keyword(name), nil
	}
	return Value{}, fmt.Errorf("unsupported value %q", text)
}

// AsColor resolves a color or named-color keyword.
func (v Value) AsColor() (Color, bool) {
	switch v.Kind {
	case ColorValue:
		return v.Color, true
	case KeywordValue:
		c, ok := namedColors[v.Keyword]
		return c, ok
	}
	return Color{}, false
}

func parseLength(text string) (Value, error) {
	end := 0
	for end < len(text) && (isDigit(text[end]) || text[end] == '.' || ((text[end] == '-' || text[end] == '+') && end == 0)) {
		end++
	}
	num, err := strconv.ParseFloat(text[:end], 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid length %q: %w", text, err)
	}
	switch unit := strings.ToLower(text[end:]); unit {
	case "px":
		return PxLength(num), nil
	case "":
		// Unitless lengths are only valid for zero.
		if num != 0 {
			return Value{}, fmt.Errorf("length %q is missing a unit", text)
		}
		return PxLength(0), nil
	default:
		return Value{}, fmt.Errorf("unsupported unit %q in %q", unit, text)
	}
}

func parseHexColor(hex string) (Color, bool) {
	hex = strings.TrimPrefix(hex, "#")
	for i := 0; i < len(hex); i++ {
		if !isHexDigit(hex[i]) {
			return Color{}, false
		}
	}
	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 3:
		r = hexDigit(hex[0]) * 17
		g = hexDigit(hex[1]) * 17
		b = hexDigit(hex[2]) * 17
	case 6:
		r = hexDigit(hex[0])<<4 | hexDigit(hex[1])
		g = hexDigit(hex[2])<<4 | hexDigit(hex[3])
		b = hexDigit(hex[4])<<4 | hexDigit(hex[5])
	case 8:
		r = hexDigit(hex[0])<<4 | hexDigit(hex[1])
		g = hexDigit(hex[2])<<4 | hexDigit(hex[3])
		b = hexDigit(hex[4])<<4 | hexDigit(hex[5])
		a = hexDigit(hex[6])<<4 | hexDigit(hex[7])
	default:
		return Color{}, false
	}
	return Color{R: r, G: g, B: b, A: a}, true
}

func hexDigit(c byte) uint8 {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
