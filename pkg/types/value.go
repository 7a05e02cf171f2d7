// Package types defines the tagged-union Value model and the classified
// error type shared across the configuration processor.
package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueType identifies which variant of the Value union is populated.
type ValueType int

const (
	TypeInt ValueType = iota
	TypeFloat
	TypeStr
	TypeVec2
	TypeColor
	TypeCustom
)

func (t ValueType) String() string {
	switch t {
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeStr:
		return "Str"
	case TypeVec2:
		return "Vec2"
	case TypeColor:
		return "Color"
	case TypeCustom:
		return "Custom"
	default:
		return "unknown"
	}
}

// Vec2 is a 2D vector value.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) String() string {
	return fmt.Sprintf("%s, %s", formatFloat(v.X), formatFloat(v.Y))
}

// Color is a normalized 8-bit RGBA color value.
type Color struct {
	R, G, B, A uint8
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%02x%02x%02x%02x)", c.R, c.G, c.B, c.A)
}

// Value is the closed tagged union of configuration value kinds: Int,
// Float, Str, Vec2, Color, and Custom. Fields are private; construct with
// the New* functions and read with the As*/Type accessors.
type Value struct {
	typ        ValueType
	intVal     int64
	floatVal   float64
	strVal     string
	vec2Val    Vec2
	colorVal   Color
	customType string
	customVal  string
}

func NewInt(v int64) Value      { return Value{typ: TypeInt, intVal: v} }
func NewFloat(v float64) Value  { return Value{typ: TypeFloat, floatVal: v} }
func NewStr(v string) Value     { return Value{typ: TypeStr, strVal: v} }
func NewVec2(v Vec2) Value      { return Value{typ: TypeVec2, vec2Val: v} }
func NewColor(v Color) Value    { return Value{typ: TypeColor, colorVal: v} }
func NewCustom(typeName, payload string) Value {
	return Value{typ: TypeCustom, customType: typeName, customVal: payload}
}

func (v Value) Type() ValueType { return v.typ }

func (v Value) AsInt() int64 {
	if v.typ != TypeInt {
		panic(fmt.Sprintf("AsInt called on %s value", v.typ))
	}
	return v.intVal
}

func (v Value) AsFloat() float64 {
	switch v.typ {
	case TypeFloat:
		return v.floatVal
	case TypeInt:
		return float64(v.intVal)
	default:
		panic(fmt.Sprintf("AsFloat called on %s value", v.typ))
	}
}

func (v Value) AsVec2() Vec2 {
	if v.typ != TypeVec2 {
		panic(fmt.Sprintf("AsVec2 called on %s value", v.typ))
	}
	return v.vec2Val
}

func (v Value) AsColor() Color {
	if v.typ != TypeColor {
		panic(fmt.Sprintf("AsColor called on %s value", v.typ))
	}
	return v.colorVal
}

// AsCustomType returns the opaque type tag of a Custom value.
func (v Value) AsCustomType() string {
	if v.typ != TypeCustom {
		panic(fmt.Sprintf("AsCustomType called on %s value", v.typ))
	}
	return v.customType
}

// String renders the canonical text form of a value; every variant has
// one, so it doubles as the retrieval-time raw string for Custom/Str and
// as the input to Serialize.
func (v Value) String() string {
	switch v.typ {
	case TypeInt:
		return strconv.FormatInt(v.intVal, 10)
	case TypeFloat:
		return formatFloat(v.floatVal)
	case TypeStr:
		return v.strVal
	case TypeVec2:
		return v.vec2Val.String()
	case TypeColor:
		return v.colorVal.String()
	case TypeCustom:
		return v.customVal
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	if math.Trunc(f) == f && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Equal tests value equality; Int and Float compare numerically across
// kinds, so an Int and a Float holding the same number are equal.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		if (v.typ == TypeInt || v.typ == TypeFloat) && (other.typ == TypeInt || other.typ == TypeFloat) {
			return v.AsFloat() == other.AsFloat()
		}
		return false
	}
	switch v.typ {
	case TypeInt:
		return v.intVal == other.intVal
	case TypeFloat:
		return v.floatVal == other.floatVal
	case TypeStr:
		return v.strVal == other.strVal
	case TypeVec2:
		return v.vec2Val == other.vec2Val
	case TypeColor:
		return v.colorVal == other.colorVal
	case TypeCustom:
		return v.customType == other.customType && v.customVal == other.customVal
	}
	return false
}

// Coerce parses a raw, fully-expanded string into a Value using the
// coercion priority: color literal, then Vec2, then strict Int, then
// strict Float, else Str.
func Coerce(raw string) Value {
	if c, ok := parseColor(raw); ok {
		return NewColor(c)
	}
	if v, ok := parseVec2(raw); ok {
		return NewVec2(v)
	}
	if i, ok := parseStrictInt(raw); ok {
		return NewInt(i)
	}
	if f, ok := parseStrictFloat(raw); ok {
		return NewFloat(f)
	}
	return NewStr(raw)
}

func parseStrictInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") ||
		strings.HasPrefix(s, "-0x") || strings.HasPrefix(s, "-0X") {
		neg := false
		hex := s
		if strings.HasPrefix(hex, "-") {
			neg = true
			hex = hex[1:]
		}
		hex = hex[2:]
		v, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return 0, false
		}
		if neg {
			return -int64(v), true
		}
		return int64(v), true
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

func parseStrictFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseVec2 accepts "(x, y)" or "x, y" with two numeric fields.
func parseVec2(s string) (Vec2, bool) {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(t, "(")
	t = strings.TrimSuffix(t, ")")
	parts := strings.Split(t, ",")
	if len(parts) != 2 {
		return Vec2{}, false
	}
	x, ok := parseStrictFloat(parts[0])
	if !ok {
		return Vec2{}, false
	}
	y, ok := parseStrictFloat(parts[1])
	if !ok {
		return Vec2{}, false
	}
	return Vec2{X: x, Y: y}, true
}

// parseColor accepts rgba(RRGGBBAA), rgb(RRGGBB), rgba(r, g, b, a),
// rgb(r, g, b), and 0xAARRGGBB (alpha-first byte order).
func parseColor(s string) (Color, bool) {
	t := strings.TrimSpace(s)
	lower := strings.ToLower(t)

	switch {
	case strings.HasPrefix(lower, "rgba(") && strings.HasSuffix(t, ")"):
		return parseColorFunc(t[5:len(t)-1], true)
	case strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(t, ")"):
		return parseColorFunc(t[4:len(t)-1], false)
	case strings.HasPrefix(lower, "0x"):
		return parseColorHexArgb(t[2:])
	}
	return Color{}, false
}

// parseColorFunc parses the body of rgba(...)/rgb(...): either a single
// hex blob (8 or 6 digits) or comma-separated decimal components.
func parseColorFunc(body string, withAlpha bool) (Color, bool) {
	body = strings.TrimSpace(body)
	if !strings.Contains(body, ",") {
		hex := body
		wantLen := 6
		if withAlpha {
			wantLen = 8
		}
		if len(hex) != wantLen {
			return Color{}, false
		}
		return parseHexRGB(hex, withAlpha)
	}

	parts := strings.Split(body, ",")
	want := 3
	if withAlpha {
		want = 4
	}
	if len(parts) != want {
		return Color{}, false
	}
	vals := make([]uint8, want)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return Color{}, false
		}
		vals[i] = uint8(n)
	}
	c := Color{R: vals[0], G: vals[1], B: vals[2], A: 255}
	if withAlpha {
		c.A = vals[3]
	}
	return c, true
}

// parseHexRGB parses a 6- or 8-digit RRGGBB[AA] hex blob.
func parseHexRGB(hex string, hasAlpha bool) (Color, bool) {
	r, ok := hexByte(hex[0:2])
	if !ok {
		return Color{}, false
	}
	g, ok := hexByte(hex[2:4])
	if !ok {
		return Color{}, false
	}
	b, ok := hexByte(hex[4:6])
	if !ok {
		return Color{}, false
	}
	a := uint8(255)
	if hasAlpha {
		a, ok = hexByte(hex[6:8])
		if !ok {
			return Color{}, false
		}
	}
	return Color{R: r, G: g, B: b, A: a}, true
}

// parseColorHexArgb parses "AARRGGBB" (alpha first byte order).
func parseColorHexArgb(hex string) (Color, bool) {
	if len(hex) != 8 {
		return Color{}, false
	}
	a, ok := hexByte(hex[0:2])
	if !ok {
		return Color{}, false
	}
	r, ok := hexByte(hex[2:4])
	if !ok {
		return Color{}, false
	}
	g, ok := hexByte(hex[4:6])
	if !ok {
		return Color{}, false
	}
	b, ok := hexByte(hex[6:8])
	if !ok {
		return Color{}, false
	}
	return Color{R: r, G: g, B: b, A: a}, true
}

func hexByte(s string) (uint8, bool) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}
