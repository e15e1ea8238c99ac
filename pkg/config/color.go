package config

import (
	"fmt"
	"strings"
)

// Color is one of the eight standard ANSI colors.
type Color string

const (
	Black   Color = "black"
	Red     Color = "red"
	Green   Color = "green"
	Yellow  Color = "yellow"
	Blue    Color = "blue"
	Magenta Color = "magenta"
	Cyan    Color = "cyan"
	White   Color = "white"
)

// ANSICode returns the standard ANSI palette index for the color.
func (c Color) ANSICode() string {
	switch c {
	case Black:
		return "0"
	case Red:
		return "1"
	case Green:
		return "2"
	case Yellow:
		return "3"
	case Blue:
		return "4"
	case Magenta:
		return "5"
	case Cyan:
		return "6"
	case White:
		return "7"
	}
	return "7"
}

// UnknownColorError reports a color name outside the supported vocabulary.
type UnknownColorError struct {
	Name string
}

func (e *UnknownColorError) Error() string {
	return fmt.Sprintf("unknown color: %s", e.Name)
}

// ParseColor maps a case-insensitive color name to a Color.
func ParseColor(name string) (Color, error) {
	c := Color(strings.ToLower(name))
	switch c {
	case Black, Red, Green, Yellow, Blue, Magenta, Cyan, White:
		return c, nil
	}
	return "", &UnknownColorError{Name: name}
}

// DefaultColor returns the built-in color for well-known severity
// patterns. It is a pure function; user overrides are layered on top
// by Config.ColorFor.
func DefaultColor(pattern string) (Color, bool) {
	switch pattern {
	case "ERROR", "FATAL", "CRITICAL":
		return Red, true
	case "WARN", "WARNING":
		return Yellow, true
	case "INFO":
		return Green, true
	case "DEBUG":
		return Cyan, true
	case "TRACE":
		return Magenta, true
	}
	return "", false
}
