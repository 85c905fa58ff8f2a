package core

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/gookit/color"
)

// Color is a nickname colour from the fixed palette.
type Color string

const (
	ColorBlack         Color = "black"
	ColorRed           Color = "red"
	ColorGreen         Color = "green"
	ColorYellow        Color = "yellow"
	ColorBlue          Color = "blue"
	ColorMagenta       Color = "magenta"
	ColorCyan          Color = "cyan"
	ColorWhite         Color = "white"
	ColorBrightBlack   Color = "bright_black"
	ColorBrightRed     Color = "bright_red"
	ColorBrightGreen   Color = "bright_green"
	ColorBrightYellow  Color = "bright_yellow"
	ColorBrightBlue    Color = "bright_blue"
	ColorBrightMagenta Color = "bright_magenta"
	ColorBrightCyan    Color = "bright_cyan"
	ColorBrightWhite   Color = "bright_white"

	DefaultColor Color = ColorGreen
)

var palette = map[Color]color.Color{
	ColorBlack:         color.FgBlack,
	ColorRed:           color.FgRed,
	ColorGreen:         color.FgGreen,
	ColorYellow:        color.FgYellow,
	ColorBlue:          color.FgBlue,
	ColorMagenta:       color.FgMagenta,
	ColorCyan:          color.FgCyan,
	ColorWhite:         color.FgWhite,
	ColorBrightBlack:   color.FgDarkGray,
	ColorBrightRed:     color.FgLightRed,
	ColorBrightGreen:   color.FgLightGreen,
	ColorBrightYellow:  color.FgLightYellow,
	ColorBrightBlue:    color.FgLightBlue,
	ColorBrightMagenta: color.FgLightMagenta,
	ColorBrightCyan:    color.FgLightCyan,
	ColorBrightWhite:   color.FgLightWhite,
}

// ParseColor resolves a user supplied colour name. Matching is case-insensitive,
// "purple" is accepted for magenta and "bright" variants may use '-' or '_'.
func ParseColor(name string) (Color, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	key = strings.Replace(key, "purple", "magenta", 1)
	c := Color(key)
	if _, ok := palette[c]; !ok {
		return "", fmt.Errorf("unknown color %q", name)
	}
	return c, nil
}

func (c Color) style() color.Style {
	fg, ok := palette[c]
	if !ok {
		fg = palette[DefaultColor]
	}
	return color.New(fg, color.OpBold)
}

// paint wraps text in SGR codes unconditionally; the relay writes to remote
// terminals so local tty detection does not apply.
func paint(style color.Style, text string) string {
	return fmt.Sprintf(color.FullColorTpl, style.Code(), text)
}

// StripANSI removes every terminal escape sequence (colour, cursor movement,
// screen erase, OSC) from s.
func StripANSI(s string) string {
	return ansi.Strip(s)
}
