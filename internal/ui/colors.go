package ui

type Color string

const (
	ColorDefault Color = "\033[0m"
	ColorGray    Color = "\033[38;2;150;150;150m"
	ColorWhite   Color = "\033[38;2;255;255;255m"

	ColorLightRed Color = "\033[38;2;255;150;150m"
	ColorRed      Color = "\033[38;2;255;0;0m"

	ColorLightGreen Color = "\033[38;2;150;255;150m"
	ColorGreen      Color = "\033[38;2;0;255;0m"

	ColorLightYellow Color = "\033[38;2;255;255;150m"
	ColorYellow      Color = "\033[38;2;255;255;0m"

	ColorLightBlue Color = "\033[38;2;150;150;255m"
	ColorBrown     Color = "\033[38;2;165;42;42m"

	ColorLightPurple Color = "\033[38;2;200;150;255m"
	ColorLightOrange Color = "\033[38;2;255;200;150m"
	ColorOrange      Color = "\033[38;2;255;165;0m"
)

// colorMap maps the {{name}} markers used in rendered lines to colors.
var colorMap = map[string]Color{
	"{{yellow}}":  ColorYellow,
	"{{orange}}":  ColorOrange,
	"{{brown}}":   ColorBrown,
	"{{gray}}":    ColorGray,
	"{{green}}":   ColorGreen,
	"{{purple}}":  ColorLightPurple,
	"{{default}}": ColorDefault,
}
