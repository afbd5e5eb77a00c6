package render

import (
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// ResolveTheme maps a configured theme name to a Theme. "auto" picks the
// dark or light built-in by probing the terminal background; any other name
// resolves through ThemeByName with its usual fallback.
func ResolveTheme(name string) Theme {
	if name == "auto" {
		if detectDarkBackground() {
			return Themes["midnight"]
		}
		return Themes["daylight"]
	}
	return ThemeByName(name)
}

func detectDarkBackground() bool {
	if isDark, ok := checkCOLORFGBG(); ok {
		return isDark
	}
	if isDark, ok := checkTermenvBackground(); ok {
		return isDark
	}
	if isDark, ok := checkTerminalHints(); ok {
		return isDark
	}
	// Most terminal users run dark backgrounds.
	return true
}

// checkCOLORFGBG reads the COLORFGBG environment variable, typically
// "foreground;background" with ANSI color codes. 0-7 are dark, 8-15 light.
func checkCOLORFGBG() (bool, bool) {
	colorFGBG := os.Getenv("COLORFGBG")
	if colorFGBG == "" {
		return false, false
	}
	parts := strings.Split(colorFGBG, ";")
	if len(parts) < 2 {
		return false, false
	}
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return false, false
	}
	return bg < 8 || bg == 16, true
}

// checkTermenvBackground queries the terminal with OSC escapes. Does not work
// under tmux/screen; termenv handles the failure internally.
func checkTermenvBackground() (bool, bool) {
	output := termenv.NewOutput(os.Stdout)
	bgColor := output.BackgroundColor()
	if bgColor == nil {
		return false, false
	}
	if _, ok := bgColor.(termenv.NoColor); ok {
		return false, false
	}
	return output.HasDarkBackground(), true
}

// checkTerminalHints falls back to terminal-specific environment hints.
func checkTerminalHints() (bool, bool) {
	if profile := os.Getenv("ITERM_PROFILE"); profile != "" {
		lower := strings.ToLower(profile)
		if strings.Contains(lower, "light") {
			return false, true
		}
		if strings.Contains(lower, "dark") {
			return true, true
		}
	}
	return false, false
}
