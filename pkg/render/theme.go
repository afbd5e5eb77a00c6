package render

// Theme is a complete color set for the overlay surface.
type Theme struct {
	Name        string
	Description string

	// Orb colors by appearance
	OrbError    string
	OrbComplete string
	OrbActive   string
	OrbInput    string
	OrbIdle     string

	// Text
	LabelFg   string
	StatusFg  string
	TaskFg    string
	CounterFg string

	// Progress bars
	BarCompleteFg string
	BarActiveFg   string
	BarIdleFg     string

	// Input surface
	InputFg         string
	InputDisabledFg string
	InputErrorFg    string

	// Frame
	BorderFg string
}

// Built-in themes
var Themes = map[string]Theme{
	"midnight": {
		Name:        "Midnight",
		Description: "Dark default matching the desktop overlay",

		OrbError:    "#e74c3c",
		OrbComplete: "#27ae60",
		OrbActive:   "#3498db",
		OrbInput:    "#9b59b6",
		OrbIdle:     "#7f8c8d",

		LabelFg:   "#ffffff",
		StatusFg:  "#95a5a6",
		TaskFg:    "#ecf0f1",
		CounterFg: "#95a5a6",

		BarCompleteFg: "#27ae60",
		BarActiveFg:   "#3498db",
		BarIdleFg:     "#34495e",

		InputFg:         "#ecf0f1",
		InputDisabledFg: "#566573",
		InputErrorFg:    "#e74c3c",

		BorderFg: "#34495e",
	},
	"daylight": {
		Name:        "Daylight",
		Description: "Light theme for bright terminals",

		OrbError:    "#c0392b",
		OrbComplete: "#1e8449",
		OrbActive:   "#2471a3",
		OrbInput:    "#7d3c98",
		OrbIdle:     "#95a5a6",

		LabelFg:   "#1c2833",
		StatusFg:  "#707b7c",
		TaskFg:    "#2c3e50",
		CounterFg: "#707b7c",

		BarCompleteFg: "#1e8449",
		BarActiveFg:   "#2471a3",
		BarIdleFg:     "#d5dbdb",

		InputFg:         "#2c3e50",
		InputDisabledFg: "#aab7b8",
		InputErrorFg:    "#c0392b",

		BorderFg: "#d5dbdb",
	},
}

// DefaultThemeName is used when the configured theme is unknown.
const DefaultThemeName = "midnight"

// ThemeByName resolves a theme, falling back to the default for unknown
// names so a typo in config never blanks the overlay.
func ThemeByName(name string) Theme {
	if t, ok := Themes[name]; ok {
		return t
	}
	return Themes[DefaultThemeName]
}
