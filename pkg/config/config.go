package config

// Config is the full overlay configuration, read from config.yaml.
type Config struct {
	Files  Files  `yaml:"files"`
	Poll   Poll   `yaml:"poll"`
	Timing Timing `yaml:"timing"`
	Render Render `yaml:"render"`
	Sound  Sound  `yaml:"sound"`
}

// Files overrides the exchange file locations. Empty values fall back to
// the XDG-style defaults resolved by pkg/paths.
type Files struct {
	State   string `yaml:"state"`   // agent-written state file
	Command string `yaml:"command"` // overlay-written command file
}

type Poll struct {
	IntervalMs int `yaml:"interval_ms"` // state file poll period (default: 100)
	GraceMs    int `yaml:"grace_ms"`    // startup delay before first read (default: 1000)
}

type Timing struct {
	HideDelayMs  int `yaml:"hide_delay_ms"`  // complete -> hidden (default: 2000)
	ResetDelayMs int `yaml:"reset_delay_ms"` // complete -> reset (default: 2500)
	PulseMs      int `yaml:"pulse_ms"`       // idle pulse toggle period (default: 2000)
	FlashMs      int `yaml:"flash_ms"`       // empty-submit flash (default: 300)
}

type Render struct {
	Theme string `yaml:"theme"` // theme name or "auto" (default: midnight)
	Width int    `yaml:"width"` // frame width in columns (default: 44)
}

type Sound struct {
	Enabled *bool `yaml:"enabled"` // terminal bell on sound cues (default: true)
}

// SoundEnabled reports whether sound cues should ring the terminal bell.
func (c *Config) SoundEnabled() bool {
	return c.Sound.Enabled == nil || *c.Sound.Enabled
}
