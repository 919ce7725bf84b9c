package config

// Config is the top-level docdeck configuration, corresponding to .docdeck.yml.
type Config struct {
	ProjectName string       `yaml:"project_name" koanf:"project_name"`
	DocsDir     string       `yaml:"docs_dir" koanf:"docs_dir"`
	OutputDir   string       `yaml:"output_dir" koanf:"output_dir"`
	Include     []string     `yaml:"include" koanf:"include"`
	Exclude     []string     `yaml:"exclude" koanf:"exclude"`
	Server      ServerConfig `yaml:"server" koanf:"server"`
	Deck        DeckConfig   `yaml:"deck" koanf:"deck"`
	Ink         InkConfig    `yaml:"ink" koanf:"ink"`
	Log         LogConfig    `yaml:"log" koanf:"log"`
}

// ServerConfig holds settings for docdeck serve.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// DeckConfig holds slide layout and feedback timings.
type DeckConfig struct {
	MinSlideHeight   float64 `yaml:"min_slide_height" koanf:"min_slide_height"`
	Padding          float64 `yaml:"padding" koanf:"padding"`
	ResizeDebounceMS int     `yaml:"resize_debounce_ms" koanf:"resize_debounce_ms"`
	FlashMS          int     `yaml:"flash_ms" koanf:"flash_ms"`
}

// InkConfig holds pen and eraser settings.
type InkConfig struct {
	Color      string  `yaml:"color" koanf:"color"`
	DrawWidth  float64 `yaml:"draw_width" koanf:"draw_width"`
	EraseWidth float64 `yaml:"erase_width" koanf:"erase_width"`
	History    int     `yaml:"history" koanf:"history"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"` // text or json
}
