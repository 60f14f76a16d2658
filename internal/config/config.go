// Package config handles hgptool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Decode  DecodeConfig  `yaml:"decode"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// DecodeConfig controls how model containers are decoded.
type DecodeConfig struct {
	// Layers lists the layer indices to decode. Layers hold quality
	// variants of the same geometry; 0 and 2 are the full-quality set.
	Layers []int `yaml:"layers"`
	// RawTextures skips pixel decoding and keeps texture blobs raw.
	RawTextures bool `yaml:"raw_textures"`
}

// ExportConfig controls texture export.
type ExportConfig struct {
	Format    string `yaml:"format"` // "webp" or "png"
	OutputDir string `yaml:"output_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Decode: DecodeConfig{
			Layers:      []int{0, 2},
			RawTextures: false,
		},
		Export: ExportConfig{
			Format:    "webp",
			OutputDir: ".",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
