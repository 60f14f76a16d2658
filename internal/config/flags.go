package config

import (
	"flag"
	"strconv"
	"strings"
)

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagLayers = flag.String("layers", "", "Comma-separated layer indices to decode (e.g. 0,2)")
	flagRaw    = flag.Bool("raw-textures", false, "Keep texture blobs raw instead of decoding pixels")
	flagFormat = flag.String("format", "", "Texture export format (webp or png)")
	flagOut    = flag.String("out", "", "Output directory for exported textures")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLayers != "" {
		if layers, ok := parseLayers(*flagLayers); ok {
			cfg.Decode.Layers = layers
		}
	}
	if *flagRaw {
		cfg.Decode.RawTextures = true
	}
	if *flagFormat != "" {
		cfg.Export.Format = *flagFormat
	}
	if *flagOut != "" {
		cfg.Export.OutputDir = *flagOut
	}
}

// parseLayers parses a comma-separated layer index list.
func parseLayers(s string) ([]int, bool) {
	var layers []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, false
		}
		layers = append(layers, n)
	}
	return layers, true
}
