// hgptool is a CLI utility for inspecting HGP/LSW model containers.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/hgpkit/internal/config"
	"github.com/Faultbox/hgpkit/internal/logger"
	"github.com/Faultbox/hgpkit/pkg/formats"
	"github.com/Faultbox/hgpkit/pkg/texture"
	"github.com/HugoSmits86/nativewebp"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		cmdInfo(cfg, args)
	case "materials", "mats":
		cmdMaterials(cfg, args)
	case "chunks":
		cmdChunks(cfg, args)
	case "textures", "tex":
		cmdTextures(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hgptool - HGP/LSW model container utility

Usage:
  hgptool [flags] <command> <file>

Commands:
  info <file>       Show model summary (counts, warnings)
  materials <file>  List materials with colors and texture indices
  chunks <file>     List draw chunks
  textures <file>   Export embedded textures

Flags:
  -config <path>    Config file path
  -layers <list>    Layer indices to decode (e.g. 0,2)
  -raw-textures     Keep texture blobs raw
  -format <fmt>     Texture export format: webp or png
  -out <dir>        Output directory for exported textures
  -debug            Enable debug logging

Examples:
  hgptool info minikit.hgp
  hgptool -layers 0,1,2,3 chunks vehicle.lsw
  hgptool -format png -out ./tex textures minikit.hgp`)
}

// parseModel decodes a container, choosing the HGP or LSW path by file
// extension.
func parseModel(cfg *config.Config, path string) (*formats.Model, error) {
	opts := formats.DecodeOptions{
		Layers:      cfg.Decode.Layers,
		RawTextures: cfg.Decode.RawTextures,
		Logger:      logger.Log,
	}

	if strings.EqualFold(filepath.Ext(path), ".lsw") {
		return formats.ParseLSWFile(path, opts)
	}
	return formats.ParseHGPFile(path, opts)
}

func mustParse(cfg *config.Config, args []string, usage string) *formats.Model {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	model, err := parseModel(cfg, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return model
}

func cmdInfo(cfg *config.Config, args []string) {
	model := mustParse(cfg, args, "Usage: hgptool info <file>")

	fmt.Printf("Model:          %s\n", args[0])
	fmt.Printf("Textures:       %d\n", len(model.Textures))
	fmt.Printf("Materials:      %d\n", len(model.Materials))
	fmt.Printf("Vertex buffers: %d\n", len(model.VertexBuffers))
	fmt.Printf("Chunks:         %d\n", len(model.Chunks))
	fmt.Printf("Total indices:  %d\n", model.TotalElementCount())

	if len(model.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(model.Warnings))
		for _, w := range model.Warnings {
			fmt.Printf("  %s\n", w)
		}
	}
}

func cmdMaterials(cfg *config.Config, args []string) {
	model := mustParse(cfg, args, "Usage: hgptool materials <file>")

	fmt.Printf("%-4s %-24s %-10s %-8s %-7s %s\n", "#", "color (r,g,b)", "alpha", "texture", "chunks", "variant")
	for i, mat := range model.Materials {
		tex := "-"
		if mat.TextureIdx >= 0 {
			tex = fmt.Sprintf("%d", mat.TextureIdx)
		}
		variant := ""
		if mat.Alternate {
			variant = "alt"
		}
		fmt.Printf("%-4d %6.3f,%6.3f,%6.3f   0x%08x %-8s %-7d %s\n",
			i, mat.Red, mat.Green, mat.Blue, mat.Alpha, tex,
			len(model.ChunksByMaterial(i)), variant)
	}
}

func cmdChunks(cfg *config.Config, args []string) {
	model := mustParse(cfg, args, "Usage: hgptool chunks <file>")

	fmt.Printf("%-4s %-6s %-6s %-6s %-8s %s\n", "#", "vbuf", "mat", "prim", "elems", "stride")
	for i, chunk := range model.Chunks {
		stride := 0
		if chunk.VertexBufferIdx < len(model.VertexBuffers) {
			stride = model.VertexBuffers[chunk.VertexBufferIdx].Stride
		}
		fmt.Printf("%-4d %-6d %-6d %-6d %-8d %d\n",
			i, chunk.VertexBufferIdx, chunk.MaterialIdx, chunk.PrimitiveType,
			len(chunk.Elements), stride)
	}
}

func cmdTextures(cfg *config.Config, args []string) {
	model := mustParse(cfg, args, "Usage: hgptool textures <file>")

	if err := os.MkdirAll(cfg.Export.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}

	base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))

	exported := 0
	for i, tex := range model.Textures {
		if tex.Image == nil {
			fmt.Fprintf(os.Stderr, "Skipping texture %d: no decoded pixels (%d raw bytes)\n", i, len(tex.Data))
			continue
		}

		name := fmt.Sprintf("%s_%02d.%s", base, i, cfg.Export.Format)
		path := filepath.Join(cfg.Export.OutputDir, name)

		if err := writeImage(path, cfg.Export.Format, tex); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			continue
		}

		fmt.Printf("Exported: %s\n", path)
		exported++
	}

	fmt.Fprintf(os.Stderr, "\nExported %d of %d textures\n", exported, len(model.Textures))
}

func writeImage(path, format string, tex formats.Texture) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img := texture.ImageToRGBA(tex.Image)

	switch format {
	case "png":
		return png.Encode(f, img)
	default:
		return nativewebp.Encode(f, img, nil)
	}
}
