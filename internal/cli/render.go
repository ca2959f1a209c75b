package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/easel"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	Output     string
	Type       string
	Background string
}

// RenderResult is the JSON payload of a successful render.
type RenderResult struct {
	Path   string `json:"path"`
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render <scene.yaml>",
		Short: "Render a scene file to an image",
		Long: `Render a YAML scene file once and write the canvas to an image file.

The image type follows --type, or the extension of --output when --type is
empty. The scene background is used unless --background overrides it.`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default: scene name with the type's extension)")
	cmd.Flags().StringVar(&opts.Type, "type", "", "image MIME type (image/png|image/jpeg|image/bmp|image/tiff)")
	cmd.Flags().StringVar(&opts.Background, "background", "", "background color (default: the scene's)")

	return cmd
}

func runRender(rootOpts *RootOptions, opts *RenderOptions, scenePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	scene, stage, err := loadScene(scenePath)
	if err != nil {
		return formatter.Fail(GetExitCode(err), "render", err)
	}
	defer stage.Close()
	stage.Render()

	mime := opts.Type
	out := opts.Output
	if mime == "" {
		mime = easel.MimeForExtension(filepath.Ext(out))
	}
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))
		out = filepath.Join(filepath.Dir(scenePath), base+extensionFor(mime))
	}
	background := opts.Background
	if background == "" {
		background = scene.Background
	}

	f, err := os.Create(out)
	if err != nil {
		return formatter.Fail(ExitCommandError, "create output", err)
	}
	used, err := stage.WriteImage(f, mime, background)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return formatter.Fail(ExitFailure, "write image", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(RenderResult{Path: out, Type: used, Width: scene.Width, Height: scene.Height})
	}
	fmt.Fprintf(formatter.Writer, "wrote %s (%s, %dx%d)\n", out, used, scene.Width, scene.Height)
	return nil
}

// extensionFor returns the file extension for an export MIME type.
func extensionFor(mime string) string {
	switch strings.ToLower(mime) {
	case easel.MimeJPEG, "image/jpg":
		return ".jpg"
	case easel.MimeBMP, "image/x-ms-bmp":
		return ".bmp"
	case easel.MimeTIFF, "image/tif":
		return ".tiff"
	}
	return ".png"
}
