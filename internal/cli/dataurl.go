package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DataURLOptions holds flags for the dataurl command.
type DataURLOptions struct {
	Type       string
	Background string
}

// NewDataURLCommand creates the dataurl command.
func NewDataURLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DataURLOptions{}

	cmd := &cobra.Command{
		Use:           "dataurl <scene.yaml>",
		Short:         "Print a scene rendering as a data URL",
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDataURL(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "image MIME type (default image/png)")
	cmd.Flags().StringVar(&opts.Background, "background", "", "background color (default: the scene's)")

	return cmd
}

func runDataURL(rootOpts *RootOptions, opts *DataURLOptions, scenePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	scene, stage, err := loadScene(scenePath)
	if err != nil {
		return formatter.Fail(GetExitCode(err), "dataurl", err)
	}
	defer stage.Close()
	stage.Render()

	background := opts.Background
	if background == "" {
		background = scene.Background
	}
	url, err := stage.ToImage(opts.Type, background)
	if err != nil {
		return formatter.Fail(ExitFailure, "export", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"url": url})
	}
	fmt.Fprintln(formatter.Writer, url)
	return nil
}
