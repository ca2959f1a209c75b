package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/easel"
	"github.com/phanxgames/easel/host"
)

// ViewOptions holds flags for the view command.
type ViewOptions struct {
	Script          string
	ScreenshotDir   string
	ExitAfterScript bool
}

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ViewOptions{}

	cmd := &cobra.Command{
		Use:   "view <scene.yaml>",
		Short: "Open a scene file in a window",
		Long: `Open a YAML scene file in a window. Clicking prints the topmost object
under the pointer.

With --script the mouse is replaced by a JSON pointer script whose steps
(press, move, release, click, drag, wait, screenshot) run one per tick.`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Script, "script", "", "JSON pointer script to replay instead of the mouse")
	cmd.Flags().StringVar(&opts.ScreenshotDir, "screenshots", "screenshots", "directory for script screenshots")
	cmd.Flags().BoolVar(&opts.ExitAfterScript, "exit", false, "close the window when the script finishes")

	return cmd
}

func runView(opts *ViewOptions, scenePath string, cmd *cobra.Command) error {
	scene, stage, err := loadScene(scenePath)
	if err != nil {
		return err
	}
	defer stage.Close()

	out := cmd.OutOrStdout()
	stage.OnPointerDown = func(e easel.PointerEvent) {
		if d := stage.ObjectUnderPoint(e.X, e.Y); d != nil {
			fmt.Fprintln(out, d)
		}
	}

	cfg := host.RunConfig{Title: "easel - " + scenePath}
	if scene.Background != "" {
		if col, err := easel.ParseColor(scene.Background); err == nil {
			cfg.ClearColor = col
		}
	}
	if opts.Script != "" {
		data, err := os.ReadFile(opts.Script)
		if err != nil {
			return WrapExitError(ExitCommandError, "read script", err)
		}
		script, err := host.LoadScript(data)
		if err != nil {
			return WrapExitError(ExitCommandError, "load script", err)
		}
		script.Dir = opts.ScreenshotDir
		script.ExitWhenDone = opts.ExitAfterScript
		cfg.Pointer = script
	}
	return host.Run(stage, cfg)
}
