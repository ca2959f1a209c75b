package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phanxgames/easel"
)

// PickOptions holds flags for the pick command.
type PickOptions struct {
	All bool
}

// PickHit describes one display object under the query point.
type PickHit struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// PickResult is the JSON payload of the pick command.
type PickResult struct {
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
	Hits []PickHit `json:"hits"`
}

// NewPickCommand creates the pick command.
func NewPickCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PickOptions{}

	cmd := &cobra.Command{
		Use:   "pick <scene.yaml> <x> <y>",
		Short: "List the display objects under a canvas point",
		Long: `Render a scene file and report the topmost mouse-enabled display object
whose drawn pixels cover the canvas point (x, y). With --all every such
object is listed, topmost first.`,
		Args:          exactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPick(rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "list every object under the point")

	return cmd
}

func runPick(rootOpts *RootOptions, opts *PickOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	x, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return formatter.Fail(ExitCommandError, "parse x", err)
	}
	y, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return formatter.Fail(ExitCommandError, "parse y", err)
	}

	_, stage, err := loadScene(args[0])
	if err != nil {
		return formatter.Fail(GetExitCode(err), "pick", err)
	}
	defer stage.Close()

	var objs []easel.DisplayObject
	if opts.All {
		objs = stage.ObjectsUnderPoint(x, y)
	} else if d := stage.ObjectUnderPoint(x, y); d != nil {
		objs = []easel.DisplayObject{d}
	}

	result := PickResult{X: x, Y: y, Hits: make([]PickHit, 0, len(objs))}
	for _, d := range objs {
		n := easel.NodeOf(d)
		result.Hits = append(result.Hits, PickHit{ID: n.ID, Name: n.Name, Desc: d.String()})
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, h := range result.Hits {
			fmt.Fprintln(formatter.Writer, h.Desc)
		}
		if len(result.Hits) == 0 {
			fmt.Fprintf(formatter.Writer, "nothing at (%g, %g)\n", x, y)
		}
	}
	if len(result.Hits) == 0 {
		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("nothing at (%g, %g)", x, y)}
	}
	return nil
}
