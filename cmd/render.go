package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helmcode/sns-qa/pkg/analyzer"
)

func NewRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render [FILE|-]",
		Short: "Render a saved analysis payload",
		Long: `Render a raw analysis payload, as returned by POST /analyze or produced by
the model (markdown code fences are accepted), without calling the service.

Examples:
  # Render a saved response
  sns-qa render response.json

  # Pipe a payload in
  curl -s -X POST localhost:8000/analyze -d @req.json | sns-qa render -`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRender,
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}

	raw, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	rt, err := loadRuntime(cmd, "")
	if err != nil {
		return err
	}
	rt.logger.WithField("source", path).Debug("rendering saved payload")

	a := analyzer.New(nil, rt.renderer, rt.logger)
	if err := a.Present([]byte(raw)); err != nil {
		return fmt.Errorf("render payload: %w", err)
	}
	rt.printSuccess("Report rendered")
	return nil
}
