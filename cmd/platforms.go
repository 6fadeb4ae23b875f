package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helmcode/sns-qa/pkg/hashtag"
	"github.com/helmcode/sns-qa/pkg/model"
)

func NewPlatformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported platforms and mandatory hashtags",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Platforms:")
			for _, p := range model.Platforms() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			fmt.Fprintln(out, "Mandatory hashtags:")
			for _, tag := range hashtag.Mandatory {
				fmt.Fprintf(out, "  %s\n", tag)
			}
		},
	}
}
