package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/helmcode/sns-qa/cmd"
	"github.com/spf13/cobra"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cmd.ErrReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sns-qa",
		Short: "AI-powered content QA for social and blog posts",
		Long: `sns-qa sends a post to the SNS QA analysis service and renders the verdict:
quality scores, issues, content checks, hashtag recommendations (including the
mandatory SNS tags), optimized copy and call-to-action variants.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default is $HOME/.sns-qa/config.yaml)")
	flags.String("host", "localhost", "Service host; loopback hosts use the local development server")
	flags.String("base-url", "", "Service base URL (overrides --host)")
	flags.Duration("timeout", 0, "Request timeout (default 60s)")
	flags.Int("max-retries", 0, "Retries on network errors")
	flags.StringP("output", "o", "human", "Output format (human, json, yaml)")
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolP("verbose", "v", false, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(
		cmd.NewAnalyzeCmd(),
		cmd.NewRenderCmd(),
		cmd.NewPlatformsCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sns-qa version %s\n", version)
		},
	}
}
