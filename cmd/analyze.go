package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helmcode/sns-qa/pkg/analyzer"
	"github.com/helmcode/sns-qa/pkg/client"
)

type analyzeOptions struct {
	form        analyzer.Form
	contentFile string
}

func NewAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [CONTENT]",
		Short: "Analyze a post with the SNS QA service",
		Long: `Send a social or blog post to the SNS QA service and print the report:
scores, issues, content checks, hashtag recommendations, optimized copy and
call-to-action variants.

Examples:
  # Analyze a LinkedIn post
  sns-qa analyze "Great post!" --platform linkedin --hashtags "#SNS Square, #random"

  # Read the post body from a file
  sns-qa analyze --content-file post.md --platform blog --title "Design sprints"

  # Machine-readable output against a deployed instance
  sns-qa analyze "Hello" --host qa.snssquare.com -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.form.Platform, "platform", "p", "linkedin", "Target platform (linkedin, instagram, twitter, facebook, blog)")
	cmd.Flags().StringVarP(&opts.form.Content, "content", "c", "", "Post content")
	cmd.Flags().StringVar(&opts.contentFile, "content-file", "", "Read post content from a file (- for stdin)")
	cmd.Flags().StringVarP(&opts.form.Title, "title", "t", "", "Post title")
	cmd.Flags().StringVar(&opts.form.Hashtags, "hashtags", "", "Comma-separated hashtags")
	cmd.Flags().StringVar(&opts.form.Geo, "geo", "", "Target geography")
	cmd.Flags().StringVar(&opts.form.Niche, "niche", "", "Content niche")
	cmd.Flags().StringVar(&opts.form.TargetAudience, "audience", "", "Target audience")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *analyzeOptions) error {
	form := opts.form
	switch {
	case len(args) == 1:
		form.Content = args[0]
	case opts.contentFile != "":
		content, err := readInput(cmd.InOrStdin(), opts.contentFile)
		if err != nil {
			return err
		}
		form.Content = content
	}

	rt, err := loadRuntime(cmd, " Analyzing with AI...")
	if err != nil {
		return err
	}

	transport := client.FromConfig(rt.cfg, rt.logger)
	if rt.human() {
		printHeader(rt, form, transport.BaseURL())
	}

	a := analyzer.New(transport, rt.renderer, rt.logger)
	if err := a.Submit(cmd.Context(), form); err != nil {
		return fmt.Errorf("%w: %w", ErrReported, err)
	}
	return nil
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func printHeader(rt *runtime, form analyzer.Form, baseURL string) {
	cyan := color.New(color.FgCyan, color.Bold)
	if rt.cfg.NoColor {
		cyan.DisableColor()
	}
	fmt.Fprintln(rt.out)
	cyan.Fprintln(rt.out, "🔍 SNS Content QA")
	fmt.Fprintf(rt.out, "📱 Platform: %s\n", strings.ToLower(strings.TrimSpace(form.Platform)))
	if title := strings.TrimSpace(form.Title); title != "" {
		fmt.Fprintf(rt.out, "📝 Title: %s\n", title)
	}
	if tags := strings.TrimSpace(form.Hashtags); tags != "" {
		fmt.Fprintf(rt.out, "#️⃣  Hashtags: %s\n", tags)
	}
	fmt.Fprintf(rt.out, "🌐 Service: %s\n", baseURL)
}
