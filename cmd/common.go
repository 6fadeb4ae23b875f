package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/helmcode/sns-qa/pkg/config"
	"github.com/helmcode/sns-qa/pkg/formatter"
	"github.com/helmcode/sns-qa/pkg/logging"
)

// ErrReported marks errors that were already shown to the user, so main
// only needs to set the exit code.
var ErrReported = errors.New("error already reported")

type runtime struct {
	cfg      *config.Config
	logger   *logrus.Logger
	renderer *formatter.Renderer
	out      io.Writer
}

// loadRuntime resolves configuration for cmd and builds the logger and the
// display surface.
func loadRuntime(cmd *cobra.Command, spinnerSuffix string) (*runtime, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	logger := logging.New(verbose, errOut)
	logger.WithFields(logging.Fields{
		"host":     cfg.Host,
		"base_url": cfg.BaseURL,
		"timeout":  cfg.Timeout,
		"output":   cfg.Output,
	}).Debug("configuration loaded")

	opts := []formatter.Option{formatter.WithNoColor(cfg.NoColor)}
	if cfg.Output == "human" && spinnerSuffix != "" && isTerminal(errOut) {
		opts = append(opts, formatter.WithSpinner(spinnerSuffix))
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		renderer: formatter.NewRenderer(out, errOut, cfg.Output, opts...),
		out:      out,
	}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (rt *runtime) human() bool {
	return rt.cfg.Output == "human"
}

func (rt *runtime) printSuccess(msg string) {
	if rt.human() {
		rt.renderer.Success(msg)
	}
}
