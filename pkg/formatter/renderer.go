package formatter

import (
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/helmcode/sns-qa/pkg/model"
)

// Renderer is the terminal display surface. Reports go to out; the loading
// indicator and error banner go to errOut so they never mix with json/yaml.
type Renderer struct {
	out     io.Writer
	errOut  io.Writer
	format  string
	noColor bool
	spinner *spinner.Spinner

	mu      sync.Mutex
	current *model.ViewModel
	lastErr string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSpinner shows an animated loading indicator on errOut.
func WithSpinner(suffix string) Option {
	return func(r *Renderer) {
		s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(r.errOut))
		s.Suffix = suffix
		r.spinner = s
	}
}

// WithNoColor disables ANSI colors.
func WithNoColor(noColor bool) Option {
	return func(r *Renderer) { r.noColor = noColor }
}

func NewRenderer(out, errOut io.Writer, format string, opts ...Option) *Renderer {
	r := &Renderer{out: out, errOut: errOut, format: format}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetLoading starts or stops the loading indicator.
func (r *Renderer) SetLoading(loading bool) {
	if r.spinner == nil {
		return
	}
	if loading {
		r.spinner.Start()
	} else {
		r.spinner.Stop()
	}
}

// Render replaces the displayed report with vm.
func (r *Renderer) Render(vm *model.ViewModel) error {
	r.mu.Lock()
	r.current = vm
	r.lastErr = ""
	r.mu.Unlock()
	return DisplayResults(r.out, vm, r.format, r.noColor)
}

// ShowError shows the error banner. The last report stays as it was.
func (r *Renderer) ShowError(msg string) {
	r.mu.Lock()
	r.lastErr = msg
	r.mu.Unlock()

	red := color.New(color.FgRed)
	if r.noColor {
		red.DisableColor()
	}
	red.Fprintf(r.errOut, "✗ %s\n", msg)
}

// Current returns the view model on display, or nil in the empty state.
func (r *Renderer) Current() *model.ViewModel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// LastError returns the message of the banner on display.
func (r *Renderer) LastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Success prints a progress confirmation line.
func (r *Renderer) Success(msg string) {
	green := color.New(color.FgGreen)
	if r.noColor {
		green.DisableColor()
	}
	green.Fprintf(r.errOut, "✓ %s\n", msg)
}

// Empty renders the empty state.
func (r *Renderer) Empty() error {
	return DisplayResults(r.out, nil, r.format, r.noColor)
}
