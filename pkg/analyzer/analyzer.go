package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/helmcode/sns-qa/pkg/client"
	"github.com/helmcode/sns-qa/pkg/hashtag"
	"github.com/helmcode/sns-qa/pkg/logging"
	"github.com/helmcode/sns-qa/pkg/model"
	"github.com/helmcode/sns-qa/pkg/parser"
)

// ErrInFlight is returned when a submission arrives while another one is
// still waiting for the service.
var ErrInFlight = errors.New("an analysis is already in progress")

// ValidationError is a problem with the form that is caught before any
// network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Form is the raw user input as typed into the form fields.
type Form struct {
	Platform       string
	Title          string
	Content        string
	Hashtags       string // comma separated
	Geo            string
	Niche          string
	TargetAudience string
}

// Transport sends a request to the analysis service and returns the raw body.
type Transport interface {
	Analyze(ctx context.Context, req *model.AnalysisRequest) ([]byte, error)
}

// Surface displays the outcome of a submission.
type Surface interface {
	SetLoading(loading bool)
	Render(vm *model.ViewModel) error
	ShowError(msg string)
}

// Analyzer runs one submission at a time: validate, send, normalize, render.
type Analyzer struct {
	transport Transport
	surface   Surface
	logger    *logrus.Logger

	inFlight atomic.Bool
	mu       sync.Mutex
	state    model.UIState
}

func New(t Transport, s Surface, logger *logrus.Logger) *Analyzer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Analyzer{transport: t, surface: s, logger: logger, state: model.StateIdle}
}

// State returns the current UI state.
func (a *Analyzer) State() model.UIState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// InFlight reports whether a request is outstanding.
func (a *Analyzer) InFlight() bool {
	return a.inFlight.Load()
}

func (a *Analyzer) setState(s model.UIState) {
	a.mu.Lock()
	prev := a.state
	a.state = s
	a.mu.Unlock()
	a.logger.WithFields(logrus.Fields{"from": prev.String(), "to": s.String()}).Debug("ui state change")
}

// BuildRequest validates the form and converts it into a request. Blank
// optional fields become nil so they are sent as null.
func BuildRequest(f Form) (*model.AnalysisRequest, error) {
	content := strings.TrimSpace(f.Content)
	if content == "" {
		return nil, &ValidationError{Field: "content", Message: "Please enter some content to analyze."}
	}

	platform, err := model.ParsePlatform(f.Platform)
	if err != nil {
		return nil, &ValidationError{Field: "platform", Message: err.Error()}
	}

	return &model.AnalysisRequest{
		Platform:       platform,
		Title:          optional(f.Title),
		Content:        content,
		Hashtags:       hashtag.ParseList(f.Hashtags),
		Geo:            optional(f.Geo),
		Niche:          optional(f.Niche),
		TargetAudience: optional(f.TargetAudience),
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Submit runs a full submission. A call made while another is in flight
// returns ErrInFlight and touches nothing. Every other failure is shown on
// the surface as a single message and also returned; the last rendered
// report is left in place.
func (a *Analyzer) Submit(ctx context.Context, f Form) error {
	if !a.inFlight.CompareAndSwap(false, true) {
		a.logger.Debug("submission ignored, request in flight")
		return ErrInFlight
	}
	defer a.inFlight.Store(false)

	req, err := BuildRequest(f)
	if err != nil {
		a.fail(err)
		return err
	}

	a.setState(model.StateLoading)
	a.surface.SetLoading(true)
	raw, err := a.transport.Analyze(ctx, req)
	a.surface.SetLoading(false)
	if err != nil {
		a.fail(err)
		return fmt.Errorf("analyze: %w", err)
	}

	return a.present(raw)
}

// Present normalizes an already fetched payload and renders it.
func (a *Analyzer) Present(raw []byte) error {
	if !a.inFlight.CompareAndSwap(false, true) {
		return ErrInFlight
	}
	defer a.inFlight.Store(false)
	return a.present(raw)
}

func (a *Analyzer) present(raw []byte) error {
	vm := parser.Normalize(raw)
	if err := a.surface.Render(vm); err != nil {
		a.setState(model.StateError)
		return fmt.Errorf("render report: %w", err)
	}
	a.setState(model.StateSuccess)
	return nil
}

func (a *Analyzer) fail(err error) {
	a.setState(model.StateError)
	a.logger.WithError(err).Debug("submission failed")
	a.surface.ShowError(UserMessage(err))
}

// UserMessage picks the text shown to the user for err.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var te *client.TransportError
	if errors.As(err, &te) {
		return te.Message
	}
	return client.GenericFailure
}
