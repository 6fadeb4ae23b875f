package analyzer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/sns-qa/pkg/client"
	"github.com/helmcode/sns-qa/pkg/model"
	"github.com/helmcode/sns-qa/pkg/score"
)

type fakeTransport struct {
	calls   int32
	body    []byte
	err     error
	block   chan struct{}
	lastReq *model.AnalysisRequest
}

func (f *fakeTransport) Analyze(ctx context.Context, req *model.AnalysisRequest) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	f.lastReq = req
	if f.block != nil {
		<-f.block
	}
	return f.body, f.err
}

type fakeSurface struct {
	mu       sync.Mutex
	loading  []bool
	rendered []*model.ViewModel
	errors   []string
}

func (s *fakeSurface) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = append(s.loading, loading)
}

func (s *fakeSurface) Render(vm *model.ViewModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rendered = append(s.rendered, vm)
	return nil
}

func (s *fakeSurface) ShowError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, msg)
}

func TestBuildRequest(t *testing.T) {
	req, err := BuildRequest(Form{
		Platform: "LinkedIn",
		Title:    "   ",
		Content:  "  Great post!  ",
		Hashtags: "#SNS Square, #random",
		Niche:    " design ",
	})
	require.NoError(t, err)

	assert.Equal(t, model.PlatformLinkedIn, req.Platform)
	assert.Equal(t, "Great post!", req.Content)
	assert.Equal(t, []string{"#SNS Square", "#random"}, req.Hashtags)
	assert.Nil(t, req.Title)
	assert.Nil(t, req.Geo)
	assert.Nil(t, req.TargetAudience)
	require.NotNil(t, req.Niche)
	assert.Equal(t, "design", *req.Niche)
}

func TestBuildRequestValidation(t *testing.T) {
	_, err := BuildRequest(Form{Platform: "blog", Content: " \n\t "})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "content", ve.Field)

	_, err = BuildRequest(Form{Platform: "myspace", Content: "hi"})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "platform", ve.Field)
}

func TestSubmitEndToEnd(t *testing.T) {
	transport := &fakeTransport{body: []byte(`{"overall_score":82,"scores_breakdown":{"quality_score":90}}`)}
	surface := &fakeSurface{}
	a := New(transport, surface, nil)

	err := a.Submit(context.Background(), Form{Platform: "linkedin", Content: "Great post!", Hashtags: "#SNS Square, #random"})
	require.NoError(t, err)

	assert.Equal(t, []string{"#SNS Square", "#random"}, transport.lastReq.Hashtags)
	assert.Equal(t, []bool{true, false}, surface.loading)
	require.Len(t, surface.rendered, 1)
	assert.Empty(t, surface.errors)
	assert.Equal(t, model.StateSuccess, a.State())
	assert.False(t, a.InFlight())

	vm := surface.rendered[0]
	assert.Equal(t, score.Good, score.Classify(vm.Scores.Overall))
	band, ok := score.ClassifyOptional(vm.Scores.Quality)
	require.True(t, ok)
	assert.Equal(t, score.Excellent, band)
	assert.Nil(t, vm.Scores.SEO)
	assert.Empty(t, vm.Issues)
	assert.Equal(t, model.NotAvailable, vm.Checks.Grammar)
	assert.Empty(t, vm.Final.FinalHashtagPack)
	assert.Empty(t, vm.CTAVariants)
}

func TestSubmitValidationSkipsNetwork(t *testing.T) {
	transport := &fakeTransport{}
	surface := &fakeSurface{}
	a := New(transport, surface, nil)

	err := a.Submit(context.Background(), Form{Platform: "blog", Content: "   "})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	assert.Equal(t, int32(0), atomic.LoadInt32(&transport.calls))
	assert.Empty(t, surface.loading)
	assert.Equal(t, []string{"Please enter some content to analyze."}, surface.errors)
	assert.Equal(t, model.StateError, a.State())
	assert.False(t, a.InFlight())
}

func TestSubmitTransportErrorKeepsPreviousReport(t *testing.T) {
	transport := &fakeTransport{body: []byte(`{"overall_score":50}`)}
	surface := &fakeSurface{}
	a := New(transport, surface, nil)

	require.NoError(t, a.Submit(context.Background(), Form{Platform: "blog", Content: "first"}))

	transport.body = nil
	transport.err = &client.TransportError{StatusCode: 500, Message: "Model returned invalid JSON"}
	err := a.Submit(context.Background(), Form{Platform: "blog", Content: "second"})
	require.Error(t, err)

	var te *client.TransportError
	assert.True(t, errors.As(err, &te))
	assert.Len(t, surface.rendered, 1)
	assert.Equal(t, []string{"Model returned invalid JSON"}, surface.errors)
	assert.Equal(t, []bool{true, false, true, false}, surface.loading)
	assert.Equal(t, model.StateError, a.State())
	assert.False(t, a.InFlight())
}

func TestSubmitUnknownErrorUsesGenericMessage(t *testing.T) {
	surface := &fakeSurface{}
	a := New(&fakeTransport{err: errors.New("boom")}, surface, nil)

	require.Error(t, a.Submit(context.Background(), Form{Platform: "blog", Content: "x"}))
	assert.Equal(t, []string{client.GenericFailure}, surface.errors)
}

func TestSubmitRejectsOverlappingRequests(t *testing.T) {
	transport := &fakeTransport{body: []byte(`{}`), block: make(chan struct{})}
	surface := &fakeSurface{}
	a := New(transport, surface, nil)

	done := make(chan error, 1)
	go func() {
		done <- a.Submit(context.Background(), Form{Platform: "blog", Content: "first"})
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&transport.calls) == 1
	}, time.Second, time.Millisecond)
	assert.True(t, a.InFlight())
	assert.Equal(t, model.StateLoading, a.State())

	err := a.Submit(context.Background(), Form{Platform: "blog", Content: "second"})
	assert.ErrorIs(t, err, ErrInFlight)
	assert.ErrorIs(t, a.Present([]byte(`{}`)), ErrInFlight)

	close(transport.block)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), atomic.LoadInt32(&transport.calls))
	assert.Len(t, surface.rendered, 1)
	assert.False(t, a.InFlight())
}

func TestPresent(t *testing.T) {
	surface := &fakeSurface{}
	a := New(nil, surface, nil)

	require.NoError(t, a.Present([]byte("```json\n{\"raw_json\":{\"overall_score\":91}}\n```")))
	require.Len(t, surface.rendered, 1)
	assert.Equal(t, 91.0, surface.rendered[0].Scores.Overall)
	assert.Equal(t, model.StateSuccess, a.State())
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "bad", UserMessage(&ValidationError{Message: "bad"}))
	assert.Equal(t, "detail", UserMessage(&client.TransportError{Message: "detail"}))
	assert.Equal(t, client.GenericFailure, UserMessage(errors.New("x")))
}
