package runner

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/forge-e2e/pkg/acquire"
	"github.com/entrhq/forge-e2e/pkg/browser"
	"github.com/entrhq/forge-e2e/pkg/browser/browsertest"
)

const testScreenshot = "/work/e2e-test-result.png"

// MockAcquirer is a mock implementation of Acquirer for testing
type MockAcquirer struct {
	mock.Mock
}

func (m *MockAcquirer) Acquire(ctx context.Context) (*browser.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*browser.Session), args.Error(1)
}

type fixture struct {
	page     *browsertest.Page
	session  *browser.Session
	releases *int
	acquirer *MockAcquirer
	fs       afero.Fs
	out      *bytes.Buffer
	runner   *Runner
}

func newFixture(t *testing.T, elements ...*browsertest.Element) *fixture {
	t.Helper()

	page := browsertest.NewPage(elements...)
	page.TitleValue = "Example Domain"

	releases := 0
	session := browser.NewSession(acquire.StrategyDebugAttach, browsertest.NewContext(page), page, func() error {
		releases++
		return nil
	})

	acquirer := &MockAcquirer{}
	acquirer.On("Acquire", mock.Anything).Return(session, nil)

	fs := afero.NewMemMapFs()
	out := &bytes.Buffer{}
	r := New(acquirer, fs, Options{
		Strategies:     []string{acquire.StrategyDebugAttach, acquire.StrategyPersistentLaunch},
		Navigation:     browser.NavigateOptions{Timeout: 30 * time.Second},
		ScreenshotPath: testScreenshot,
		FullPage:       true,
	}, nil, out)

	return &fixture{
		page:     page,
		session:  session,
		releases: &releases,
		acquirer: acquirer,
		fs:       fs,
		out:      out,
		runner:   r,
	}
}

func TestRun_NoAction(t *testing.T) {
	f := newFixture(t)

	result, err := f.runner.Run(context.Background(), "https://example.com", "")
	require.NoError(t, err)

	assert.Equal(t, acquire.StrategyDebugAttach, result.Strategy)
	assert.Equal(t, "Example Domain", result.Title)
	assert.Nil(t, result.Action)
	assert.Equal(t, testScreenshot, result.ScreenshotPath)

	require.Len(t, f.page.GotoOptions, 1)
	assert.Equal(t, playwright.WaitUntilStateNetworkidle, f.page.GotoOptions[0].WaitUntil)
	assert.Equal(t, []string{"https://example.com"}, f.page.GotoURLs)

	require.Len(t, f.page.ScreenshotOpts, 1)
	assert.True(t, *f.page.ScreenshotOpts[0].FullPage)

	data, err := afero.ReadFile(f.fs, testScreenshot)
	require.NoError(t, err)
	assert.Equal(t, f.page.ScreenshotData, data)
	assert.Equal(t, len(data), result.ScreenshotSize)

	assert.Equal(t, 1, *f.releases)
	assert.True(t, f.session.Released())

	out := f.out.String()
	assert.Contains(t, out, "debug-attach → persistent-launch")
	assert.Contains(t, out, "Using strategy: debug-attach")
	assert.Contains(t, out, "Navigating to: https://example.com")
	assert.Contains(t, out, "Page title: Example Domain")
	assert.Contains(t, out, "Screenshot saved: "+testScreenshot)
	assert.NotContains(t, out, "Performing action")
	assert.NotContains(t, out, "Redirected to")
	assert.Equal(t, "https://example.com", result.FinalURL)
}

func TestRun_ReportsRedirect(t *testing.T) {
	f := newFixture(t)
	f.page.RedirectURL = "https://example.com/login?next=%2F"

	result, err := f.runner.Run(context.Background(), "https://example.com", "")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", result.URL)
	assert.Equal(t, "https://example.com/login?next=%2F", result.FinalURL)
	assert.Contains(t, f.out.String(), "Redirected to: https://example.com/login?next=%2F")
}

func TestRun_Click(t *testing.T) {
	login := &browsertest.Element{Text: "Login"}
	f := newFixture(t, login, &browsertest.Element{Text: "Logout"})

	result, err := f.runner.Run(context.Background(), "https://example.com", "click Login")
	require.NoError(t, err)

	assert.Equal(t, 1, login.Clicks)
	require.NotNil(t, result.Action)
	assert.Equal(t, VerbClick, result.Action.Verb)
	assert.Contains(t, f.out.String(), "Performing action: click Login")
	assert.Contains(t, f.out.String(), "Clicked: Login")
	assert.Equal(t, 1, *f.releases)
}

func TestRun_Type(t *testing.T) {
	email := &browsertest.Element{Selector: "#email"}
	f := newFixture(t, email)

	_, err := f.runner.Run(context.Background(), "https://example.com/login", "type #email user@test.com")
	require.NoError(t, err)

	assert.Equal(t, "user@test.com", email.Value)
	assert.Contains(t, f.out.String(), `Typed "user@test.com" into #email`)
	assert.Equal(t, 1, *f.releases)
}

func TestRun_UnsupportedActionSkipsAcquisition(t *testing.T) {
	f := newFixture(t)

	_, err := f.runner.Run(context.Background(), "https://example.com", "hover Menu")

	var unsupported *UnsupportedActionError
	require.True(t, errors.As(err, &unsupported), "got %v", err)
	f.acquirer.AssertNotCalled(t, "Acquire", mock.Anything)
	assert.Empty(t, f.page.GotoURLs)

	exists, _ := afero.Exists(f.fs, testScreenshot)
	assert.False(t, exists)
}

func TestRun_ElementNotFound(t *testing.T) {
	f := newFixture(t, &browsertest.Element{Text: "Sign up"})

	_, err := f.runner.Run(context.Background(), "https://example.com", "click Login")

	var actionErr *ActionError
	require.True(t, errors.As(err, &actionErr), "got %v", err)
	assert.Equal(t, "click Login", actionErr.Action)
	assert.ErrorIs(t, err, browser.ErrNoMatch)

	exists, _ := afero.Exists(f.fs, testScreenshot)
	assert.False(t, exists, "no screenshot after a failed action")
	assert.Equal(t, 1, *f.releases)
}

func TestRun_SelectorNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.runner.Run(context.Background(), "https://example.com", "type #missing hello")

	var actionErr *ActionError
	require.True(t, errors.As(err, &actionErr), "got %v", err)
	assert.ErrorIs(t, err, browser.ErrNoMatch)
	assert.Equal(t, 1, *f.releases)
}

func TestRun_NavigationError(t *testing.T) {
	f := newFixture(t)
	gotoErr := errors.New("net::ERR_NAME_NOT_RESOLVED")
	f.page.GotoErr = gotoErr

	_, err := f.runner.Run(context.Background(), "https://nope.invalid", "click Login")

	var navErr *NavigationError
	require.True(t, errors.As(err, &navErr), "got %v", err)
	assert.Equal(t, "https://nope.invalid", navErr.URL)
	assert.ErrorIs(t, err, gotoErr)
	assert.Equal(t, 1, *f.releases)
}

func TestRun_ScreenshotOverwrites(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, afero.WriteFile(f.fs, testScreenshot, []byte("previous run, much longer than the new image"), 0o644))

	_, err := f.runner.Run(context.Background(), "https://example.com", "")
	require.NoError(t, err)

	data, err := afero.ReadFile(f.fs, testScreenshot)
	require.NoError(t, err)
	assert.Equal(t, f.page.ScreenshotData, data)
}

func TestRun_ScreenshotError(t *testing.T) {
	f := newFixture(t)
	f.page.ScreenshotErr = errors.New("page crashed")

	_, err := f.runner.Run(context.Background(), "https://example.com", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screenshot failed")
	assert.Equal(t, 1, *f.releases)
}

func TestRun_ScreenshotWriteFailure(t *testing.T) {
	f := newFixture(t)
	f.runner.fs = afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, err := f.runner.Run(context.Background(), "https://example.com", "")
	require.Error(t, err)
	assert.Equal(t, 1, *f.releases)
}

func TestRun_AcquisitionFailure(t *testing.T) {
	acquirer := &MockAcquirer{}
	acqErr := &acquire.AcquisitionError{Attempts: []acquire.Attempt{
		{Strategy: acquire.StrategyDebugAttach, Err: acquire.ErrDebugEndpointUnavailable},
		{Strategy: acquire.StrategyPersistentLaunch, Err: errors.New("executable doesn't exist")},
	}}
	acquirer.On("Acquire", mock.Anything).Return(nil, acqErr)

	out := &bytes.Buffer{}
	r := New(acquirer, afero.NewMemMapFs(), Options{ScreenshotPath: testScreenshot}, nil, out)

	_, err := r.Run(context.Background(), "https://example.com", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, acquire.ErrDebugEndpointUnavailable)
	assert.Contains(t, err.Error(), acquire.FallbackTool)

	assert.Contains(t, out.String(), "All Playwright strategies failed")
	assert.Contains(t, out.String(), "agent-browser open <url>")
	acquirer.AssertExpectations(t)
}

func TestRun_CancelledAfterAcquire(t *testing.T) {
	f := newFixture(t, &browsertest.Element{Text: "Login"})
	ctx, cancel := context.WithCancel(context.Background())
	f.acquirer.ExpectedCalls = nil
	f.acquirer.On("Acquire", mock.Anything).Run(func(mock.Arguments) { cancel() }).Return(f.session, nil)

	_, err := f.runner.Run(ctx, "https://example.com", "click Login")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, *f.releases)
}

func TestRun_RequiresURL(t *testing.T) {
	f := newFixture(t)

	_, err := f.runner.Run(context.Background(), "", "")
	require.Error(t, err)
	f.acquirer.AssertNotCalled(t, "Acquire", mock.Anything)
}
