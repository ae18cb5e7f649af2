package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Release hands the session's resources back using the strategy-specific
// release function. Only the first call does any work; later calls return
// the first result.
func (s *Session) Release() error {
	s.releaseOnce.Do(func() {
		if s.release != nil {
			s.releaseErr = s.release()
		}
		s.mu.Lock()
		s.released = true
		s.mu.Unlock()
	})
	return s.releaseErr
}

// Released reports whether Release has run.
func (s *Session) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	waitUntil := playwright.WaitUntilStateNetworkidle
	if opts.WaitUntil != "" {
		state := playwright.WaitUntilState(opts.WaitUntil)
		waitUntil = &state
	}

	gotoOpts := playwright.PageGotoOptions{
		WaitUntil: waitUntil,
	}
	if opts.Timeout > 0 {
		gotoOpts.Timeout = playwright.Float(float64(opts.Timeout.Milliseconds()))
	}

	if _, err := s.Page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Title returns the current page title.
func (s *Session) Title() (string, error) {
	title, err := s.Page.Title()
	if err != nil {
		return "", fmt.Errorf("failed to read title: %w", err)
	}
	return title, nil
}

// URL returns the current page URL.
func (s *Session) URL() string {
	return s.Page.URL()
}

// ClickText clicks the first element whose visible text equals text.
func (s *Session) ClickText(text string) error {
	locator := s.Page.GetByText(text, playwright.PageGetByTextOptions{
		Exact: playwright.Bool(true),
	})

	if err := requireMatch(locator, fmt.Sprintf("text %q", text)); err != nil {
		return err
	}

	if err := locator.First().Click(); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// Fill sets the value of the first element matching selector.
func (s *Session) Fill(selector, value string) error {
	locator := s.Page.Locator(selector)

	if err := requireMatch(locator, fmt.Sprintf("selector %q", selector)); err != nil {
		return err
	}

	if err := locator.First().Fill(value); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

// Screenshot captures the page as PNG bytes.
func (s *Session) Screenshot(opts ScreenshotOptions) ([]byte, error) {
	data, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(opts.FullPage),
		Type:     playwright.ScreenshotTypePng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

// requireMatch fails with ErrNoMatch when locator resolves to nothing.
func requireMatch(locator playwright.Locator, what string) error {
	count, err := locator.Count()
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", what, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", ErrNoMatch, what)
	}
	return nil
}
