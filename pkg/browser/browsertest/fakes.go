// Package browsertest provides in-memory fakes of the playwright-go
// interfaces used by the runner. Each fake embeds the playwright interface
// it stands in for, so calling a method the fake does not implement panics.
package browsertest

import (
	"errors"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// ErrClosed is returned by fakes used after Close.
var ErrClosed = errors.New("target closed")

// Element is a node on a fake page.
type Element struct {
	Text     string
	Selector string
	Value    string
	Clicks   int
	ClickErr error
}

// Page is a fake playwright.Page.
type Page struct {
	playwright.Page

	mu             sync.Mutex
	TitleValue     string
	URLValue       string
	GotoErr        error
	RedirectURL    string
	GotoURLs       []string
	GotoOptions    []playwright.PageGotoOptions
	Elements       []*Element
	ScreenshotData []byte
	ScreenshotErr  error
	ScreenshotOpts []playwright.PageScreenshotOptions
	closed         bool
}

// NewPage returns a blank page.
func NewPage(elements ...*Element) *Page {
	return &Page{URLValue: "about:blank", Elements: elements, ScreenshotData: []byte("\x89PNG fake")}
}

func (p *Page) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	p.GotoURLs = append(p.GotoURLs, url)
	p.GotoOptions = append(p.GotoOptions, options...)
	if p.GotoErr != nil {
		return nil, p.GotoErr
	}
	p.URLValue = url
	if p.RedirectURL != "" {
		p.URLValue = p.RedirectURL
	}
	return nil, nil
}

func (p *Page) Title() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return "", ErrClosed
	}
	return p.TitleValue, nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.URLValue
}

func (p *Page) GetByText(text interface{}, options ...playwright.PageGetByTextOptions) playwright.Locator {
	p.mu.Lock()
	defer p.mu.Unlock()
	want, _ := text.(string)
	var matches []*Element
	for _, el := range p.Elements {
		if el.Text == want {
			matches = append(matches, el)
		}
	}
	return &Locator{Matches: matches}
}

func (p *Page) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	p.mu.Lock()
	defer p.mu.Unlock()
	var matches []*Element
	for _, el := range p.Elements {
		if el.Selector == selector {
			matches = append(matches, el)
		}
	}
	return &Locator{Matches: matches}
}

func (p *Page) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	p.ScreenshotOpts = append(p.ScreenshotOpts, options...)
	if p.ScreenshotErr != nil {
		return nil, p.ScreenshotErr
	}
	return p.ScreenshotData, nil
}

func (p *Page) Close(options ...playwright.PageCloseOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *Page) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// pwLocator lets Locator embed the interface without the embedded field
// shadowing the interface's own Locator method.
type pwLocator = playwright.Locator

// Locator is a fake playwright.Locator over a fixed set of elements.
type Locator struct {
	pwLocator

	Matches  []*Element
	CountErr error
}

func (l *Locator) Count() (int, error) {
	if l.CountErr != nil {
		return 0, l.CountErr
	}
	return len(l.Matches), nil
}

func (l *Locator) First() playwright.Locator {
	if len(l.Matches) == 0 {
		return &Locator{}
	}
	return &Locator{Matches: l.Matches[:1]}
}

func (l *Locator) Click(options ...playwright.LocatorClickOptions) error {
	if len(l.Matches) == 0 {
		return errors.New("locator resolved to no element")
	}
	el := l.Matches[0]
	if el.ClickErr != nil {
		return el.ClickErr
	}
	el.Clicks++
	return nil
}

func (l *Locator) Fill(value string, options ...playwright.LocatorFillOptions) error {
	if len(l.Matches) == 0 {
		return errors.New("locator resolved to no element")
	}
	l.Matches[0].Value = value
	return nil
}

// Context is a fake playwright.BrowserContext.
type Context struct {
	playwright.BrowserContext

	mu         sync.Mutex
	PageList   []playwright.Page
	NewPageErr error
	NewPages   int
	CloseCalls int
}

// NewContext returns a context holding pages.
func NewContext(pages ...playwright.Page) *Context {
	return &Context{PageList: pages}
}

func (c *Context) Pages() []playwright.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]playwright.Page(nil), c.PageList...)
}

func (c *Context) NewPage() (playwright.Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.CloseCalls > 0 {
		return nil, ErrClosed
	}
	if c.NewPageErr != nil {
		return nil, c.NewPageErr
	}
	page := NewPage()
	c.PageList = append(c.PageList, page)
	c.NewPages++
	return page, nil
}

func (c *Context) Close(options ...playwright.BrowserContextCloseOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CloseCalls++
	return nil
}

// Closed reports whether Close was called.
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CloseCalls > 0
}

// Browser is a fake playwright.Browser reached over CDP.
type Browser struct {
	playwright.Browser

	mu           sync.Mutex
	ContextList  []playwright.BrowserContext
	CloseCalls   int
	CloseErr     error
	VersionValue string
}

// NewBrowser returns a browser holding contexts.
func NewBrowser(contexts ...playwright.BrowserContext) *Browser {
	return &Browser{ContextList: contexts, VersionValue: "120.0.0.0"}
}

func (b *Browser) Contexts() []playwright.BrowserContext {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]playwright.BrowserContext(nil), b.ContextList...)
}

func (b *Browser) Close(options ...playwright.BrowserCloseOptions) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.CloseCalls++
	return b.CloseErr
}

func (b *Browser) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.CloseCalls == 0
}

func (b *Browser) Version() string {
	return b.VersionValue
}

// LaunchCall records a LaunchPersistentContext invocation.
type LaunchCall struct {
	UserDataDir string
	Options     playwright.BrowserTypeLaunchPersistentContextOptions
}

// BrowserType is a fake playwright.BrowserType.
type BrowserType struct {
	playwright.BrowserType

	mu          sync.Mutex
	ConnectErr  error
	Browser     *Browser
	ConnectURLs []string
	LaunchErr   error
	LaunchPanic interface{}
	Context     *Context
	LaunchCalls []LaunchCall
}

func (bt *BrowserType) ConnectOverCDP(endpointURL string, options ...playwright.BrowserTypeConnectOverCDPOptions) (playwright.Browser, error) {
	bt.mu.Lock()
	defer bt.mu.Unlock()
	bt.ConnectURLs = append(bt.ConnectURLs, endpointURL)
	if bt.ConnectErr != nil {
		return nil, bt.ConnectErr
	}
	if bt.Browser == nil {
		return nil, errors.New("no browser listening")
	}
	return bt.Browser, nil
}

func (bt *BrowserType) LaunchPersistentContext(userDataDir string, options ...playwright.BrowserTypeLaunchPersistentContextOptions) (playwright.BrowserContext, error) {
	bt.mu.Lock()
	defer bt.mu.Unlock()
	call := LaunchCall{UserDataDir: userDataDir}
	if len(options) > 0 {
		call.Options = options[0]
	}
	bt.LaunchCalls = append(bt.LaunchCalls, call)
	if bt.LaunchPanic != nil {
		panic(bt.LaunchPanic)
	}
	if bt.LaunchErr != nil {
		return nil, bt.LaunchErr
	}
	if bt.Context == nil {
		return nil, errors.New("executable doesn't exist")
	}
	return bt.Context, nil
}

func (bt *BrowserType) Name() string {
	return "chromium"
}

// Launches returns the number of LaunchPersistentContext calls.
func (bt *BrowserType) Launches() int {
	bt.mu.Lock()
	defer bt.mu.Unlock()
	return len(bt.LaunchCalls)
}

// Driver is a fake of the lazily started Playwright driver handed to the
// acquisition strategies.
type Driver struct {
	mu          sync.Mutex
	BrowserType *BrowserType
	StartErr    error
	InstallErr  error
	Starts      int
	Installs    int
	Stops       int
}

// NewDriver returns a driver serving bt.
func NewDriver(bt *BrowserType) *Driver {
	return &Driver{BrowserType: bt}
}

func (d *Driver) Chromium() (playwright.BrowserType, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Starts++
	if d.StartErr != nil {
		return nil, d.StartErr
	}
	if d.BrowserType == nil {
		return nil, errors.New("driver has no browser type")
	}
	return d.BrowserType, nil
}

func (d *Driver) EnsureBrowsers() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Installs++
	return d.InstallErr
}

func (d *Driver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Stops++
	return nil
}
