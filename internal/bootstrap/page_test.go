package bootstrap

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyHome = `<!DOCTYPE html>
<html><head><title>home</title><script src="/legacy.js"></script></head>
<body><div id="app">legacy</div><script>window.__INITIAL_STATE__={}</script></body></html>`

type fakePage struct {
	url      string
	cookies  map[string]string
	doc      *goquery.Document
	reloads  int
	setCalls int
}

func newFakePage(t *testing.T, url string, cookies map[string]string) *fakePage {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(legacyHome))
	require.NoError(t, err)
	if cookies == nil {
		cookies = map[string]string{}
	}
	return &fakePage{url: url, cookies: cookies, doc: doc}
}

func (p *fakePage) URL() string { return p.url }
func (p *fakePage) Cookie(name string) string { return p.cookies[name] }
func (p *fakePage) Reload() { p.reloads++ }
func (p *fakePage) Document() *goquery.Document { return p.doc }
func (p *fakePage) SetCookie(name, value string, _ int) {
	p.setCalls++
	p.cookies[name] = value
}

func TestRunMount(t *testing.T) {
	page := newFakePage(t, "https://www.example.com/", nil)
	b := New("example.com", "/assets/")

	var mounted *goquery.Selection
	d, err := b.Run(page, MounterFunc(func(root *goquery.Selection) error {
		mounted = root
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, ActionMount, d.Action)

	doc := page.doc
	assert.Equal(t, 0, doc.Find("script").Length())
	assert.Equal(t, 0, doc.Find("#app").Length())

	container := doc.Find("#bewly")
	require.Equal(t, 1, container.Length())
	href, _ := container.Find("link[rel=stylesheet]").Attr("href")
	assert.Equal(t, "/assets/dist/contentScripts/style.css", href)

	require.NotNil(t, mounted)
	assert.Equal(t, 1, mounted.Length())
	assert.True(t, mounted.Parent().Is("#bewly"))

	// sprite comes after the container
	children := doc.Find("body").Children()
	require.Equal(t, 2, children.Length())
	assert.True(t, children.Eq(0).Is("#bewly"))
	assert.Equal(t, 1, children.Eq(1).Find("svg symbol#bewly-home").Length())

	assert.Zero(t, page.reloads)
}

func TestRunRedirectDoesNotTouchDocument(t *testing.T) {
	page := newFakePage(t, "https://example.com/?spm_id_from=x", map[string]string{CookieName: "2"})
	b := New("example.com", "/assets/")

	called := false
	d, err := b.Run(page, MounterFunc(func(*goquery.Selection) error {
		called = true
		return nil
	}))
	require.NoError(t, err)

	assert.Equal(t, ActionRedirect, d.Action)
	assert.Equal(t, "-1", page.cookies[CookieName])
	assert.Equal(t, 1, page.setCalls)
	assert.Equal(t, 1, page.reloads)
	assert.False(t, called)
	assert.Equal(t, 0, page.doc.Find("#bewly").Length())
	assert.Equal(t, 2, page.doc.Find("script").Length())
}

func TestRunNotHomePage(t *testing.T) {
	page := newFakePage(t, "https://example.com/video/123", map[string]string{CookieName: "2"})

	d, err := New("example.com", "").Run(page, nil)
	require.NoError(t, err)

	assert.Equal(t, ActionNone, d.Action)
	assert.Equal(t, "2", page.cookies[CookieName])
	assert.Zero(t, page.reloads)
	assert.Equal(t, 1, page.doc.Find("#app").Length())
}

func TestRunMountError(t *testing.T) {
	page := newFakePage(t, "https://example.com/", nil)
	boom := errors.New("boom")

	_, err := New("example.com", "").Run(page, MounterFunc(func(*goquery.Selection) error { return boom }))
	assert.ErrorIs(t, err, boom)
}

func TestScriptMounter(t *testing.T) {
	page := newFakePage(t, "https://example.com/", nil)
	b := New("example.com", "/assets")

	_, err := b.Run(page, ScriptMounter{AssetBase: "/assets", Script: "dist/contentScripts/index.global.js"})
	require.NoError(t, err)

	root := page.doc.Find("[" + RootAttr + "]")
	require.Equal(t, 1, root.Length())

	scripts := page.doc.Find("#bewly script[type=module]")
	require.Equal(t, 1, scripts.Length())
	src, _ := scripts.Attr("src")
	assert.Equal(t, "/assets/dist/contentScripts/index.global.js", src)

	href, _ := page.doc.Find("#bewly link").Attr("href")
	assert.Equal(t, "/assets/dist/contentScripts/style.css", href)
}

func TestScriptMounterEmptyRoot(t *testing.T) {
	err := ScriptMounter{}.Mount(&goquery.Selection{})
	assert.Error(t, err)
}
