package bootstrap

import (
	_ "embed"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ContainerID is the id of the element that hosts the replacement UI.
const ContainerID = "bewly"

// StylesheetPath is the bundled stylesheet, relative to the asset base.
const StylesheetPath = "dist/contentScripts/style.css"

//go:embed icons.svg
var iconSprite string

// ErrNoBody is returned when a document has no body to replace.
var ErrNoBody = errors.New("bootstrap: document has no body")

// Page is the effectful surface the bootstrap runs against: the current
// URL, its cookies, and its document.
type Page interface {
	URL() string
	Cookie(name string) string
	SetCookie(name, value string, days int)
	Reload()
	Document() *goquery.Document
}

// Mounter attaches the UI tree to the mount root.
type Mounter interface {
	Mount(root *goquery.Selection) error
}

// MounterFunc adapts a function to Mounter.
type MounterFunc func(root *goquery.Selection) error

func (f MounterFunc) Mount(root *goquery.Selection) error { return f(root) }

// Bootstrap wraps Decide with the page mutations.
type Bootstrap struct {
	matcher   *Matcher
	assetBase string
}

// New creates a bootstrap for host with assets served under assetBase.
func New(host, assetBase string) *Bootstrap {
	return &Bootstrap{
		matcher:   NewMatcher(host),
		assetBase: assetBase,
	}
}

// Matcher returns the homepage matcher
func (b *Bootstrap) Matcher() *Matcher {
	return b.matcher
}

// Decide runs the pure decision for url and cookie value.
func (b *Bootstrap) Decide(url, cookieValue string) Decision {
	return b.matcher.Decide(url, cookieValue)
}

// Run applies the decision to page. On redirect it writes the cookie and
// reloads without touching the document.
func (b *Bootstrap) Run(page Page, m Mounter) (Decision, error) {
	d := b.Decide(page.URL(), page.Cookie(CookieName))

	switch d.Action {
	case ActionRedirect:
		page.SetCookie(d.Cookie.Name, d.Cookie.Value, d.Cookie.Days)
		page.Reload()
	case ActionMount:
		if err := b.Replace(page.Document(), m); err != nil {
			return d, err
		}
	}
	return d, nil
}

// Replace wipes doc and installs the container, the mount root and the
// icon sprite.
func (b *Bootstrap) Replace(doc *goquery.Document, m Mounter) error {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return ErrNoBody
	}

	doc.Find("script").Remove()
	body.Empty()

	body.AppendHtml(fmt.Sprintf(
		`<div id="%s"><link rel="stylesheet" href="%s"/><div></div></div>`,
		ContainerID, html.EscapeString(b.StylesheetURL()),
	))

	root := body.Find("#" + ContainerID + " > div").First()
	if m != nil {
		if err := m.Mount(root); err != nil {
			return fmt.Errorf("mount: %w", err)
		}
	}

	body.AppendHtml("<div>" + iconSprite + "</div>")
	return nil
}

// StylesheetURL is the href of the injected stylesheet link.
func (b *Bootstrap) StylesheetURL() string {
	return joinAsset(b.assetBase, StylesheetPath)
}

func joinAsset(base, path string) string {
	if base == "" {
		return path
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + path
}
