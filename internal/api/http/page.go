package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/bewlybewly/bewly/backend/internal/bootstrap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// requestPage is a bootstrap.Page backed by one HTTP request
type requestPage struct {
	c   *gin.Context
	url string
	doc *goquery.Document
}

func (p *requestPage) URL() string { return p.url }

func (p *requestPage) Cookie(name string) string {
	v, err := p.c.Cookie(name)
	if err != nil {
		return ""
	}
	return v
}

func (p *requestPage) SetCookie(name, value string, days int) {
	p.c.SetSameSite(http.SameSiteLaxMode)
	p.c.SetCookie(name, value, days*24*60*60, "/", "", false, false)
}

// Reload sends the browser back to the same request URI.
func (p *requestPage) Reload() {
	p.c.Redirect(http.StatusFound, p.c.Request.URL.RequestURI())
}

func (p *requestPage) Document() *goquery.Document { return p.doc }

// Page serves the rewritten homepage for ?url=. A legacy-cookie visit is
// redirected once; other URLs are not ours to rewrite.
func (h *Handlers) Page(c *gin.Context) {
	target := c.Query("url")
	if u, err := url.Parse(target); target == "" || err != nil || !u.IsAbs() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url must be an absolute URL"})
		return
	}

	page := &requestPage{c: c, url: target}
	decision := h.bootstrap.Decide(target, page.Cookie(bootstrap.CookieName))
	if h.metrics != nil {
		h.metrics.RecordPageDecision(decision.Action.String())
	}

	switch decision.Action {
	case bootstrap.ActionNone:
		c.JSON(http.StatusNotFound, gin.H{"error": "not a homepage"})
		return
	case bootstrap.ActionMount:
		if h.pages == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "page fetching disabled"})
			return
		}
		body, contentType, err := h.pages.GetHTML(c.Request.Context(), target, surfaceCookie(c))
		if err != nil {
			h.logger.Error("Failed to fetch homepage", zap.String("url", target), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch page"})
			return
		}
		doc, err := bootstrap.LoadDocument(body, contentType)
		if err != nil {
			h.logger.Error("Failed to parse homepage", zap.String("url", target), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to parse page"})
			return
		}
		page.doc = doc
	}

	if _, err := h.bootstrap.Run(page, h.mounter); err != nil {
		h.logger.Error("Bootstrap failed", zap.String("url", target), zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, bootstrap.ErrNoBody) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": "failed to rewrite page"})
		return
	}

	if decision.Action == bootstrap.ActionRedirect {
		// Reload already wrote the redirect
		return
	}

	out, err := bootstrap.Render(page.doc)
	if err != nil {
		h.logger.Error("Failed to render homepage", zap.String("url", target), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render page"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}
