package bootstrap

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// MaxDocumentSize bounds the upstream page we are willing to rewrite.
const MaxDocumentSize = 10 * 1024 * 1024

// ErrDocumentTooLarge is returned for pages above MaxDocumentSize.
var ErrDocumentTooLarge = errors.New("bootstrap: document too large")

// LoadDocument parses an upstream page into UTF-8. The charset comes from
// contentType when it names one, otherwise it is detected from the bytes.
func LoadDocument(body []byte, contentType string) (*goquery.Document, error) {
	if len(body) > MaxDocumentSize {
		return nil, ErrDocumentTooLarge
	}

	label := declaredCharset(contentType)
	if label == "" {
		label = detectCharset(body)
	}

	r, err := charset.NewReaderLabel(label, bytes.NewReader(body))
	if err != nil {
		// unknown label, parse as is
		return goquery.NewDocumentFromReader(bytes.NewReader(body))
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// Render serializes the document back to HTML.
func Render(doc *goquery.Document) (string, error) {
	return goquery.OuterHtml(doc.Selection)
}

func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(params["charset"])
}

func detectCharset(data []byte) string {
	result, err := chardet.NewHtmlDetector().DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}
