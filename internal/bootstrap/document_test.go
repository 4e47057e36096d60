package bootstrap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestLoadDocumentUTF8(t *testing.T) {
	doc, err := LoadDocument([]byte(`<html><body><p>哔哩哔哩</p></body></html>`), "text/html; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "哔哩哔哩", doc.Find("p").Text())
}

func TestLoadDocumentDeclaredGBK(t *testing.T) {
	encoded, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(`<html><body><p>哔哩哔哩</p></body></html>`))
	require.NoError(t, err)

	doc, err := LoadDocument(encoded, "text/html; charset=gbk")
	require.NoError(t, err)
	assert.Equal(t, "哔哩哔哩", doc.Find("p").Text())
}

func TestLoadDocumentTooLarge(t *testing.T) {
	_, err := LoadDocument(bytes.Repeat([]byte("a"), MaxDocumentSize+1), "")
	assert.ErrorIs(t, err, ErrDocumentTooLarge)
}

func TestRenderRoundTrip(t *testing.T) {
	doc, err := LoadDocument([]byte(legacyHome), "")
	require.NoError(t, err)

	require.NoError(t, New("example.com", "/assets/").Replace(doc, nil))

	out, err := Render(doc)
	require.NoError(t, err)
	assert.Contains(t, out, `<div id="bewly">`)
	assert.NotContains(t, out, "<script")
}

func TestDeclaredCharset(t *testing.T) {
	assert.Equal(t, "gbk", declaredCharset("text/html; charset=GBK"))
	assert.Equal(t, "", declaredCharset("text/html"))
	assert.Equal(t, "", declaredCharset(""))
	assert.Equal(t, "", declaredCharset(";;;"))
}
