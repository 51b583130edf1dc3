package tracking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstrumenter_ClickURL(t *testing.T) {
	ins := &Instrumenter{Endpoint: "https://track.example.com/", Token: "tok-1"}

	got := ins.ClickURL("https://example.com/offer?ref=a&x=1")
	assert.Equal(t, "https://track.example.com/track/click/tok-1?url=https%3A%2F%2Fexample.com%2Foffer%3Fref%3Da%26x%3D1", got)
}

func TestInstrumenter_InstrumentHTML(t *testing.T) {
	ins := &Instrumenter{Endpoint: "https://track.example.com", Token: "tok-1"}

	t.Run("rewrites absolute links", func(t *testing.T) {
		html := `<html><body><a href="https://example.com/offer">Offer</a></body></html>`
		out := ins.InstrumentHTML(html)

		assert.Contains(t, out, `href="https://track.example.com/track/click/tok-1?url=`)
		assert.NotContains(t, out, `href="https://example.com/offer"`)
	})

	t.Run("appends pixel before closing body tag", func(t *testing.T) {
		out := ins.InstrumentHTML(`<html><body><p>Hi</p></body></html>`)

		pixelIdx := strings.Index(out, "/track/open/tok-1")
		bodyIdx := strings.Index(out, "</body>")
		assert.Greater(t, pixelIdx, 0)
		assert.Greater(t, bodyIdx, pixelIdx)
	})

	t.Run("appends pixel at the end without body tag", func(t *testing.T) {
		out := ins.InstrumentHTML(`<p>Hi</p>`)
		assert.True(t, strings.HasSuffix(out, `style="display:none">`))
		assert.Contains(t, out, "/track/open/tok-1")
	})

	t.Run("leaves mailto and anchors alone", func(t *testing.T) {
		html := `<a href="mailto:hi@example.com">mail</a><a href="#top">top</a>`
		assert.Equal(t, html, ins.InstrumentHTML(html)[:len(html)])
	})

	t.Run("does not double-wrap tracking links", func(t *testing.T) {
		html := `<a href="https://track.example.com/track/click/tok-1?url=x">x</a>`
		out := ins.InstrumentHTML(html)
		assert.Equal(t, 1, strings.Count(out, "/track/click/"))
	})
}

func TestTrackable(t *testing.T) {
	endpoint := "https://track.example.com"

	cases := []struct {
		name string
		href string
		want bool
	}{
		{"absolute https", "https://example.com/x", true},
		{"absolute http", "http://example.com/x", true},
		{"empty", "", false},
		{"anchor", "#section", false},
		{"mailto", "mailto:a@b.c", false},
		{"tel uppercase scheme", "TEL:+123", false},
		{"javascript", "javascript:alert(1)", false},
		{"relative path", "/unsubscribe", false},
		{"liquid placeholder", "https://example.com/{{ contact.id }}", false},
		{"already tracked", endpoint + "/track/click/tok?url=x", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Trackable(tc.href, endpoint))
		})
	}
}
