// Package tracking instruments outbound HTML with click redirection and
// an open pixel, both keyed on a subtask's public tracking token.
package tracking

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// TransparentPixel is the fixed 1x1 transparent GIF served for every
// open hit, whatever the outcome of recording it.
var TransparentPixel = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

var hrefRegex = regexp.MustCompile(`(<a[^>]*\s+href=["'])([^"']+)(["'][^>]*>)`)
var bodyCloseRegex = regexp.MustCompile(`(?i)(</body>)`)

// Instrumenter rewrites links and injects the open pixel for one message.
type Instrumenter struct {
	// Endpoint is the public base URL of the tracking server,
	// e.g. https://api.example.com
	Endpoint string
	// Token is the subtask's opaque tracking token
	Token string
}

// ClickURL returns the redirect endpoint for one original destination.
func (ins *Instrumenter) ClickURL(originalURL string) string {
	return fmt.Sprintf("%s/track/click/%s?url=%s",
		strings.TrimRight(ins.Endpoint, "/"),
		url.PathEscape(ins.Token),
		url.QueryEscape(originalURL))
}

// OpenPixelURL returns the open-tracking endpoint for this message.
func (ins *Instrumenter) OpenPixelURL() string {
	return fmt.Sprintf("%s/track/open/%s",
		strings.TrimRight(ins.Endpoint, "/"),
		url.PathEscape(ins.Token))
}

// OpenPixelTag returns the hidden 1x1 image tag referencing the open endpoint.
func (ins *Instrumenter) OpenPixelTag() string {
	return fmt.Sprintf(`<img src="%s" alt="" width="1" height="1" style="display:none">`, ins.OpenPixelURL())
}

// InstrumentHTML rewrites every trackable href through the click
// endpoint and appends the open pixel before the closing body tag (or at
// the end when the document has none).
func (ins *Instrumenter) InstrumentHTML(html string) string {
	updated := hrefRegex.ReplaceAllStringFunc(html, func(match string) string {
		parts := hrefRegex.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}

		beforeURL := parts[1]
		originalURL := parts[2]
		afterURL := parts[3]

		if !Trackable(originalURL, ins.Endpoint) {
			return match
		}

		return beforeURL + ins.ClickURL(originalURL) + afterURL
	})

	pixel := ins.OpenPixelTag()
	if bodyCloseRegex.MatchString(updated) {
		return bodyCloseRegex.ReplaceAllString(updated, pixel+"$1")
	}
	return updated + pixel
}

// nonTrackableSchemes are link schemes that must not be wrapped in a
// redirect because it would break their behavior in mail clients.
var nonTrackableSchemes = []string{
	"mailto:",
	"tel:",
	"sms:",
	"javascript:",
	"data:",
	"blob:",
	"file:",
}

// Trackable reports whether a href should be rewritten through the click
// endpoint. Anchors, special schemes, unresolved template placeholders,
// relative URLs and already-rewritten links are left alone.
func Trackable(href, endpoint string) bool {
	if href == "" {
		return false
	}
	if strings.HasPrefix(href, "#") {
		return false
	}
	if strings.Contains(href, "{{") || strings.Contains(href, "{%") {
		return false
	}

	lower := strings.ToLower(href)
	for _, scheme := range nonTrackableSchemes {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}

	// Only absolute http(s) links are rewritten
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}

	// Never double-wrap a link that already points at the tracking server
	if endpoint != "" && strings.HasPrefix(href, strings.TrimRight(endpoint, "/")+"/track/") {
		return false
	}

	return true
}
