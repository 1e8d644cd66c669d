package api

import "strings"

// NormalizeImageURL resolves an image path from an upstream payload to an
// absolute URL. Payloads carry either absolute URLs or paths relative to the
// upload host ("/uploads/x.jpg"); the presentation layer must only ever see
// absolute URLs.
//
// Empty input stays empty. Applying the function to its own output is a
// no-op.
func NormalizeImageURL(raw, baseURL string) string {
	if raw == "" {
		return ""
	}
	if hasScheme(raw) {
		return raw
	}

	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return base + raw
}

func hasScheme(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
