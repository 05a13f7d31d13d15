package sanitize

import "net/url"

// URL validates that raw parses as an absolute http or https URL. It returns
// raw unchanged on success and the empty string otherwise; no normalization
// is applied.
func URL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	if parsed.Host == "" {
		return ""
	}
	return raw
}
