package dedup

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters stripped during URL canonicalization.
// utm_* is matched by prefix.
var trackingParams = map[string]struct{}{
	"fbclid": {},
	"gclid":  {},
}

// CanonicalURL normalizes a source URL for duplicate comparison: fragment
// dropped, tracking query parameters removed, scheme and host lowercased and
// the www. prefix stripped. Unparseable input is returned unchanged.
func CanonicalURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return raw
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")

	q := u.Query()
	for key := range q {
		if _, tracked := trackingParams[key]; tracked || strings.HasPrefix(key, "utm_") {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}
