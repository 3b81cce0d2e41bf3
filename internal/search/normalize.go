// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"net/url"
	"strings"
)

// trackingParams lists query parameters stripped during URL normalization.
// utm_* parameters are matched by prefix.
var trackingParams = map[string]bool{
	"utm":     true,
	"fbclid":  true,
	"gclid":   true,
	"msclkid": true,
	"mc_cid":  true,
	"mc_eid":  true,
	"igshid":  true,
	"ref":     true,
	"ref_src": true,
}

// defaultPorts maps schemes to ports that are implied and therefore stripped.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// NormalizeURL canonicalizes an absolute URL for dedup identity: scheme,
// host, and path are lower-cased, default ports and trailing slashes are
// stripped, tracking query parameters are removed, and the fragment is
// dropped. Two candidates whose URLs normalize to the same string are the
// same result.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parsing url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q is not absolute", raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if port := u.Port(); port != "" && port == defaultPorts[u.Scheme] {
		u.Host = u.Hostname()
	}

	u.Path = strings.ToLower(strings.TrimSuffix(u.Path, "/"))
	u.Fragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if trackingParams[key] || strings.HasPrefix(key, "utm_") {
				q.Del(key)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}
