package report

import (
	"net/url"
	"strings"
)

const maskFill = "****"

var sensitiveQueryKeys = map[string]struct{}{
	"password":     {},
	"pass":         {},
	"pwd":          {},
	"sslpassword":  {},
	"sslkey":       {},
	"secret":       {},
	"token":        {},
	"access_token": {},
	"auth_token":   {},
	"api_key":      {},
	"apikey":       {},
	"key":          {},
}

// MaskSecret keeps the first and last four characters of long secrets and
// hides short ones entirely.
func MaskSecret(secret string) string {
	secret = strings.TrimSpace(secret)
	switch {
	case secret == "":
		return ""
	case len(secret) <= 12:
		return maskFill
	default:
		return secret[:4] + maskFill + secret[len(secret)-4:]
	}
}

// MaskURL hides credentials embedded in a connection url or sentry dsn,
// including credential query parameters.
// Values that do not parse as urls are masked as secrets.
func MaskURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return MaskSecret(raw)
	}
	u.RawQuery = maskQuery(u.RawQuery)
	if u.User == nil || u.Host == "" {
		return u.Redacted()
	}
	rest := u.Host + u.EscapedPath()
	if u.RawQuery != "" {
		rest += "?" + u.RawQuery
	}
	return u.Scheme + "://" + maskFill + "@" + rest
}

// maskQuery replaces the values of credential-like parameters and keeps the
// rest of the query in its original order.
func maskQuery(raw string) string {
	if raw == "" {
		return ""
	}
	pairs := strings.Split(raw, "&")
	for i, pair := range pairs {
		key, _, hasValue := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(key)
		if err != nil {
			name = key
		}
		if _, ok := sensitiveQueryKeys[strings.ToLower(name)]; ok && hasValue {
			pairs[i] = key + "=" + maskFill
		}
	}
	return strings.Join(pairs, "&")
}
