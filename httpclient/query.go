package httpclient

import (
	"net/url"
	"strings"
)

// QueryParam is a single name/value query pair
type QueryParam struct {
	Name  string
	Value string
}

// escapeQueryComponent percent-encodes s for use in a query string, spaces as %20
func escapeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// AppendQuery returns a copy of u with params appended after any existing
// query parameters, in the given order. Existing parameters are kept verbatim.
func AppendQuery(u *url.URL, params ...QueryParam) *url.URL {
	out := *u
	if len(params) == 0 {
		return &out
	}

	var b strings.Builder
	b.WriteString(u.RawQuery)
	for _, p := range params {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escapeQueryComponent(p.Name))
		b.WriteByte('=')
		b.WriteString(escapeQueryComponent(p.Value))
	}
	out.RawQuery = b.String()
	out.ForceQuery = false
	return &out
}
