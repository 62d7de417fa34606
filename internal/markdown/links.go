package markdown

import (
	"net/url"
	"strings"
)

// ResolveLink makes a link destination absolute so the remote store accepts it.
//
// Absolute http(s) and mailto destinations are kept. Relative destinations and
// fragments are resolved against documentURL. The empty string means the link
// cannot be represented and the text should render unlinked.
func ResolveLink(dest, documentURL string) string {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return ""
	}
	ref, err := url.Parse(dest)
	if err != nil {
		return ""
	}
	switch strings.ToLower(ref.Scheme) {
	case "http", "https", "mailto":
		return dest
	case "":
	default:
		return ""
	}

	base, err := url.Parse(documentURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return ""
	}
	return base.ResolveReference(ref).String()
}
