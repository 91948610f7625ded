// Package urlutil normalizes and inspects URLs before they reach the catalog.
package urlutil

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// trackingParams are query parameters stripped during normalization. They
// identify campaigns and click-throughs, not content, so two visits differing
// only in these are the same page.
var trackingParams = map[string]struct{}{
	"utm_source": {}, "utm_medium": {}, "utm_campaign": {}, "utm_term": {}, "utm_content": {},
	"fbclid": {}, "gclid": {}, "gclsrc": {}, "dclid": {}, "msclkid": {},
	"_ga": {}, "_gid": {}, "_gac": {}, "_gl": {}, "_x_tr_sl": {}, "_x_tr_tl": {},
	"ref": {}, "ref_": {}, "referer": {}, "referrer": {}, "source": {},
	"mc_cid": {}, "mc_eid": {}, "mkt_tok": {},
}

// titleSuffixes are boilerplate endings removed by CleanTitle.
var titleSuffixes = []string{
	" - Google Search",
	" - Google 検索",
	" - Bing",
	" - YouTube",
	" | Microsoft Learn",
	" | MDN",
}

// Normalize returns a canonical form of rawURL for deduplication: lowercase
// scheme and host, default ports and trailing slashes removed, tracking
// parameters stripped, remaining query keys sorted, fragment dropped.
// Unparseable input is returned unchanged.
func Normalize(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		scheme = "https"
	}

	host := strings.ToLower(u.Host)
	if scheme == "http" {
		host = strings.TrimSuffix(host, ":80")
	} else if scheme == "https" {
		host = strings.TrimSuffix(host, ":443")
	}

	path := u.Path
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}

	query := u.RawQuery
	if query != "" {
		values, err := url.ParseQuery(query)
		if err == nil {
			for key := range values {
				if _, tracking := trackingParams[strings.ToLower(key)]; tracking {
					values.Del(key)
				}
			}
			query = encodeSorted(values)
		}
	}

	normalized := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     path,
		RawQuery: query,
	}
	return normalized.String()
}

// encodeSorted is url.Values.Encode with deterministic key order.
func encodeSorted(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range values[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// Domain extracts the registrable host from a URL, lowercased, with a
// leading "www." removed. Returns "" when the URL cannot be parsed.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// FaviconURL returns a favicon reference for a URL via Google's favicon
// service, or "" when no domain can be extracted.
func FaviconURL(rawURL string) string {
	domain := Domain(rawURL)
	if domain == "" {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/s2/favicons?domain=%s&sz=32", domain)
}

// IsValid reports whether s parses as an absolute URL with a host.
func IsValid(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// CleanTitle collapses whitespace and strips well-known search-engine and
// documentation-site suffixes from a page title.
func CleanTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")

	for _, suffix := range titleSuffixes {
		if strings.HasSuffix(title, suffix) {
			title = strings.TrimSuffix(title, suffix)
			break
		}
	}
	return title
}
