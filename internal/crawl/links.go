package crawl

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Link is an outbound anchor with its resolved absolute URL and visible text.
type Link struct {
	URL  string
	Text string
}

// Host returns the link's host, or "" for unparseable URLs.
func (l Link) Host() string {
	u, err := url.Parse(l.URL)
	if err != nil {
		return ""
	}
	return u.Host
}

// Path returns the link's path, or "" for unparseable URLs.
func (l Link) Path() string {
	u, err := url.Parse(l.URL)
	if err != nil {
		return ""
	}
	return u.Path
}

// collectLinks extracts every anchor from the HTML, resolved against base,
// deduplicated, with fragments stripped. Malformed hrefs are skipped. Unlike a
// same-host filter this returns everything; the caller applies domain policy.
func collectLinks(htmlContent string, base *url.URL) []Link {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []Link

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}

		linkURL, err := url.Parse(href)
		if err != nil {
			return
		}

		absolute := base.ResolveReference(linkURL)
		if absolute.Scheme != "http" && absolute.Scheme != "https" {
			return
		}
		absolute.Fragment = ""

		urlString := strings.TrimSuffix(absolute.String(), "/")
		if seen[urlString] {
			return
		}
		seen[urlString] = true

		links = append(links, Link{
			URL:  urlString,
			Text: strings.TrimSpace(s.Text()),
		})
	})

	return links
}
