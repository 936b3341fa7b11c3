package scraper

import (
	"strings"

	"golang.org/x/net/html"
)

// Small x/net/html traversal helpers shared by the HTML adapters. They are
// deliberately lax: missing nodes return zero values and the calling
// adapter decides whether the record is salvageable.

// parseHTML parses a document, returning nil on malformed input.
func parseHTML(doc string) *html.Node {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil
	}
	return root
}

// findAll collects descendant elements with the given tag, and when class
// is non-empty, that class among their class list.
func findAll(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	if n == nil {
		return out
	}
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			if class == "" || hasClass(node, class) {
				out = append(out, node)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// findFirst returns the first matching descendant or nil.
func findFirst(n *html.Node, tag, class string) *html.Node {
	all := findAll(n, tag, class)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// text returns the concatenated, space-trimmed text content of a node.
func text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// splitGroupQuota splits a combined "grupo/cota" cell like "1234/56".
// Either half may be absent.
func splitGroupQuota(s string) (group, quota string) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	group = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		quota = strings.TrimSpace(parts[1])
	}
	return group, quota
}

// resolveURL joins a possibly-relative href onto the site base.
func resolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(href, "/")
}
