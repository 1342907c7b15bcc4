package engine

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// skipElements are subtrees that never contribute readable content:
// code and embeds, plus the page chrome the in-page extractor also
// strips via noiseSelectors.
var skipElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"iframe":   {},
	"svg":      {},
	"nav":      {},
	"header":   {},
	"footer":   {},
	"aside":    {},
	"form":     {},
}

// extractText flattens an HTML document to whitespace-normalized text.
// Used as the fallback when in-page extraction yields nothing.
func extractText(body io.Reader) (string, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	extractTextNodes(doc, &sb)

	text := sb.String()
	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimSpace(text), nil
}

func extractTextNodes(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		if _, skip := skipElements[n.Data]; skip {
			return
		}
	}

	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString(" ")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractTextNodes(c, sb)
	}
}
