package fetcher

import (
	"fmt"
	"strings"

	"restockwatch/pkg/stock"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ActionSelector matches the clickable elements whose labels form the
// narrow classification scope.
const ActionSelector = "button, a[role='button'], div[role='button'], input[type='submit']"

// maxActionLength drops containers that only look like buttons.
const maxActionLength = 80

// ExtractActions returns the normalized, non-empty labels of clickable
// elements in document order.
func ExtractActions(page string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	var actions []string
	doc.Find(ActionSelector).Each(func(_ int, s *goquery.Selection) {
		label := spacedText(s)
		if goquery.NodeName(s) == "input" {
			label, _ = s.Attr("value")
		}
		if label == "" {
			label, _ = s.Attr("aria-label")
		}

		label = stock.Normalize(label)
		if label == "" || len([]rune(label)) > maxActionLength {
			return
		}
		actions = append(actions, label)
	})
	return actions, nil
}

// spacedText joins the descendant text nodes of s with single spaces so
// that <span>Sold</span><span>Out</span> reads "Sold Out".
func spacedText(s *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}
