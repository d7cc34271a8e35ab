package stock

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultInStockMarkers and DefaultOutOfStockMarkers are used when the
// configuration does not provide its own phrase lists.
var (
	DefaultInStockMarkers    = []string{"add", "add to bag", "add to basket"}
	DefaultOutOfStockMarkers = []string{"out of stock", "sold out", "not available", "view similar out of stock"}
)

const (
	ScopeActions = "actions"
	ScopePage    = "page"

	actionSeparator = " | "
	evidenceRadius  = 40
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize collapses whitespace runs to a single space, trims and lowercases.
func Normalize(s string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " "))
}

// Page is the classifier input. Actions holds the text of clickable
// elements (the narrow scope); Text is the whole page.
type Page struct {
	Actions []string
	Text    string
}

// Markers holds ordered phrase lists per signal.
type Markers struct {
	InStock    []string `json:"in_stock" yaml:"in_stock"`
	OutOfStock []string `json:"out_of_stock" yaml:"out_of_stock"`
}

// DefaultMarkers returns a copy of the built-in English marker lists.
func DefaultMarkers() Markers {
	return Markers{
		InStock:    append([]string(nil), DefaultInStockMarkers...),
		OutOfStock: append([]string(nil), DefaultOutOfStockMarkers...),
	}
}

// Verdict is the classification result plus the evidence behind it.
type Verdict struct {
	Signal   Signal `json:"signal"`
	Scope    string `json:"scope,omitempty"`
	Marker   string `json:"marker,omitempty"`
	Evidence string `json:"evidence,omitempty"`
}

type marker struct {
	phrase string
	re     *regexp.Regexp
}

// Classifier maps page text to a Signal using whole-word marker matching.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	inStock    []marker
	outOfStock []marker
}

// NewClassifier compiles the marker lists.
func NewClassifier(m Markers) (*Classifier, error) {
	if len(m.InStock) == 0 && len(m.OutOfStock) == 0 {
		return nil, ErrNoMarkers
	}

	in, err := compileMarkers(m.InStock)
	if err != nil {
		return nil, fmt.Errorf("in-stock markers: %w", err)
	}
	out, err := compileMarkers(m.OutOfStock)
	if err != nil {
		return nil, fmt.Errorf("out-of-stock markers: %w", err)
	}

	return &Classifier{inStock: in, outOfStock: out}, nil
}

// MustNewClassifier is NewClassifier for static marker lists.
func MustNewClassifier(m Markers) *Classifier {
	c, err := NewClassifier(m)
	if err != nil {
		panic(err)
	}
	return c
}

func compileMarkers(phrases []string) ([]marker, error) {
	out := make([]marker, 0, len(phrases))
	for i, p := range phrases {
		phrase := Normalize(p)
		if phrase == "" {
			return nil, fmt.Errorf("%w (index %d)", ErrEmptyMarker, i)
		}
		// \b in RE2 is ASCII-only, which breaks localized phrases such as
		// "épuisé"; use explicit Unicode letter/digit boundaries instead.
		re, err := regexp.Compile(`(?:^|[^\p{L}\p{N}_])(` + regexp.QuoteMeta(phrase) + `)(?:$|[^\p{L}\p{N}_])`)
		if err != nil {
			return nil, err
		}
		out = append(out, marker{phrase: phrase, re: re})
	}
	return out, nil
}

// Classify returns the signal for page. Out-of-stock markers take
// precedence over in-stock markers at each scope, and the action scope is
// consulted before the whole page.
func (c *Classifier) Classify(page Page) Verdict {
	actions := make([]string, 0, len(page.Actions))
	for _, a := range page.Actions {
		if n := Normalize(a); n != "" {
			actions = append(actions, n)
		}
	}

	if v, ok := c.classifyScope(strings.Join(actions, actionSeparator), ScopeActions); ok {
		return v
	}
	if v, ok := c.classifyScope(Normalize(page.Text), ScopePage); ok {
		return v
	}
	return Verdict{Signal: Unknown}
}

// ClassifyText classifies a single block of text with no action scope.
func (c *Classifier) ClassifyText(text string) Verdict {
	return c.Classify(Page{Text: text})
}

func (c *Classifier) classifyScope(text, scope string) (Verdict, bool) {
	if text == "" {
		return Verdict{}, false
	}
	if m, loc := firstMatch(c.outOfStock, text); loc != nil {
		return Verdict{Signal: OutOfStock, Scope: scope, Marker: m, Evidence: snippet(text, loc)}, true
	}
	if m, loc := firstMatch(c.inStock, text); loc != nil {
		return Verdict{Signal: InStock, Scope: scope, Marker: m, Evidence: snippet(text, loc)}, true
	}
	return Verdict{}, false
}

func firstMatch(markers []marker, text string) (string, []int) {
	for _, m := range markers {
		if loc := m.re.FindStringSubmatchIndex(text); loc != nil {
			return m.phrase, loc[2:4]
		}
	}
	return "", nil
}

func snippet(text string, loc []int) string {
	start := loc[0] - evidenceRadius
	if start < 0 {
		start = 0
	}
	end := loc[1] + evidenceRadius
	if end > len(text) {
		end = len(text)
	}
	// keep the cut on rune boundaries
	for start > 0 && !isRuneStart(text[start]) {
		start--
	}
	for end < len(text) && !isRuneStart(text[end]) {
		end++
	}
	return text[start:end]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
