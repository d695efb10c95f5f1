package browser

import (
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"

	"FilingWatch/internal/domain"
)

// locator is one capability probe: a selector plus how to interpret it.
// Strategy lists are ordered; the first locator that matches a node wins.
type locator struct {
	name string
	sel  string
	opts []chromedp.QueryOption
}

func byQuery() []chromedp.QueryOption  { return []chromedp.QueryOption{chromedp.ByQuery} }
func bySearch() []chromedp.QueryOption { return []chromedp.QueryOption{chromedp.BySearch} }

// fieldLocators returns the input-lookup strategies for a rule kind:
// label text, then name-attribute substring, then placeholder substring.
func fieldLocators(kind domain.RuleKind) []locator {
	term, label := "product", "product code"
	if kind == domain.KindApplicant {
		term, label = "applicant", "applicant name"
	}
	return []locator{
		{name: "label text", sel: labelInputXPath(label), opts: bySearch()},
		{name: "name attribute", sel: fmt.Sprintf(`input[name*="%s" i]`, term), opts: byQuery()},
		{name: "placeholder", sel: fmt.Sprintf(`input[placeholder*="%s" i]`, term), opts: byQuery()},
	}
}

// submitLocators returns the search-trigger strategies, most specific first.
func submitLocators() []locator {
	return []locator{
		{name: "button name", sel: searchButtonXPath(), opts: bySearch()},
		{name: "submit control", sel: `input[type="submit"]`, opts: byQuery()},
		{name: "visible text", sel: searchValueXPath(), opts: bySearch()},
		{name: "image button", sel: `input[type="image"]`, opts: byQuery()},
	}
}

// nextLocators returns the pagination-control strategies: accessible link
// text ("Next" or the > glyph), then a generic title-attribute fallback.
func nextLocators() []locator {
	return []locator{
		{name: "link text", sel: nextLinkXPath(), opts: bySearch()},
		{name: "generic selector", sel: `a[title*="next" i]`, opts: byQuery()},
	}
}

const (
	xpathUpper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	xpathLower = "abcdefghijklmnopqrstuvwxyz"
)

// lowered wraps an XPath string expression so comparisons are
// case-insensitive (XPath 1.0 has no lower-case function).
func lowered(expr string) string {
	return fmt.Sprintf("translate(normalize-space(%s), '%s', '%s')", expr, xpathUpper, xpathLower)
}

// labelInputXPath selects the first input following a label whose text
// contains the phrase.
func labelInputXPath(phrase string) string {
	return fmt.Sprintf("//label[contains(%s, '%s')]/following::input[1]",
		lowered("."), strings.ToLower(phrase))
}

func searchButtonXPath() string {
	return fmt.Sprintf("//button[contains(%s, 'search')]", lowered("."))
}

func searchValueXPath() string {
	return fmt.Sprintf("//input[contains(%s, 'search')]", lowered("@value"))
}

func nextLinkXPath() string {
	return fmt.Sprintf("//a[contains(%s, 'next') or normalize-space(.)='>']", lowered("."))
}
