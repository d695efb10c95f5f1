package parser

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"FilingWatch/internal/domain"
)

const (
	fdaBaseURL   = "https://www.accessdata.fda.gov"
	detailMarker = "cfpmn/pmn.cfm?ID="
)

var (
	dateExpr         = regexp.MustCompile(`^\d{8}$`)
	filingNumberExpr = regexp.MustCompile(`(?i)510\(k\)\s*Number`)
	deviceNameExpr   = regexp.MustCompile(`(?i)Device\s*Name`)
)

// Strategy extracts filing records from one parsed result page.
type Strategy interface {
	Name() string
	Extract(doc *goquery.Document) []domain.FilingRecord
}

// Extractor converts raw result-page HTML into filing records. The canonical
// header-table strategy walks the table whose first row names both the 510(k)
// number and device name columns; the anchor scan is a fallback for pages
// where the table shape has drifted beyond recognition.
//
// Key and DecisionDate are pattern-matched and survive column reordering.
// DeviceName, Applicant and ProductCode are positional (columns 1-3) and may
// be misassigned when the source reorders columns.
type Extractor struct {
	primary  Strategy
	fallback Strategy
	logger   *slog.Logger
}

// NewExtractor wires the canonical strategy with the anchor-scan fallback.
func NewExtractor(log *slog.Logger) *Extractor {
	return &Extractor{
		primary:  headerTable{},
		fallback: anchorScan{},
		logger:   log,
	}
}

// ExtractPage returns the valid records on one page in table order. A page
// without a recognizable result table yields an empty list, not an error.
func (e *Extractor) ExtractPage(html string) ([]domain.FilingRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	records := e.primary.Extract(doc)
	if len(records) == 0 && e.fallback != nil {
		if records = e.fallback.Extract(doc); len(records) > 0 && e.logger != nil {
			e.logger.Debug("primary extraction empty, fallback matched",
				"strategy", e.fallback.Name(), "records", len(records))
		}
	}

	return records, nil
}

// headerTable is the canonical strategy: locate the result table by its
// header text, then read every subsequent row.
type headerTable struct{}

func (headerTable) Name() string { return "header-table" }

func (headerTable) Extract(doc *goquery.Document) []domain.FilingRecord {
	table := findResultTable(doc)
	if table == nil {
		return nil
	}

	var records []domain.FilingRecord
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		if rec, ok := parseRow(tr); ok {
			records = append(records, rec)
		}
	})
	return records
}

func findResultTable(doc *goquery.Document) *goquery.Selection {
	var result *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		head := t.Find("tr").First()
		if head.Length() == 0 {
			return true
		}

		var cells []string
		head.Find("th,td").Each(func(_ int, c *goquery.Selection) {
			cells = append(cells, normalizeSpace(c.Text()))
		})
		headers := strings.Join(cells, " ")

		if filingNumberExpr.MatchString(headers) && deviceNameExpr.MatchString(headers) {
			result = t
			return false
		}
		return true
	})
	return result
}

// parseRow reads one result row. Rows without a cell matching the filing
// number pattern are dropped entirely.
func parseRow(tr *goquery.Selection) (domain.FilingRecord, bool) {
	var cells []string
	tr.Find("td").Each(func(_ int, td *goquery.Selection) {
		cells = append(cells, normalizeSpace(td.Text()))
	})

	var rec domain.FilingRecord
	for _, c := range cells {
		if domain.KeyExpr.MatchString(c) {
			rec.Key = c
			break
		}
	}
	if rec.Key == "" {
		return domain.FilingRecord{}, false
	}

	if len(cells) > 1 {
		rec.DeviceName = cells[1]
	}
	if len(cells) > 2 {
		rec.Applicant = cells[2]
	}
	if len(cells) > 3 {
		rec.ProductCode = cells[3]
	}

	for _, c := range cells {
		if dateExpr.MatchString(c) {
			rec.DecisionDate = c
			break
		}
	}

	rec.DetailURL = detailLink(tr)
	return rec, true
}

func detailLink(sel *goquery.Selection) string {
	var link string
	sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !strings.Contains(href, detailMarker) {
			return true
		}
		link = absoluteURL(href)
		return false
	})
	return link
}

func absoluteURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return fdaBaseURL + href
}

// normalizeSpace collapses runs of whitespace, mirroring how cell text is
// rendered across line-wrapped markup.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// anchorScan recovers records directly from detail-page links when the table
// walk finds nothing. Only Key and DetailURL can be trusted on this path.
type anchorScan struct{}

func (anchorScan) Name() string { return "anchor-scan" }

func (anchorScan) Extract(doc *goquery.Document) []domain.FilingRecord {
	var records []domain.FilingRecord
	seen := map[string]struct{}{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, detailMarker) {
			return
		}

		key := normalizeSpace(a.Text())
		if !domain.KeyExpr.MatchString(key) {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}

		records = append(records, domain.FilingRecord{
			Key:       key,
			DetailURL: absoluteURL(href),
		})
	})
	return records
}
