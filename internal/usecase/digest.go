package usecase

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"

	"FilingWatch/internal/domain"
)

var eightDigits = regexp.MustCompile(`^\d{8}$`)

// NormalizeDate renders an 8-digit YYYYMMDD value as YYYY-MM-DD. Anything
// else passes through unchanged. Applied only at render time; the ledger
// keeps whatever raw form the source presented.
func NormalizeDate(raw string) string {
	if !eightDigits.MatchString(raw) {
		return raw
	}
	return raw[0:4] + "-" + raw[4:6] + "-" + raw[6:8]
}

// Digest is the rendered run report handed to the notifier. It is rebuilt
// from scratch every run and never persisted.
type Digest struct {
	Subject  string
	BodyHTML string
}

var digestFuncs = template.FuncMap{"isoDate": NormalizeDate}

var newFilingsTmpl = template.Must(template.New("newFilings").Funcs(digestFuncs).Parse(`<h2>FDA 510(k) new filings ({{.Now}})</h2>
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Rule</th><th>510(k)#</th><th>Device</th><th>Applicant</th><th>Prod. Code</th><th>Decision Date</th><th>Link</th></tr>
{{range .Findings}}<tr><td>{{.RuleLabel}}</td><td>{{.Record.Key}}</td><td>{{.Record.DeviceName}}</td><td>{{.Record.Applicant}}</td><td>{{.Record.ProductCode}}</td><td>{{isoDate .Record.DecisionDate}}</td><td>{{if .Record.DetailURL}}<a href="{{.Record.DetailURL}}" target="_blank">detail</a>{{end}}</td></tr>
{{end}}</table>
<p style="color:#666">Source: FDA 510(k) web database (weekly web refresh, monthly download refresh).</p>
`))

var noNewsTmpl = template.Must(template.New("noNews").Parse(`<h2>FDA 510(k) monitoring report ({{.Now}})</h2>
<p><strong>New 510(k) clearances: none</strong></p>
<p>K-numbers currently tracked: <strong>{{.LedgerSize}}</strong></p>
<p>Search criteria:</p>
<ul>
{{range .Rules}}<li>{{.}}</li>
{{end}}</ul>
<p style="color:#666">Source: FDA 510(k) web database (weekly web refresh, monthly download refresh).</p>
`))

// BuildDigest renders the run report: a findings table when anything new was
// observed, otherwise a monitoring summary with the checked rules and the
// current ledger size. Missing optional record fields render as empty cells.
func BuildDigest(findings []domain.Finding, rules []domain.WatchRule, ledgerSize int, now time.Time) (Digest, error) {
	stamp := now.Format("2006-01-02 15:04")

	if len(findings) == 0 {
		labels := make([]string, len(rules))
		for i, r := range rules {
			labels[i] = r.Label()
		}

		var body strings.Builder
		err := noNewsTmpl.Execute(&body, struct {
			Now        string
			LedgerSize int
			Rules      []string
		}{stamp, ledgerSize, labels})
		if err != nil {
			return Digest{}, fmt.Errorf("render summary: %w", err)
		}

		return Digest{
			Subject:  "[510(k)] no new filings",
			BodyHTML: body.String(),
		}, nil
	}

	var body strings.Builder
	err := newFilingsTmpl.Execute(&body, struct {
		Now      string
		Findings []domain.Finding
	}{stamp, findings})
	if err != nil {
		return Digest{}, fmt.Errorf("render findings: %w", err)
	}

	return Digest{
		Subject:  fmt.Sprintf("[510(k)] %d new filings", len(findings)),
		BodyHTML: body.String(),
	}, nil
}
