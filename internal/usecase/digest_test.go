package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FilingWatch/internal/domain"
)

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2024-01-15", NormalizeDate("20240115"))
	assert.Equal(t, "", NormalizeDate(""))
	assert.Equal(t, "Jan 15, 2024", NormalizeDate("Jan 15, 2024"))
	assert.Equal(t, "2024-01-15", NormalizeDate("2024-01-15"))
	assert.Equal(t, "123456789", NormalizeDate("123456789"))
}

func TestBuildDigestNewFilings(t *testing.T) {
	t.Parallel()

	findings := []domain.Finding{
		{
			RuleLabel: "Product code = ABC",
			Record: domain.FilingRecord{
				Key:          "K240001",
				DeviceName:   "Widget Analyzer",
				Applicant:    "Acme Medical",
				ProductCode:  "ABC",
				DecisionDate: "20240115",
				DetailURL:    "https://www.accessdata.fda.gov/scripts/cdrh/cfdocs/cfpmn/pmn.cfm?ID=K240001",
			},
		},
		{
			RuleLabel: `Applicant contains "Beta"`,
			// Partially extracted record: optional fields stay empty cells.
			Record: domain.FilingRecord{Key: "K240002"},
		},
	}

	d, err := BuildDigest(findings, nil, 42, time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "[510(k)] 2 new filings", d.Subject)
	assert.Contains(t, d.BodyHTML, "2024-02-01 09:30")
	assert.Contains(t, d.BodyHTML, "K240001")
	assert.Contains(t, d.BodyHTML, "Widget Analyzer")
	assert.Contains(t, d.BodyHTML, "2024-01-15")
	assert.NotContains(t, d.BodyHTML, "20240115")
	assert.Contains(t, d.BodyHTML, "pmn.cfm?ID=K240001")
	assert.Contains(t, d.BodyHTML, "K240002")
}

func TestBuildDigestNoNews(t *testing.T) {
	t.Parallel()

	rules := domain.BuildRules([]string{"ABC"}, []string{"Acme"})
	d, err := BuildDigest(nil, rules, 17, time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "[510(k)] no new filings", d.Subject)
	assert.Contains(t, d.BodyHTML, "17")
	assert.Contains(t, d.BodyHTML, "Product code = ABC")
	assert.Contains(t, d.BodyHTML, "Applicant contains &#34;Acme&#34;")
}
