package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// KeyExpr matches a 510(k) filing number: one letter followed by six digits.
var KeyExpr = regexp.MustCompile(`^(?i)[A-Z]\d{6}$`)

// FilingRecord is a core entity describing one filing row extracted from the
// FDA results table. Key is the primary identity; a record with an empty Key
// is invalid and never reaches the ledger or a digest.
type FilingRecord struct {
	Key          string
	DeviceName   string
	Applicant    string
	ProductCode  string
	DecisionDate string
	DetailURL    string
}

// Valid reports whether the record carries a well-formed filing number.
func (r FilingRecord) Valid() bool {
	return KeyExpr.MatchString(r.Key)
}

// RuleKind selects which search field a watch rule targets.
type RuleKind string

const (
	KindProductCode RuleKind = "productCode"
	KindApplicant   RuleKind = "applicantSubstring"
)

// WatchRule is a single monitoring criterion, evaluated independently each run.
type WatchRule struct {
	Kind  RuleKind
	Value string
}

// Label renders the rule the way digests attribute findings to it.
func (w WatchRule) Label() string {
	if w.Kind == KindApplicant {
		return fmt.Sprintf("Applicant contains %q", w.Value)
	}
	return "Product code = " + w.Value
}

// BuildRules turns the configured code and applicant lists into ordered watch
// rules. Product codes run first; within a run the first rule to observe a
// key wins attribution.
func BuildRules(productCodes, applicants []string) []WatchRule {
	rules := make([]WatchRule, 0, len(productCodes)+len(applicants))
	for _, pc := range productCodes {
		if pc = strings.TrimSpace(pc); pc != "" {
			rules = append(rules, WatchRule{Kind: KindProductCode, Value: pc})
		}
	}
	for _, ap := range applicants {
		if ap = strings.TrimSpace(ap); ap != "" {
			rules = append(rules, WatchRule{Kind: KindApplicant, Value: ap})
		}
	}
	return rules
}

// Finding pairs a newly observed record with the rule that surfaced it.
type Finding struct {
	RuleLabel string
	Record    FilingRecord
}
