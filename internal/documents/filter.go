package documents

import (
	"strings"
	"time"
)

// ResolveFromDate maps a symbolic date-range token to an inclusive lower
// bound relative to ref. Custom and unknown tokens resolve to nil: custom
// ranges carry explicit bounds, anything unrecognised imposes no constraint.
//
// The last-month window (two months back plus thirty days) is deliberately
// approximate rather than calendar-aware; it reproduces the behaviour the
// dashboard has always had.
func ResolveFromDate(token DateRange, ref time.Time) *time.Time {
	switch token {
	case RangeToday:
		d := dateOnly(ref)
		return &d
	case RangeThisWeek:
		d := dateOnly(ref.AddDate(0, 0, -7))
		return &d
	case RangeThisMonth:
		d := dateOnly(ref.AddDate(0, -1, 0))
		return &d
	case RangeLastMonth:
		d := dateOnly(ref.AddDate(0, -2, 0).AddDate(0, 0, 30))
		return &d
	}
	return nil
}

// Normalize trims free text and collapses sentinel and unknown option values
// to "no constraint". Unrecognised enum values are never rejected.
func (c FilterCriteria) Normalize() FilterCriteria {
	c.FreeText = strings.TrimSpace(c.FreeText)

	if !ValidStatus(c.Status) {
		c.Status = ""
	}
	if !ValidReconStatus(c.Recon) {
		c.Recon = ""
	}
	for _, field := range []*string{&c.City, &c.Region, &c.ReasonCode, &c.Route} {
		if strings.EqualFold(strings.TrimSpace(*field), FilterAll) {
			*field = ""
		} else {
			*field = strings.TrimSpace(*field)
		}
	}
	return c
}

// Matches reports whether doc satisfies every set constraint in c. Constraints
// combine with logical AND; a criteria value with every field unset matches
// every document. ref anchors symbolic date ranges.
func (c FilterCriteria) Matches(doc Document, ref time.Time) bool {
	if q := strings.ToLower(strings.TrimSpace(c.FreeText)); q != "" {
		if !matchesFreeText(doc, q) {
			return false
		}
	}
	if c.Status != "" && doc.Status != c.Status {
		return false
	}
	if c.Recon != "" && doc.Recon != c.Recon {
		return false
	}
	if c.City != "" && !strings.EqualFold(doc.City, c.City) {
		return false
	}
	if c.Region != "" && !strings.EqualFold(doc.Region, c.Region) {
		return false
	}
	if c.ReasonCode != "" && doc.ReasonCode != c.ReasonCode {
		return false
	}
	if c.Route != "" && doc.MirnahRoute != c.Route {
		return false
	}

	from := c.DateFrom
	if from == nil {
		from = ResolveFromDate(c.Range, ref)
	}
	if from != nil && dateOnly(doc.IssueDate).Before(dateOnly(*from)) {
		return false
	}
	if c.DateTo != nil && dateOnly(doc.IssueDate).After(dateOnly(*c.DateTo)) {
		return false
	}
	return true
}

// Filter returns the documents matching criteria, preserving the relative
// order of the input collection.
func Filter(docs []Document, criteria FilterCriteria, ref time.Time) []Document {
	criteria = criteria.Normalize()
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if criteria.Matches(doc, ref) {
			out = append(out, doc)
		}
	}
	return out
}

func matchesFreeText(doc Document, query string) bool {
	haystacks := []string{
		doc.InvoiceNumber,
		doc.Payer,
		doc.City,
		doc.Region,
		doc.SAPRoute,
		doc.MirnahRoute,
		doc.ReasonCode,
		string(doc.Recon),
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), query) {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
