package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleDocs() []Document {
	return []Document{
		{
			ID:            "doc-1",
			InvoiceNumber: "INV-1001",
			Payer:         "OTHAIM MARKETS",
			City:          "Riyadh",
			Region:        "Central",
			MirnahRoute:   "R-12",
			SAPRoute:      "S-440",
			Status:        StatusPending,
			Recon:         ReconNotReconciled,
			IssueDate:     day(2026, time.August, 20),
		},
		{
			ID:            "doc-2",
			InvoiceNumber: "INV-1002",
			Payer:         "CARREFOUR",
			City:          "Jeddah",
			Region:        "Western",
			MirnahRoute:   "R-31",
			SAPRoute:      "S-102",
			Status:        StatusApproved,
			Recon:         ReconStamp,
			IssueDate:     day(2026, time.August, 1),
		},
		{
			ID:            "doc-3",
			InvoiceNumber: "INV-1003",
			Payer:         "NESTO",
			City:          "Dammam",
			Region:        "Eastern",
			MirnahRoute:   "R-12",
			SAPRoute:      "S-440",
			Status:        StatusPending,
			Recon:         ReconGRN,
			ReasonCode:    "GRN pending",
			IssueDate:     day(2026, time.June, 5),
		},
	}
}

func TestFilterEmptyCriteriaMatchesAll(t *testing.T) {
	docs := sampleDocs()
	ref := day(2026, time.August, 28)

	got := Filter(docs, FilterCriteria{}, ref)

	require.Equal(t, docs, got)
}

func TestFilterCombinesWithAND(t *testing.T) {
	docs := sampleDocs()
	ref := day(2026, time.August, 28)

	got := Filter(docs, FilterCriteria{Status: StatusPending, Route: "R-12"}, ref)

	require.Len(t, got, 2)
	require.Equal(t, "doc-1", got[0].ID)
	require.Equal(t, "doc-3", got[1].ID)
}

func TestFilterFreeTextIsCaseInsensitiveSubstring(t *testing.T) {
	docs := sampleDocs()
	ref := day(2026, time.August, 28)

	got := Filter(docs, FilterCriteria{FreeText: "  othaim "}, ref)

	require.Len(t, got, 1)
	require.Equal(t, "doc-1", got[0].ID)

	got = Filter(docs, FilterCriteria{FreeText: "inv-100"}, ref)
	require.Len(t, got, 3)
}

func TestFilterAllSentinelMeansUnset(t *testing.T) {
	docs := sampleDocs()
	ref := day(2026, time.August, 28)

	got := Filter(docs, FilterCriteria{City: "all", Region: "ALL", Route: "all"}, ref)

	require.Len(t, got, 3)
}

func TestFilterUnknownEnumValuesImposeNoConstraint(t *testing.T) {
	docs := sampleDocs()
	ref := day(2026, time.August, 28)

	got := Filter(docs, FilterCriteria{Status: "archived", Recon: "Mystery"}, ref)

	require.Len(t, got, 3)
}

func TestFilterDateBoundsAreInclusive(t *testing.T) {
	docs := sampleDocs()
	ref := day(2026, time.August, 28)
	from := day(2026, time.August, 1)
	to := day(2026, time.August, 20)

	got := Filter(docs, FilterCriteria{DateFrom: &from, DateTo: &to}, ref)

	require.Len(t, got, 2)
	require.Equal(t, "doc-1", got[0].ID)
	require.Equal(t, "doc-2", got[1].ID)
}

func TestFilterExplicitFromWinsOverRange(t *testing.T) {
	docs := sampleDocs()
	ref := day(2026, time.August, 28)
	from := day(2026, time.January, 1)

	got := Filter(docs, FilterCriteria{DateFrom: &from, Range: RangeToday}, ref)

	require.Len(t, got, 3)
}

func TestResolveFromDate(t *testing.T) {
	ref := time.Date(2026, time.August, 28, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		token DateRange
		want  *time.Time
	}{
		{RangeToday, ptrTime(day(2026, time.August, 28))},
		{RangeThisWeek, ptrTime(day(2026, time.August, 21))},
		{RangeThisMonth, ptrTime(day(2026, time.July, 28))},
		{RangeLastMonth, ptrTime(day(2026, time.July, 28))},
		{RangeCustom, nil},
		{DateRange("whenever"), nil},
		{DateRange(""), nil},
	}
	for _, tc := range tests {
		got := ResolveFromDate(tc.token, ref)
		if tc.want == nil {
			require.Nil(t, got, "token %q", tc.token)
			continue
		}
		require.NotNil(t, got, "token %q", tc.token)
		require.True(t, got.Equal(*tc.want), "token %q: got %v want %v", tc.token, got, tc.want)
	}
}

func TestNormalizeTrimsAndCollapses(t *testing.T) {
	c := FilterCriteria{
		FreeText:   "  inv ",
		Status:     "bogus",
		Recon:      "Nope",
		City:       " all ",
		Region:     " Western ",
		ReasonCode: "all",
		Route:      "All",
	}.Normalize()

	require.Equal(t, "inv", c.FreeText)
	require.Empty(t, string(c.Status))
	require.Empty(t, string(c.Recon))
	require.Empty(t, c.City)
	require.Equal(t, "Western", c.Region)
	require.Empty(t, c.ReasonCode)
	require.Empty(t, c.Route)
}

func ptrTime(t time.Time) *time.Time { return &t }
