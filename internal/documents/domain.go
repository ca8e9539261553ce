package documents

import (
	"time"
)

// Status enumerates document approval statuses.
type Status string

const (
	StatusApproved Status = "approved"
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
)

// ReconStatus enumerates reconciliation classifications.
type ReconStatus string

const (
	ReconNotReconciled ReconStatus = "Not reconciled"
	ReconStamp         ReconStatus = "Stamp"
	ReconGRN           ReconStatus = "GRN"
	ReconManual        ReconStatus = "Manual"
)

// DateRange enumerates the symbolic date-range tokens offered by the filter bar.
type DateRange string

const (
	RangeToday     DateRange = "today"
	RangeThisWeek  DateRange = "this-week"
	RangeThisMonth DateRange = "this-month"
	RangeLastMonth DateRange = "last-month"
	RangeCustom    DateRange = "custom"
)

// FilterAll is the sentinel option value meaning "no constraint".
const FilterAll = "all"

// Document is one reconcilable invoice entry.
type Document struct {
	ID            string      `json:"id"`
	InvoiceNumber string      `json:"invoice_number"`
	Payer         string      `json:"payer"`
	SalesmanCode  string      `json:"salesman_code"`
	Amount        float64     `json:"amount"`
	IssueDate     time.Time   `json:"issue_date"`
	DueDate       time.Time   `json:"due_date"`
	Status        Status      `json:"status"`
	City          string      `json:"city"`
	Region        string      `json:"region"`
	SAPRoute      string      `json:"sap_route"`
	MirnahRoute   string      `json:"mirnah_route"`
	Recon         ReconStatus `json:"recon"`
	ReasonCode    string      `json:"reason_code,omitempty"`
	GRNNumber     string      `json:"grn_number,omitempty"`
	GRNValue      float64     `json:"grn_value,omitempty"`
	CreditNote    string      `json:"credit_note,omitempty"`
	Comments      string      `json:"comments,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// FilterCriteria describes one filter submission. A zero value matches every
// document. Applying new criteria replaces the previous criteria entirely;
// there is no incremental merge across submissions.
type FilterCriteria struct {
	FreeText   string
	Status     Status
	City       string
	Region     string
	Recon      ReconStatus
	ReasonCode string
	Route      string

	DateFrom *time.Time
	DateTo   *time.Time
	Range    DateRange
}

// PageWindow is the slice of filtered documents shown for one page, plus
// paging metadata.
type PageWindow struct {
	Items      []Document `json:"items"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
	Total      int        `json:"total"`
}

// Summary aggregates dashboard figures.
type Summary struct {
	ByStatus map[Status]int      `json:"by_status"`
	ByRecon  map[ReconStatus]int `json:"by_recon"`
	Recent   []Document          `json:"recent"`
}

// ValidStatus reports whether s is a known approval status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusApproved, StatusPending, StatusRejected:
		return true
	}
	return false
}

// ValidReconStatus reports whether s is a known reconciliation classification.
func ValidReconStatus(s ReconStatus) bool {
	switch s {
	case ReconNotReconciled, ReconStamp, ReconGRN, ReconManual:
		return true
	}
	return false
}
