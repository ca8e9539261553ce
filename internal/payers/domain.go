// Package payers manages the payer master list that drives automatic
// reconciliation classification.
package payers

import "errors"

// Reconciliation classes assignable to a payer.
const (
	ClassStamp  = "STAMP"
	ClassGRN    = "GRN"
	ClassManual = "MANUAL"
)

var (
	ErrNotFound     = errors.New("payer not found")
	ErrCodeExists   = errors.New("payer code already exists")
	ErrUnknownClass = errors.New("unknown reconciliation class")
)

// Payer is one entry of the payer master list.
type Payer struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	ShortName  string `json:"short_name"`
	ReconClass string `json:"recon_class"`
}

// ValidClass reports whether class is a known reconciliation class.
func ValidClass(class string) bool {
	switch class {
	case ClassStamp, ClassGRN, ClassManual:
		return true
	}
	return false
}
