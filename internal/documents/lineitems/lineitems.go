// Package lineitems holds the ordered line-item collection of one document
// and the reorder and field-edit operations the detail view performs on it.
// Operations take a store value and return a new one; out-of-range input
// degrades to a no-op rather than an error so a malformed drag gesture can
// never break the view.
package lineitems

import "math"

// Line sources as shown in the detail table.
const (
	SourceInvoice = "IN"
	SourceGRN     = "GRN"
)

// LineItem is one line within a document's detail view. Seq is the 1-based
// display-order rank, re-derived after every reorder.
type LineItem struct {
	ID          string  `json:"id"`
	Seq         int     `json:"seq"`
	OutletCode  string  `json:"outlet_code"`
	Source      string  `json:"source"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// WithQuantity returns a copy with the quantity replaced and the total
// recomputed from the current unit price.
func (li LineItem) WithQuantity(quantity int) LineItem {
	li.Quantity = quantity
	li.Total = lineTotal(quantity, li.UnitPrice)
	return li
}

// WithUnitPrice returns a copy with the unit price replaced and the total
// recomputed from the current quantity.
func (li LineItem) WithUnitPrice(unitPrice float64) LineItem {
	li.UnitPrice = unitPrice
	li.Total = lineTotal(li.Quantity, unitPrice)
	return li
}

// Store is the ordered line-item collection of one document. The zero value
// is an empty store; all operations leave the receiver untouched and return
// a new value.
type Store struct {
	items []LineItem
}

// NewStore copies items into a store, keeping the given order.
func NewStore(items []LineItem) Store {
	return Store{items: append([]LineItem(nil), items...)}
}

// Items returns a copy of the lines in display order.
func (s Store) Items() []LineItem {
	return append([]LineItem(nil), s.items...)
}

// Len returns the number of lines.
func (s Store) Len() int {
	return len(s.items)
}

// Reorder moves the item at from to position to using list-splice semantics
// and renumbers every line densely 1..N. Out-of-range indices return the
// store unchanged; from == to is a valid no-op that still renumbers.
func (s Store) Reorder(from, to int) Store {
	if from < 0 || from >= len(s.items) || to < 0 || to >= len(s.items) {
		return s
	}
	items := s.Items()
	moved := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]LineItem{moved}, items[to:]...)...)
	return Store{items: renumber(items)}
}

// Renumber reassigns sequence numbers densely 1..N in the current order.
func (s Store) Renumber() Store {
	return Store{items: renumber(s.Items())}
}

// EditQuantity replaces the quantity of the identified line and recomputes
// its total. Returns false when the id is not present.
func (s Store) EditQuantity(id string, quantity int) (Store, bool) {
	return s.edit(id, func(li LineItem) LineItem { return li.WithQuantity(quantity) })
}

// EditUnitPrice replaces the unit price of the identified line and recomputes
// its total. Returns false when the id is not present.
func (s Store) EditUnitPrice(id string, unitPrice float64) (Store, bool) {
	return s.edit(id, func(li LineItem) LineItem { return li.WithUnitPrice(unitPrice) })
}

// Delete removes the identified line. Survivors keep their sequence numbers;
// deletion is independent from reorder renumbering, matching the dashboard's
// historical behaviour. Callers wanting dense numbering use Renumber.
func (s Store) Delete(id string) Store {
	items := make([]LineItem, 0, len(s.items))
	for _, li := range s.items {
		if li.ID == id {
			continue
		}
		items = append(items, li)
	}
	return Store{items: items}
}

func (s Store) edit(id string, apply func(LineItem) LineItem) (Store, bool) {
	items := s.Items()
	for i, li := range items {
		if li.ID == id {
			items[i] = apply(li)
			return Store{items: items}, true
		}
	}
	return s, false
}

func renumber(items []LineItem) []LineItem {
	for i := range items {
		items[i].Seq = i + 1
	}
	return items
}

// lineTotal keeps totals at two-decimal precision.
func lineTotal(quantity int, unitPrice float64) float64 {
	return math.Round(float64(quantity)*unitPrice*100) / 100
}
