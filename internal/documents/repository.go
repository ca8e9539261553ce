package documents

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recondash/recondash/internal/documents/lineitems"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrLineNotFound = errors.New("line item not found")
)

// Repository is the documents system of record. Filtering and pagination
// happen in the listing engine, so reads return whole collections in their
// stored order.
type Repository interface {
	ListAll(ctx context.Context) ([]Document, error)
	ListIDs(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (Document, error)
	GetLines(ctx context.Context, id string) ([]lineitems.LineItem, error)
	Insert(ctx context.Context, doc Document, lines []lineitems.LineItem) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateReconciliation(ctx context.Context, id string, recon ReconStatus, reason, creditNote, comments string) error
	ReplaceLines(ctx context.Context, id string, lines []lineitems.LineItem) error
	DeleteLine(ctx context.Context, docID, lineID string) error
	CountByStatus(ctx context.Context) (map[Status]int, error)
	CountByRecon(ctx context.Context) (map[ReconStatus]int, error)
	Recent(ctx context.Context, limit int) ([]Document, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns the pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const documentColumns = `id, invoice_number, payer, salesman_code, amount, issue_date, due_date,
	status, city, region, sap_route, mirnah_route, recon, reason_code,
	grn_number, grn_value, credit_note, comments, created_at, updated_at`

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	err := row.Scan(
		&d.ID, &d.InvoiceNumber, &d.Payer, &d.SalesmanCode, &d.Amount, &d.IssueDate, &d.DueDate,
		&d.Status, &d.City, &d.Region, &d.SAPRoute, &d.MirnahRoute, &d.Recon, &d.ReasonCode,
		&d.GRNNumber, &d.GRNValue, &d.CreditNote, &d.Comments, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func (r *repository) ListAll(ctx context.Context) ([]Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY issue_date DESC, invoice_number`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *repository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM documents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	d, err := scanDocument(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return d, err
}

func (r *repository) GetLines(ctx context.Context, id string) ([]lineitems.LineItem, error) {
	query := `SELECT id, seq, outlet_code, source, description, quantity, unit_price, total
		FROM document_lines WHERE document_id = $1 ORDER BY seq, id`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []lineitems.LineItem
	for rows.Next() {
		var li lineitems.LineItem
		if err := rows.Scan(&li.ID, &li.Seq, &li.OutletCode, &li.Source, &li.Description, &li.Quantity, &li.UnitPrice, &li.Total); err != nil {
			return nil, err
		}
		lines = append(lines, li)
	}
	return lines, rows.Err()
}

func (r *repository) Insert(ctx context.Context, doc Document, lines []lineitems.LineItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `INSERT INTO documents (`+documentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
		doc.ID, doc.InvoiceNumber, doc.Payer, doc.SalesmanCode, doc.Amount, doc.IssueDate, doc.DueDate,
		doc.Status, doc.City, doc.Region, doc.SAPRoute, doc.MirnahRoute, doc.Recon, doc.ReasonCode,
		doc.GRNNumber, doc.GRNValue, doc.CreditNote, doc.Comments, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return err
	}
	for _, li := range lines {
		_, err = tx.Exec(ctx, `INSERT INTO document_lines (id, document_id, seq, outlet_code, source, description, quantity, unit_price, total)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			li.ID, doc.ID, li.Seq, li.OutletCode, li.Source, li.Description, li.Quantity, li.UnitPrice, li.Total,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE documents SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateReconciliation(ctx context.Context, id string, recon ReconStatus, reason, creditNote, comments string) error {
	tag, err := r.db.Exec(ctx, `UPDATE documents
		SET recon = $1, reason_code = $2, credit_note = $3, comments = $4, updated_at = $5
		WHERE id = $6`,
		recon, reason, creditNote, comments, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ReplaceLines(ctx context.Context, id string, lines []lineitems.LineItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1`, id); err != nil {
		return err
	}
	for _, li := range lines {
		_, err = tx.Exec(ctx, `INSERT INTO document_lines (id, document_id, seq, outlet_code, source, description, quantity, unit_price, total)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			li.ID, id, li.Seq, li.OutletCode, li.Source, li.Description, li.Quantity, li.UnitPrice, li.Total,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *repository) DeleteLine(ctx context.Context, docID, lineID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1 AND id = $2`, docID, lineID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM documents GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *repository) CountByRecon(ctx context.Context) (map[ReconStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT recon, COUNT(*) FROM documents GROUP BY recon`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[ReconStatus]int)
	for rows.Next() {
		var recon ReconStatus
		var n int
		if err := rows.Scan(&recon, &n); err != nil {
			return nil, err
		}
		counts[recon] = n
	}
	return counts, rows.Err()
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
