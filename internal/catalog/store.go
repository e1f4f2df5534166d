package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"biblioteca-backend/internal/platform/apperr"
	"biblioteca-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

const publicationCols = `
	id, isbn, titulo, tipo_publicacion, temas, editorial, editorial_direccion,
	editorial_telefono, idioma, modulos_relacionados, ciclos_relacionados,
	autor, nacionalidad_autor, edicion, fecha_publicacion, periodicidad`

type rowScanner interface{ Scan(dest ...any) error }

func scanPublication(row rowScanner) (*Publication, error) {
	var p Publication
	var kind string
	err := row.Scan(
		&p.ID, &p.ISBN, &p.Title, &kind, &p.Topics, &p.Publisher, &p.PublisherAddress,
		&p.PublisherPhone, &p.Language, &p.RelatedModules, &p.RelatedCycles,
		&p.Author, &p.AuthorNationality, &p.Edition, &p.PublicationDate, &p.Periodicity,
	)
	if err != nil {
		return nil, err
	}
	p.Kind, err = ParseKind(kind)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// copySeed describes one copy to provision for a new publication.
type copySeed struct {
	Code        string
	IssueNumber sql.NullInt64
}

// provisionPlan is the default stock for a new publication: three
// copies for a book, a single issue-1 copy for a magazine.
func provisionPlan(pubID int64, kind Kind) []copySeed {
	if kind == KindMagazine {
		return []copySeed{{
			Code:        fmt.Sprintf("REV-%d-1", pubID),
			IssueNumber: sql.NullInt64{Int64: 1, Valid: true},
		}}
	}
	seeds := make([]copySeed, 0, 3)
	for i := 1; i <= 3; i++ {
		seeds = append(seeds, copySeed{Code: fmt.Sprintf("AUTO-%d-%d", pubID, i)})
	}
	return seeds
}

func insertCopiesTx(ctx context.Context, tx db.DBTX, pubID int64, kind Kind, today time.Time) error {
	const q = `
	INSERT INTO ejemplares (libro_id, codigo_ejemplar, numero_revista, fecha_adquisicion, estado)
	VALUES (?, ?, ?, ?, 'DISPONIBLE')`
	for _, seed := range provisionPlan(pubID, kind) {
		if _, err := tx.ExecContext(ctx, q, pubID, seed.Code, seed.IssueNumber, today); err != nil {
			return err
		}
	}
	return nil
}

// ExecCreatePublication inserts the publication and provisions its
// default copies in one transaction.
func (s *Store) ExecCreatePublication(ctx context.Context, p *Publication, today time.Time) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		const q = `
		INSERT INTO libros
		(isbn, titulo, tipo_publicacion, temas, editorial, editorial_direccion, editorial_telefono,
		 idioma, modulos_relacionados, ciclos_relacionados, autor, nacionalidad_autor, edicion,
		 fecha_publicacion, periodicidad)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, q,
			p.ISBN, p.Title, string(p.Kind), p.Topics, p.Publisher, p.PublisherAddress,
			p.PublisherPhone, p.Language, p.RelatedModules, p.RelatedCycles,
			p.Author, p.AuthorNationality, p.Edition, p.PublicationDate, p.Periodicity,
		)
		if err != nil {
			return apperr.FromMySQL(err, "isbn already registered")
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		p.ID = id
		return insertCopiesTx(ctx, tx, id, p.Kind, today)
	})
}

func (s *Store) GetPublication(ctx context.Context, id int64) (*Publication, error) {
	q := `SELECT` + publicationCols + ` FROM libros WHERE id = ?`
	p, err := scanPublication(s.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound("publication not found")
	}
	return p, err
}

func (s *Store) ListPublications(ctx context.Context, f PublicationFilter) ([]Publication, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT` + publicationCols + ` FROM libros WHERE 1=1`)
	args := []any{}
	if f.Query != "" {
		sb.WriteString(` AND (titulo LIKE ? OR isbn LIKE ? OR autor LIKE ?)`)
		like := "%" + f.Query + "%"
		args = append(args, like, like, like)
	}
	if f.Kind != nil {
		sb.WriteString(` AND tipo_publicacion = ?`)
		args = append(args, string(*f.Kind))
	}
	sb.WriteString(` ORDER BY titulo ASC`)
	if f.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdatePublication applies only the provided fields. Switching kind
// clears the other kind's columns so they never linger.
func (s *Store) UpdatePublication(ctx context.Context, id int64, in UpdatePublicationRequest, kind *Kind) (*Publication, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if in.Title != nil {
		add("titulo", *in.Title)
	}
	if kind != nil {
		add("tipo_publicacion", string(*kind))
		if *kind == KindBook {
			sets = append(sets, "periodicidad = NULL")
		} else {
			sets = append(sets, "autor = NULL", "nacionalidad_autor = NULL", "edicion = NULL", "fecha_publicacion = NULL")
		}
	}
	if in.Topics != nil {
		add("temas", nullStr(in.Topics))
	}
	if in.Publisher != nil {
		add("editorial", nullStr(in.Publisher))
	}
	if in.PublisherAddress != nil {
		add("editorial_direccion", nullStr(in.PublisherAddress))
	}
	if in.PublisherPhone != nil {
		add("editorial_telefono", nullStr(in.PublisherPhone))
	}
	if in.Language != nil {
		add("idioma", *in.Language)
	}
	if in.RelatedModules != nil {
		add("modulos_relacionados", nullStr(in.RelatedModules))
	}
	if in.RelatedCycles != nil {
		add("ciclos_relacionados", nullStr(in.RelatedCycles))
	}
	if in.Author != nil {
		add("autor", nullStr(in.Author))
	}
	if in.AuthorNationality != nil {
		add("nacionalidad_autor", nullStr(in.AuthorNationality))
	}
	if in.Edition != nil {
		add("edicion", nullStr(in.Edition))
	}
	if in.PublicationDate != nil {
		add("fecha_publicacion", nullStr(in.PublicationDate))
	}
	if in.Periodicity != nil {
		add("periodicidad", nullStr(in.Periodicity))
	}
	if len(sets) == 0 {
		return s.GetPublication(ctx, id)
	}

	q := `UPDATE libros SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return s.GetPublication(ctx, id)
}

// ExecDeletePublication removes the publication and, by cascade, its
// copies. Blocked while any copy is out on loan.
func (s *Store) ExecDeletePublication(ctx context.Context, id int64) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		const qOnLoan = `
		SELECT COUNT(*) FROM ejemplares WHERE libro_id = ? AND estado = 'PRESTADO' FOR UPDATE`
		var onLoan int
		if err := tx.QueryRowContext(ctx, qOnLoan, id).Scan(&onLoan); err != nil {
			return err
		}
		if onLoan > 0 {
			return apperr.ErrConflict("publication has copies out on loan")
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM libros WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if aff, _ := res.RowsAffected(); aff == 0 {
			return apperr.ErrNotFound("publication not found")
		}
		return nil
	})
}

// FindAvailableCopy returns any available copy of the publication, or
// nil when none is free. The pick is arbitrary (first match).
func (s *Store) FindAvailableCopy(ctx context.Context, pubID int64) (*Copy, error) {
	const q = `
	SELECT id, libro_id, codigo_ejemplar, numero_revista, fecha_adquisicion, estado
	FROM ejemplares WHERE libro_id = ? AND estado = 'DISPONIBLE' LIMIT 1`
	cp, err := scanCopy(s.db.QueryRowContext(ctx, q, pubID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return cp, err
}

func scanCopy(row rowScanner) (*Copy, error) {
	var cp Copy
	var state string
	err := row.Scan(&cp.ID, &cp.PublicationID, &cp.Code, &cp.IssueNumber, &cp.AcquiredOn, &state)
	if err != nil {
		return nil, err
	}
	cp.State, err = ParseCopyState(state)
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func setCopyStateTx(ctx context.Context, tx db.DBTX, copyID int64, state CopyState) error {
	res, err := tx.ExecContext(ctx, `UPDATE ejemplares SET estado = ? WHERE id = ?`, string(state), copyID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		// RowsAffected is 0 both for a missing row and for a same-value
		// write; only the former is an error.
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM ejemplares WHERE id = ?`, copyID).Scan(&exists)
		if err == sql.ErrNoRows {
			return apperr.ErrNotFound("copy not found")
		}
		return err
	}
	return nil
}

// MarkLoanedTx and MarkAvailableTx flip a copy's state inside the
// caller's transaction. Idempotent for an existing copy.

func MarkLoanedTx(ctx context.Context, tx db.DBTX, copyID int64) error {
	return setCopyStateTx(ctx, tx, copyID, CopyOnLoan)
}

func MarkAvailableTx(ctx context.Context, tx db.DBTX, copyID int64) error {
	return setCopyStateTx(ctx, tx, copyID, CopyAvailable)
}

func (s *Store) ListCopies(ctx context.Context, pubID int64) ([]Copy, error) {
	const q = `
	SELECT id, libro_id, codigo_ejemplar, numero_revista, fecha_adquisicion, estado
	FROM ejemplares WHERE libro_id = ? ORDER BY codigo_ejemplar ASC`
	rows, err := s.db.QueryContext(ctx, q, pubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Copy
	for rows.Next() {
		cp, err := scanCopy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *cp)
	}
	return out, rows.Err()
}

func (s *Store) CountCopies(ctx context.Context, pubID int64) (available, onLoan int, err error) {
	const q = `
	SELECT
		COALESCE(SUM(estado = 'DISPONIBLE'), 0),
		COALESCE(SUM(estado = 'PRESTADO'), 0)
	FROM ejemplares WHERE libro_id = ?`
	err = s.db.QueryRowContext(ctx, q, pubID).Scan(&available, &onLoan)
	return available, onLoan, err
}

// BackfillMissingCopies provisions default copies for every publication
// that has none. Startup repair pass; a no-op once all publications
// have stock.
func (s *Store) BackfillMissingCopies(ctx context.Context, today time.Time) (int, error) {
	const q = `
	SELECT l.id, l.tipo_publicacion
	FROM libros l
	WHERE NOT EXISTS (SELECT 1 FROM ejemplares e WHERE e.libro_id = l.id)`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	type target struct {
		id   int64
		kind Kind
	}
	var targets []target
	for rows.Next() {
		var t target
		var kind string
		if err := rows.Scan(&t.id, &kind); err != nil {
			return 0, err
		}
		if t.kind, err = ParseKind(kind); err != nil {
			return 0, err
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	created := 0
	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		for _, t := range targets {
			if err := insertCopiesTx(ctx, tx, t.id, t.kind, today); err != nil {
				return err
			}
			created += len(provisionPlan(t.id, t.kind))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
