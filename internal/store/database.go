package store

import (
	"database/sql"
	"fmt"
	"time"

	"cinechat/internal/db"
)

// DatabaseStore persists recommendation details in PostgreSQL.
type DatabaseStore struct {
	db *db.DB
}

func NewDatabaseStore(database *db.DB) (*DatabaseStore, error) {
	ds := &DatabaseStore{db: database}
	if err := ds.init(); err != nil {
		return nil, err
	}
	return ds, nil
}

func (ds *DatabaseStore) init() error {
	createTableSQL := `
		CREATE TABLE IF NOT EXISTS recommendation_details (
			object_id TEXT PRIMARY KEY,
			titulo TEXT NOT NULL,
			sinopsis TEXT NOT NULL DEFAULT '',
			fecha_estreno TEXT NOT NULL DEFAULT '',
			razon TEXT NOT NULL DEFAULT '',
			evaluacion INTEGER,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`
	if _, err := ds.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create recommendation_details table: %w", err)
	}
	return nil
}

func (ds *DatabaseStore) AddDetails(details []*Detail) error {
	tx, err := ds.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO recommendation_details (object_id, titulo, sinopsis, fecha_estreno, razon, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, d := range details {
		if d.ObjectID == "" {
			d.ObjectID = newObjectID()
		}
		if d.CreatedAt.IsZero() {
			d.CreatedAt = time.Now()
		}
		if _, err := tx.Exec(query, d.ObjectID, d.Titulo, d.Sinopsis, d.FechaEstreno, d.Razon, d.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert detail %s: %w", d.ObjectID, err)
		}
	}
	return tx.Commit()
}

const detailColumns = "object_id, titulo, sinopsis, fecha_estreno, razon, evaluacion, created_at"

func scanDetail(row interface{ Scan(...any) error }) (*Detail, error) {
	var d Detail
	var score sql.NullInt64
	if err := row.Scan(&d.ObjectID, &d.Titulo, &d.Sinopsis, &d.FechaEstreno, &d.Razon, &score, &d.CreatedAt); err != nil {
		return nil, err
	}
	if score.Valid {
		d.Score = int(score.Int64)
		d.Rated = true
	}
	return &d, nil
}

func (ds *DatabaseStore) ListDetails() ([]*Detail, error) {
	query := `SELECT ` + detailColumns + ` FROM recommendation_details ORDER BY created_at, object_id`
	rows, err := ds.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list details: %w", err)
	}
	defer rows.Close()

	var out []*Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan detail: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (ds *DatabaseStore) NextPending() (*Detail, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM recommendation_details
		WHERE evaluacion IS NULL
		ORDER BY created_at, object_id
		LIMIT 1
	`
	d, err := scanDetail(ds.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next pending detail: %w", err)
	}
	return d, nil
}

func (ds *DatabaseStore) SetEvaluation(objectID string, score int) error {
	res, err := ds.db.Exec(
		`UPDATE recommendation_details SET evaluacion = $1 WHERE object_id = $2`,
		score, objectID,
	)
	if err != nil {
		return fmt.Errorf("failed to set evaluation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check evaluation update: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
