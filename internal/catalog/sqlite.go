package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/partkade/partsearch/pkg/types"
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Part operations

func (s *SQLiteStorage) UpsertPart(ctx context.Context, part *types.Part) error {
	now := time.Now()
	if part.Status == "" {
		part.Status = types.PartStatusActive
	}

	if part.ID == 0 {
		query := `
			INSERT INTO parts (name, oem_code, brand, vehicle_make, vehicle_model, trim,
			                   category, subcategory, position, unit, status, description,
			                   created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		result, err := s.db.ExecContext(ctx, query,
			part.Name, part.OEMCode, part.Brand, part.VehicleMake, part.VehicleModel,
			part.Trim, part.Category, part.Subcategory, part.Position, part.Unit,
			string(part.Status), part.Description, now, now)
		if err != nil {
			return fmt.Errorf("failed to insert part: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		part.ID = id
		return nil
	}

	query := `
		UPDATE parts
		SET name = ?, oem_code = ?, brand = ?, vehicle_make = ?, vehicle_model = ?,
		    trim = ?, category = ?, subcategory = ?, position = ?, unit = ?,
		    status = ?, description = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		part.Name, part.OEMCode, part.Brand, part.VehicleMake, part.VehicleModel,
		part.Trim, part.Category, part.Subcategory, part.Position, part.Unit,
		string(part.Status), part.Description, now, part.ID)
	if err != nil {
		return fmt.Errorf("failed to update part: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) GetPart(ctx context.Context, id int64) (*types.Part, error) {
	query := `
		SELECT id, name, oem_code, COALESCE(brand, ''), COALESCE(vehicle_make, ''),
		       COALESCE(vehicle_model, ''), COALESCE(trim, ''), COALESCE(category, ''),
		       COALESCE(subcategory, ''), COALESCE(position, ''), COALESCE(unit, ''),
		       status, COALESCE(description, '')
		FROM parts
		WHERE id = ?
	`
	part, err := scanPart(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get part: %w", err)
	}
	return part, nil
}

func (s *SQLiteStorage) DeletePart(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM parts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete part: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) ListParts(ctx context.Context) ([]*types.Part, error) {
	query := `
		SELECT id, name, oem_code, COALESCE(brand, ''), COALESCE(vehicle_make, ''),
		       COALESCE(vehicle_model, ''), COALESCE(trim, ''), COALESCE(category, ''),
		       COALESCE(subcategory, ''), COALESCE(position, ''), COALESCE(unit, ''),
		       status, COALESCE(description, '')
		FROM parts
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var parts []*types.Part
	for rows.Next() {
		part, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan part: %w", err)
		}
		parts = append(parts, part)
	}
	return parts, rows.Err()
}

// Synonym operations

func (s *SQLiteStorage) UpsertSynonym(ctx context.Context, syn *types.Synonym) error {
	if syn.Weight == 0 {
		syn.Weight = 1.0
	}

	query := `
		INSERT INTO synonyms (part_id, alias, weight)
		VALUES (?, ?, ?)
		ON CONFLICT(part_id, alias) DO UPDATE SET weight = excluded.weight
	`
	result, err := s.db.ExecContext(ctx, query, syn.PartID, syn.Alias, syn.Weight)
	if err != nil {
		return fmt.Errorf("failed to upsert synonym: %w", err)
	}
	if syn.ID == 0 {
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		syn.ID = id
	}
	return nil
}

func (s *SQLiteStorage) DeleteSynonym(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM synonyms WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete synonym: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) ListSynonyms(ctx context.Context) ([]*types.Synonym, error) {
	return s.listSynonyms(ctx, "SELECT id, part_id, alias, weight FROM synonyms ORDER BY id")
}

func (s *SQLiteStorage) ListSynonymsByPart(ctx context.Context, partID int64) ([]*types.Synonym, error) {
	return s.listSynonyms(ctx, "SELECT id, part_id, alias, weight FROM synonyms WHERE part_id = ? ORDER BY id", partID)
}

func (s *SQLiteStorage) listSynonyms(ctx context.Context, query string, args ...interface{}) ([]*types.Synonym, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list synonyms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var syns []*types.Synonym
	for rows.Next() {
		var syn types.Synonym
		if err := rows.Scan(&syn.ID, &syn.PartID, &syn.Alias, &syn.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan synonym: %w", err)
		}
		syns = append(syns, &syn)
	}
	return syns, rows.Err()
}

// Status operations

func (s *SQLiteStorage) Status(ctx context.Context) (*Status, error) {
	var st Status
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM parts").Scan(&st.PartCount); err != nil {
		return nil, fmt.Errorf("failed to count parts: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM parts WHERE status = 'active'").Scan(&st.ActiveCount); err != nil {
		return nil, fmt.Errorf("failed to count active parts: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM synonyms").Scan(&st.SynonymCount); err != nil {
		return nil, fmt.Errorf("failed to count synonyms: %w", err)
	}
	return &st, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPart(row rowScanner) (*types.Part, error) {
	var part types.Part
	var status string
	err := row.Scan(&part.ID, &part.Name, &part.OEMCode, &part.Brand,
		&part.VehicleMake, &part.VehicleModel, &part.Trim,
		&part.Category, &part.Subcategory, &part.Position, &part.Unit,
		&status, &part.Description)
	if err != nil {
		return nil, err
	}
	part.Status = types.PartStatus(status)
	return &part, nil
}
