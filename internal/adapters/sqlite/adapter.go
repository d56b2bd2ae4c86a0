// Package sqlite provides the SQLite-backed implementation of the
// repository ports.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/voiceshield-labs/voiceshield/backend/internal/core/domain"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
)

// Adapter implements ports.UserRepository and ports.AudioRepository.
type Adapter struct {
	db *sql.DB
}

// NewAdapter opens the database and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return adapter, nil
}

// Close releases the database connection.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// CreateUser inserts an account. A taken email wraps
// domain.ErrDuplicateEmail.
func (a *Adapter) CreateUser(ctx context.Context, email, hash string) (domain.User, error) {
	res, err := a.db.ExecContext(ctx,
		"INSERT INTO users (email, password) VALUES (?, ?)", email, hash)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("user %q: %w", email, domain.ErrDuplicateEmail)
		}
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to read user id: %w", err)
	}
	return a.getUser(ctx, "id = ?", id)
}

// GetUserByEmail loads an account by email.
func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return a.getUser(ctx, "email = ?", email)
}

func (a *Adapter) getUser(ctx context.Context, where string, arg any) (domain.User, error) {
	row := a.db.QueryRowContext(ctx,
		"SELECT id, email, password, created_at FROM users WHERE "+where, arg)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Hash, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}

// SaveAudioFile inserts upload metadata and returns the new row id.
func (a *Adapter) SaveAudioFile(ctx context.Context, f domain.AudioFile) (int64, error) {
	res, err := a.db.ExecContext(ctx, `
		INSERT INTO audio_files (user_id, filename, original_filename, file_path, file_size)
		VALUES (?, ?, ?, ?, ?)
	`, f.UserID, f.StoredName, f.OriginalName, f.Path, f.Size)
	if err != nil {
		return 0, fmt.Errorf("failed to save audio file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read audio file id: %w", err)
	}
	return id, nil
}

// GetAudioFile loads one upload scoped to its owner.
func (a *Adapter) GetAudioFile(ctx context.Context, id, userID int64) (domain.AudioFile, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, user_id, filename, original_filename, file_path, file_size, uploaded_at
		FROM audio_files WHERE id = ? AND user_id = ?
	`, id, userID)
	var f domain.AudioFile
	if err := row.Scan(&f.ID, &f.UserID, &f.StoredName, &f.OriginalName, &f.Path, &f.Size, &f.UploadedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.AudioFile{}, domain.ErrNotFound
		}
		return domain.AudioFile{}, fmt.Errorf("failed to load audio file: %w", err)
	}
	return f, nil
}

// ListAudioFiles returns a user's uploads, newest first.
func (a *Adapter) ListAudioFiles(ctx context.Context, userID int64) ([]domain.AudioFile, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, user_id, filename, original_filename, file_path, file_size, uploaded_at
		FROM audio_files WHERE user_id = ?
		ORDER BY uploaded_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audio files: %w", err)
	}
	defer rows.Close()

	files := []domain.AudioFile{}
	for rows.Next() {
		var f domain.AudioFile
		if err := rows.Scan(&f.ID, &f.UserID, &f.StoredName, &f.OriginalName, &f.Path, &f.Size, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audio file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audio files: %w", err)
	}
	return files, nil
}

// DeleteAudioFile removes an upload row and its analyses.
func (a *Adapter) DeleteAudioFile(ctx context.Context, id, userID int64) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM analysis_results WHERE audio_file_id = ? AND user_id = ?", id, userID); err != nil {
		return fmt.Errorf("failed to delete analyses: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM audio_files WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete audio file: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete count: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// SaveAnalysis persists one analysis result. Patterns and details are
// stored as JSON text.
func (a *Adapter) SaveAnalysis(ctx context.Context, fileID, userID int64, result domain.AnalysisResult) (int64, error) {
	patterns, err := json.Marshal(result.ScamPatterns)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal scam patterns: %w", err)
	}
	details, err := json.Marshal(result.Details)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal analysis details: %w", err)
	}

	res, err := a.db.ExecContext(ctx, `
		INSERT INTO analysis_results
			(audio_file_id, user_id, is_ai_generated, confidence_score, scam_patterns, analysis_details)
		VALUES (?, ?, ?, ?, ?, ?)
	`, fileID, userID, result.IsAIGenerated, result.Confidence, string(patterns), string(details))
	if err != nil {
		return 0, fmt.Errorf("failed to save analysis: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read analysis id: %w", err)
	}
	return id, nil
}

// History returns a user's analyses joined with file metadata, newest
// first.
func (a *Adapter) History(ctx context.Context, userID int64) ([]domain.AnalysisRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT
			ar.id, ar.audio_file_id, ar.user_id,
			af.original_filename, af.uploaded_at,
			ar.is_ai_generated, ar.confidence_score, ar.scam_patterns, ar.analyzed_at
		FROM analysis_results ar
		JOIN audio_files af ON ar.audio_file_id = af.id
		WHERE ar.user_id = ?
		ORDER BY ar.analyzed_at DESC, ar.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	records := []domain.AnalysisRecord{}
	for rows.Next() {
		var (
			r        domain.AnalysisRecord
			patterns string
		)
		if err := rows.Scan(&r.ID, &r.AudioFileID, &r.UserID, &r.Filename, &r.UploadedAt,
			&r.IsAIGenerated, &r.Confidence, &patterns, &r.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if patterns != "" {
			if err := json.Unmarshal([]byte(patterns), &r.ScamPatterns); err != nil {
				return nil, fmt.Errorf("failed to decode scam patterns: %w", err)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return records, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS audio_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		filename TEXT NOT NULL,
		original_filename TEXT NOT NULL,
		file_path TEXT NOT NULL,
		file_size INTEGER,
		uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS analysis_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		audio_file_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		is_ai_generated BOOLEAN NOT NULL,
		confidence_score REAL NOT NULL,
		scam_patterns TEXT,
		analysis_details TEXT,
		analyzed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (audio_file_id) REFERENCES audio_files(id),
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE INDEX IF NOT EXISTS idx_audio_files_user ON audio_files(user_id);
	CREATE INDEX IF NOT EXISTS idx_analysis_results_user ON analysis_results(user_id);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
