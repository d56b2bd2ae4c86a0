package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/voiceshield-labs/voiceshield/backend/internal/core/domain"
	"github.com/voiceshield-labs/voiceshield/backend/internal/core/ports"
)

// ErrFileTooLarge is returned when an upload exceeds the size cap.
var ErrFileTooLarge = errors.New("service: file exceeds size limit")

// ErrUnsupportedType is returned for uploads outside the extension
// allowlist.
var ErrUnsupportedType = errors.New("service: unsupported file type")

// Library manages a user's uploaded recordings and their analyses.
type Library struct {
	repo       ports.AudioRepository
	detector   *Detector
	uploadDir  string
	maxBytes   int64
	extensions map[string]bool
}

// NewLibrary constructs a Library storing uploads under uploadDir.
func NewLibrary(repo ports.AudioRepository, detector *Detector, uploadDir string, maxBytes int64, allowedExtensions []string) *Library {
	exts := make(map[string]bool, len(allowedExtensions))
	for _, e := range allowedExtensions {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	return &Library{
		repo:       repo,
		detector:   detector,
		uploadDir:  uploadDir,
		maxBytes:   maxBytes,
		extensions: exts,
	}
}

// Import validates and stores one uploaded recording, then records its
// metadata. The stored name is a fresh UUID so uploads can never
// collide or traverse paths.
func (l *Library) Import(ctx context.Context, userID int64, originalName string, r io.Reader) (domain.AudioFile, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if ext == "" || !l.extensions[ext] {
		return domain.AudioFile{}, ErrUnsupportedType
	}

	storedName := uuid.NewString() + "." + ext
	relPath := filepath.Join(strconv.FormatInt(userID, 10), storedName)
	fullPath := filepath.Join(l.uploadDir, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return domain.AudioFile{}, fmt.Errorf("service: create upload dir: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return domain.AudioFile{}, fmt.Errorf("service: create file: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(r, l.maxBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > l.maxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(fullPath)
		if errors.Is(err, ErrFileTooLarge) {
			return domain.AudioFile{}, err
		}
		return domain.AudioFile{}, fmt.Errorf("service: store file: %w", err)
	}

	file := domain.AudioFile{
		UserID:       userID,
		StoredName:   storedName,
		OriginalName: filepath.Base(originalName),
		Path:         relPath,
		Size:         written,
	}
	id, err := l.repo.SaveAudioFile(ctx, file)
	if err != nil {
		os.Remove(fullPath)
		return domain.AudioFile{}, fmt.Errorf("service: save file metadata: %w", err)
	}
	file.ID = id
	return file, nil
}

// Analyze runs the detector on a stored recording (ownership checked)
// and persists the result. Only the lookup can fail; the analysis
// itself always produces a result.
func (l *Library) Analyze(ctx context.Context, fileID, userID int64) (int64, domain.AnalysisResult, error) {
	file, err := l.repo.GetAudioFile(ctx, fileID, userID)
	if err != nil {
		return 0, domain.AnalysisResult{}, fmt.Errorf("service: load file: %w", err)
	}

	result := l.detector.Analyze(ctx, filepath.Join(l.uploadDir, file.Path))

	resultID, err := l.repo.SaveAnalysis(ctx, fileID, userID, result)
	if err != nil {
		return 0, domain.AnalysisResult{}, fmt.Errorf("service: save analysis: %w", err)
	}
	return resultID, result, nil
}

// Files lists the user's uploads, newest first.
func (l *Library) Files(ctx context.Context, userID int64) ([]domain.AudioFile, error) {
	files, err := l.repo.ListAudioFiles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: list files: %w", err)
	}
	return files, nil
}

// History lists the user's analysis results, newest first.
func (l *Library) History(ctx context.Context, userID int64) ([]domain.AnalysisRecord, error) {
	records, err := l.repo.History(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: load history: %w", err)
	}
	return records, nil
}

// Delete removes a recording from disk and from the repository.
func (l *Library) Delete(ctx context.Context, fileID, userID int64) error {
	file, err := l.repo.GetAudioFile(ctx, fileID, userID)
	if err != nil {
		return fmt.Errorf("service: load file: %w", err)
	}
	fullPath := filepath.Join(l.uploadDir, file.Path)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("service: remove file: %w", err)
	}
	if err := l.repo.DeleteAudioFile(ctx, fileID, userID); err != nil {
		return fmt.Errorf("service: delete file record: %w", err)
	}
	return nil
}
