package ports

import (
	"context"

	"github.com/voiceshield-labs/voiceshield/backend/internal/core/domain"
)

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, email, hash string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

// AudioRepository persists uploaded files and their analysis results.
type AudioRepository interface {
	SaveAudioFile(ctx context.Context, f domain.AudioFile) (int64, error)
	GetAudioFile(ctx context.Context, id, userID int64) (domain.AudioFile, error)
	ListAudioFiles(ctx context.Context, userID int64) ([]domain.AudioFile, error)
	DeleteAudioFile(ctx context.Context, id, userID int64) error

	SaveAnalysis(ctx context.Context, fileID, userID int64, result domain.AnalysisResult) (int64, error)
	History(ctx context.Context, userID int64) ([]domain.AnalysisRecord, error)
}
