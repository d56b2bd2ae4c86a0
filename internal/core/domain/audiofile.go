package domain

import "time"

// AudioFile is an uploaded recording owned by a user. StoredName is the
// server-side unique filename; Path is relative to the upload root.
type AudioFile struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"-"`
	StoredName   string    `json:"filename"`
	OriginalName string    `json:"original_filename"`
	Path         string    `json:"-"`
	Size         int64     `json:"file_size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// AnalysisRecord is a persisted analysis result joined with its file.
type AnalysisRecord struct {
	ID            int64         `json:"id"`
	AudioFileID   int64         `json:"-"`
	UserID        int64         `json:"-"`
	Filename      string        `json:"filename"`
	UploadedAt    time.Time     `json:"uploaded_at"`
	IsAIGenerated bool          `json:"is_ai_generated"`
	Confidence    float64       `json:"confidence_score"`
	ScamPatterns  []ScamPattern `json:"scam_patterns"`
	AnalyzedAt    time.Time     `json:"analyzed_at"`
}
