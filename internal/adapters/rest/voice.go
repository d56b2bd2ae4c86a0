package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/voiceshield-labs/voiceshield/backend/internal/core/domain"
	"github.com/voiceshield-labs/voiceshield/backend/internal/core/services"
	"github.com/voiceshield-labs/voiceshield/backend/internal/worker"
)

type uploadResponse struct {
	Message  string `json:"message"`
	FileID   int64  `json:"file_id"`
	Filename string `json:"filename"`
}

// Upload handles POST /api/voice/upload (multipart, field "file").
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	uid := userID(r)
	imported, err := h.library.Import(r.Context(), uid, header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedType):
			writeError(w, http.StatusBadRequest, "Invalid file type. Allowed: MP3, WAV, M4A, OGG, FLAC")
		case errors.Is(err, services.ErrFileTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "File exceeds size limit")
		default:
			h.log.Error().Err(err).Msg("upload failed")
			writeError(w, http.StatusInternalServerError, "Upload failed")
		}
		return
	}

	if h.autoAnalyze {
		h.pool.Submit(worker.Job{FileID: imported.ID, UserID: uid})
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		Message:  "File uploaded successfully",
		FileID:   imported.ID,
		Filename: imported.StoredName,
	})
}

type analyzeResponse struct {
	Message  string                `json:"message"`
	ResultID int64                 `json:"result_id"`
	Analysis domain.AnalysisResult `json:"analysis"`
}

// Analyze handles POST /api/voice/analyze/{id}
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	fileID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file id")
		return
	}

	resultID, result, err := h.library.Analyze(r.Context(), fileID, userID(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Audio file not found")
			return
		}
		h.log.Error().Err(err).Int64("file_id", fileID).Msg("analysis failed")
		writeError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Message:  "Analysis completed",
		ResultID: resultID,
		Analysis: result,
	})
}

// History handles GET /api/voice/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.library.History(r.Context(), userID(r))
	if err != nil {
		h.log.Error().Err(err).Msg("history lookup failed")
		writeError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": records})
}

// Files handles GET /api/voice/files
func (h *Handler) Files(w http.ResponseWriter, r *http.Request) {
	files, err := h.library.Files(r.Context(), userID(r))
	if err != nil {
		h.log.Error().Err(err).Msg("file listing failed")
		writeError(w, http.StatusInternalServerError, "Failed to list files")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// DeleteFile handles DELETE /api/voice/files/{id}
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file id")
		return
	}

	if err := h.library.Delete(r.Context(), fileID, userID(r)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Audio file not found")
			return
		}
		h.log.Error().Err(err).Int64("file_id", fileID).Msg("delete failed")
		writeError(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "File deleted"})
}
