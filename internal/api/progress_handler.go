package api

import (
	"log/slog"
	"net/http"

	"github.com/lingualabs/lingua-api/internal/api/shared"
	"github.com/lingualabs/lingua-api/internal/service"
)

// ProgressHandler handles progress reporting API requests.
type ProgressHandler struct {
	progressService service.ProgressService
	logger          *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService service.ProgressService, log *slog.Logger) *ProgressHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ProgressHandler{
		progressService: progressService,
		logger:          log.With("component", "progress_handler"),
	}
}

// GetProgress handles GET /users/{user_id}/progress. Users may only view
// their own progress.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	authUserID, pathUserID, ok := handleUserIDAndPathUUID(w, r, "user_id", h.logger)
	if !ok {
		return
	}

	if authUserID != pathUserID {
		shared.RespondWithError(w, r, http.StatusForbidden, "You may only view your own progress")
		return
	}

	progress, err := h.progressService.GetProgress(r.Context(), authUserID)
	if err != nil {
		h.logger.Error("failed to load progress", "error", err, "user_id", authUserID)
		HandleAPIError(w, r, err, "Failed to load progress")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}
