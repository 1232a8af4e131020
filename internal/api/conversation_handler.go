package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lingualabs/lingua-api/internal/api/shared"
	"github.com/lingualabs/lingua-api/internal/platform/logger"
	"github.com/lingualabs/lingua-api/internal/service"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// multipartMemoryLimit bounds how much of an upload is buffered in
	// memory before spilling to disk.
	multipartMemoryLimit = 10 << 20
)

// ConversationHandler handles conversation and evaluation API requests.
type ConversationHandler struct {
	conversationService service.ConversationService
	validator           *validator.Validate
	maxAudioBytes       int64
	logger              *slog.Logger
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(
	conversationService service.ConversationService,
	maxAudioBytes int64,
	log *slog.Logger,
) *ConversationHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ConversationHandler{
		conversationService: conversationService,
		validator:           validator.New(),
		maxAudioBytes:       maxAudioBytes,
		logger:              log.With("component", "conversation_handler"),
	}
}

// CreateConversation handles POST /conversations.
func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateConversationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	conversation, err := h.conversationService.CreateConversation(r.Context(), userID, service.CreateConversationInput{
		Title:           req.Title,
		Description:     req.Description,
		Topic:           req.Topic,
		DifficultyLevel: req.DifficultyLevel,
		Language:        req.Language,
	})
	if err != nil {
		log.Error("failed to create conversation", "error", err, "user_id", userID)
		HandleAPIError(w, r, err, "Failed to create conversation")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, toConversationResponse(conversation))
}

// ListConversations handles GET /conversations.
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	offset, limit := getPaginationParams(r, defaultPageSize, maxPageSize)

	conversations, total, err := h.conversationService.ListConversations(r.Context(), userID, offset, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list conversations")
		return
	}

	items := make([]ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		items = append(items, toConversationResponse(c))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ConversationListResponse{
		Conversations: items,
		Total:         total,
		Offset:        offset,
		Limit:         limit,
	})
}

// GetConversation handles GET /conversations/{id}.
func (h *ConversationHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, conversationID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	conversation, err := h.conversationService.GetConversation(r.Context(), userID, conversationID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve conversation")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toConversationResponse(conversation))
}

// DeleteConversation handles DELETE /conversations/{id}.
func (h *ConversationHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	userID, conversationID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.conversationService.DeleteConversation(r.Context(), userID, conversationID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete conversation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AnalyzeConversation handles POST /conversations/{id}/analyze.
func (h *ConversationHandler) AnalyzeConversation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, conversationID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req AnalyzeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	evaluation, err := h.conversationService.AnalyzeConversation(r.Context(), userID, conversationID, service.AnalyzeInput{
		Transcript:      req.Transcript,
		Context:         req.Context,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		log.Error("failed to analyze conversation",
			"error", err,
			"conversation_id", conversationID)
		HandleAPIError(w, r, err, "Failed to analyze conversation")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toEvaluationResponse(evaluation))
}

// GetEvaluation handles GET /conversations/{id}/analysis.
func (h *ConversationHandler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	userID, conversationID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	evaluation, err := h.conversationService.GetEvaluation(r.Context(), userID, conversationID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve evaluation")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toEvaluationResponse(evaluation))
}

// UploadAudio handles POST /conversations/{id}/audio with a multipart form
// carrying the file under the "audio" field.
func (h *ConversationHandler) UploadAudio(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, conversationID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxAudioBytes)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing audio file")
		return
	}
	defer func() { _ = file.Close() }()

	path, err := h.conversationService.AttachAudio(
		r.Context(),
		userID,
		conversationID,
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		log.Error("failed to attach audio",
			"error", err,
			"conversation_id", conversationID)
		HandleAPIError(w, r, err, "Failed to store audio file")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AudioUploadResponse{
		ConversationID: conversationID,
		AudioPath:      path,
	})
}
