package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lingualabs/lingua-api/internal/analysis"
	"github.com/lingualabs/lingua-api/internal/domain"
	"github.com/lingualabs/lingua-api/internal/store"
	"github.com/lingualabs/lingua-api/internal/task"
)

// allowedAudioExtensions is the accepted set for audio uploads.
var allowedAudioExtensions = map[string]struct{}{
	".mp3":  {},
	".wav":  {},
	".webm": {},
	".ogg":  {},
}

// TaskRunner defines the interface for submitting background tasks
type TaskRunner interface {
	// Submit adds a task to the processing queue
	Submit(ctx context.Context, t task.Task) error
}

// CreateConversationInput carries the fields for a new conversation.
type CreateConversationInput struct {
	Title           string
	Description     string
	Topic           string
	DifficultyLevel string
	Language        string
}

// AnalyzeInput carries a transcript submission for analysis.
type AnalyzeInput struct {
	Transcript      string
	Context         string
	DurationSeconds float64
}

// ConversationService provides conversation and evaluation operations.
// All operations that take a userID enforce ownership of the conversation.
type ConversationService interface {
	// CreateConversation creates a new pending conversation for the user.
	CreateConversation(ctx context.Context, userID uuid.UUID, input CreateConversationInput) (*domain.Conversation, error)

	// GetConversation retrieves a conversation owned by the user.
	// Returns ErrConversationNotFound or ErrNotOwned.
	GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Conversation, error)

	// ListConversations returns a page of the user's conversations, newest
	// first, along with the total count.
	ListConversations(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Conversation, int, error)

	// DeleteConversation removes a conversation owned by the user.
	DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error

	// AnalyzeConversation records the transcript, scores it, and stores the
	// evaluation. The model-backed analyzer is tried first; if it fails the
	// heuristic analyzer supplies the result and a background retry is
	// enqueued to upgrade the evaluation later.
	AnalyzeConversation(ctx context.Context, userID, conversationID uuid.UUID, input AnalyzeInput) (*domain.Evaluation, error)

	// GetEvaluation retrieves the stored evaluation for a conversation.
	// Returns ErrEvaluationNotFound if analysis has not completed.
	GetEvaluation(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Evaluation, error)

	// AttachAudio stores an uploaded audio file and records its path on the
	// conversation. Returns the stored path.
	AttachAudio(ctx context.Context, userID, conversationID uuid.UUID, filename, contentType string, r io.Reader) (string, error)

	// ReanalyzeConversation re-runs model-backed analysis for a conversation
	// and upgrades its stored evaluation in place. Used by background retry
	// tasks after a heuristic fallback.
	ReanalyzeConversation(ctx context.Context, conversationID uuid.UUID) error
}

// ConversationServiceError wraps errors from the conversation service with context.
type ConversationServiceError struct {
	// Operation is the operation that failed (e.g., "create_conversation", "analyze")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ConversationServiceError.
func (e *ConversationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("conversation service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("conversation service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ConversationServiceError) Unwrap() error {
	return e.Err
}

// newServiceError wraps an error unless it is a sentinel the caller should
// see unchanged.
func newServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrConversationNotFound) ||
		errors.Is(err, ErrEvaluationNotFound) ||
		errors.Is(err, ErrNotOwned) ||
		errors.Is(err, ErrTranscriptRequired) ||
		errors.Is(err, ErrUnsupportedAudioType) {
		return err
	}

	if errors.Is(err, store.ErrConversationNotFound) {
		return ErrConversationNotFound
	}
	if errors.Is(err, store.ErrEvaluationNotFound) {
		return ErrEvaluationNotFound
	}

	return &ConversationServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// UploadConfig controls where audio uploads land and how large they may be.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// conversationServiceImpl implements the ConversationService interface
type conversationServiceImpl struct {
	db                *sql.DB
	conversationStore store.ConversationStore
	evaluationStore   store.EvaluationStore
	llmAnalyzer       analysis.Analyzer // nil when the model integration is disabled
	fallbackAnalyzer  analysis.Analyzer
	taskRunner        TaskRunner
	upload            UploadConfig
	logger            *slog.Logger
}

// NewConversationService creates a new ConversationService.
// llmAnalyzer may be nil, in which case all scoring is heuristic.
// It returns an error if any other required dependency is nil.
func NewConversationService(
	db *sql.DB,
	conversationStore store.ConversationStore,
	evaluationStore store.EvaluationStore,
	llmAnalyzer analysis.Analyzer,
	fallbackAnalyzer analysis.Analyzer,
	taskRunner TaskRunner,
	upload UploadConfig,
	logger *slog.Logger,
) (ConversationService, error) {
	if db == nil {
		return nil, &ConversationServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if conversationStore == nil {
		return nil, &ConversationServiceError{Operation: "create_service", Message: "conversationStore cannot be nil"}
	}
	if evaluationStore == nil {
		return nil, &ConversationServiceError{Operation: "create_service", Message: "evaluationStore cannot be nil"}
	}
	if fallbackAnalyzer == nil {
		return nil, &ConversationServiceError{Operation: "create_service", Message: "fallbackAnalyzer cannot be nil"}
	}
	if upload.Dir == "" {
		return nil, &ConversationServiceError{Operation: "create_service", Message: "upload dir cannot be empty"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &conversationServiceImpl{
		db:                db,
		conversationStore: conversationStore,
		evaluationStore:   evaluationStore,
		llmAnalyzer:       llmAnalyzer,
		fallbackAnalyzer:  fallbackAnalyzer,
		taskRunner:        taskRunner,
		upload:            upload,
		logger:            logger.With("component", "conversation_service"),
	}, nil
}

// CreateConversation creates a new conversation with pending status.
func (s *conversationServiceImpl) CreateConversation(
	ctx context.Context,
	userID uuid.UUID,
	input CreateConversationInput,
) (*domain.Conversation, error) {
	conversation, err := domain.NewConversation(
		userID,
		input.Title,
		input.Description,
		input.Topic,
		input.DifficultyLevel,
		input.Language,
	)
	if err != nil {
		s.logger.Warn("failed to create conversation object",
			"error", err,
			"user_id", userID)
		return nil, newServiceError("create_conversation", "invalid conversation data", err)
	}

	if err := s.conversationStore.Create(ctx, conversation); err != nil {
		s.logger.Error("failed to save conversation",
			"error", err,
			"user_id", userID,
			"conversation_id", conversation.ID)
		return nil, newServiceError("create_conversation", "failed to save conversation", err)
	}

	s.logger.Info("conversation created",
		"conversation_id", conversation.ID,
		"user_id", userID)
	return conversation, nil
}

// GetConversation retrieves a conversation and verifies ownership.
func (s *conversationServiceImpl) GetConversation(
	ctx context.Context,
	userID, conversationID uuid.UUID,
) (*domain.Conversation, error) {
	return s.getOwned(ctx, userID, conversationID, "get_conversation")
}

// ListConversations returns a page of the user's conversations plus the total count.
func (s *conversationServiceImpl) ListConversations(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Conversation, int, error) {
	conversations, err := s.conversationStore.ListByUserID(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, newServiceError("list_conversations", "failed to list conversations", err)
	}

	total, err := s.conversationStore.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, newServiceError("list_conversations", "failed to count conversations", err)
	}

	return conversations, total, nil
}

// DeleteConversation removes a conversation after verifying ownership.
// Any stored audio file is removed as well.
func (s *conversationServiceImpl) DeleteConversation(
	ctx context.Context,
	userID, conversationID uuid.UUID,
) error {
	conversation, err := s.getOwned(ctx, userID, conversationID, "delete_conversation")
	if err != nil {
		return err
	}

	if err := s.conversationStore.Delete(ctx, conversationID); err != nil {
		return newServiceError("delete_conversation", "failed to delete conversation", err)
	}

	if conversation.AudioPath != "" {
		if err := os.Remove(conversation.AudioPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove audio file",
				"error", err,
				"conversation_id", conversationID)
		}
	}

	s.logger.Info("conversation deleted",
		"conversation_id", conversationID,
		"user_id", userID)
	return nil
}

// AnalyzeConversation scores the transcript and persists the result.
func (s *conversationServiceImpl) AnalyzeConversation(
	ctx context.Context,
	userID, conversationID uuid.UUID,
	input AnalyzeInput,
) (*domain.Evaluation, error) {
	if strings.TrimSpace(input.Transcript) == "" {
		return nil, ErrTranscriptRequired
	}

	conversation, err := s.getOwned(ctx, userID, conversationID, "analyze")
	if err != nil {
		return nil, err
	}

	if err := conversation.AttachTranscript(input.Transcript, input.DurationSeconds); err != nil {
		return nil, newServiceError("analyze", "invalid transcript", err)
	}
	if err := s.conversationStore.Update(ctx, conversation); err != nil {
		return nil, newServiceError("analyze", "failed to record transcript", err)
	}

	result, method, llmFailed := s.analyze(ctx, analysis.Request{
		Transcript:      input.Transcript,
		Context:         input.Context,
		DurationSeconds: input.DurationSeconds,
		Language:        conversation.Language,
	})
	if result == nil {
		// Both analyzers failed; mark the conversation accordingly.
		if statusErr := s.conversationStore.UpdateStatus(ctx, conversationID, domain.ConversationStatusFailed); statusErr != nil {
			s.logger.Error("failed to mark conversation failed",
				"error", statusErr,
				"conversation_id", conversationID)
		}
		return nil, newServiceError("analyze", "transcript analysis failed", analysis.ErrAnalysisFailed)
	}

	evaluation, err := s.storeResult(ctx, conversationID, result, method)
	if err != nil {
		return nil, err
	}

	// A heuristic fallback result gets a background upgrade attempt.
	if llmFailed && s.taskRunner != nil && s.llmAnalyzer != nil {
		retryTask, taskErr := task.NewAnalysisRetryTask(conversationID, s, s.logger)
		if taskErr != nil {
			s.logger.Error("failed to create analysis retry task",
				"error", taskErr,
				"conversation_id", conversationID)
		} else if submitErr := s.taskRunner.Submit(ctx, retryTask); submitErr != nil {
			s.logger.Warn("failed to enqueue analysis retry task",
				"error", submitErr,
				"conversation_id", conversationID)
		} else {
			s.logger.Info("analysis retry task enqueued",
				"conversation_id", conversationID,
				"task_id", retryTask.ID())
		}
	}

	return evaluation, nil
}

// GetEvaluation retrieves the evaluation for an owned conversation.
func (s *conversationServiceImpl) GetEvaluation(
	ctx context.Context,
	userID, conversationID uuid.UUID,
) (*domain.Evaluation, error) {
	if _, err := s.getOwned(ctx, userID, conversationID, "get_evaluation"); err != nil {
		return nil, err
	}

	evaluation, err := s.evaluationStore.GetByConversationID(ctx, conversationID)
	if err != nil {
		return nil, newServiceError("get_evaluation", "failed to retrieve evaluation", err)
	}

	return evaluation, nil
}

// AttachAudio stores the uploaded file under the configured directory as
// <conversation_id>_<sanitized filename> and records the path.
func (s *conversationServiceImpl) AttachAudio(
	ctx context.Context,
	userID, conversationID uuid.UUID,
	filename, contentType string,
	r io.Reader,
) (string, error) {
	conversation, err := s.getOwned(ctx, userID, conversationID, "attach_audio")
	if err != nil {
		return "", err
	}

	if !strings.HasPrefix(contentType, "audio/") {
		return "", ErrUnsupportedAudioType
	}

	sanitized := sanitizeFilename(filename)
	ext := strings.ToLower(filepath.Ext(sanitized))
	if _, ok := allowedAudioExtensions[ext]; !ok {
		return "", ErrUnsupportedAudioType
	}

	if err := os.MkdirAll(s.upload.Dir, 0o755); err != nil {
		return "", newServiceError("attach_audio", "failed to prepare upload directory", err)
	}

	path := filepath.Join(s.upload.Dir, fmt.Sprintf("%s_%s", conversationID, sanitized))
	f, err := os.Create(path)
	if err != nil {
		return "", newServiceError("attach_audio", "failed to create audio file", err)
	}

	written, copyErr := io.Copy(f, io.LimitReader(r, s.upload.MaxBytes+1))
	closeErr := f.Close()
	if copyErr == nil && closeErr != nil {
		copyErr = closeErr
	}
	if copyErr == nil && written > s.upload.MaxBytes {
		copyErr = fmt.Errorf("audio file exceeds %d bytes", s.upload.MaxBytes)
	}
	if copyErr != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			s.logger.Warn("failed to remove partial upload", "error", rmErr)
		}
		return "", newServiceError("attach_audio", "failed to store audio file", copyErr)
	}

	conversation.AudioPath = path
	conversation.UpdatedAt = time.Now().UTC()
	if err := s.conversationStore.Update(ctx, conversation); err != nil {
		return "", newServiceError("attach_audio", "failed to record audio path", err)
	}

	s.logger.Info("audio attached",
		"conversation_id", conversationID,
		"bytes", written)
	return path, nil
}

// ReanalyzeConversation re-runs the model-backed analyzer and upgrades the
// stored evaluation. It does not fall back to heuristics; failures are
// returned so the task layer can record them.
func (s *conversationServiceImpl) ReanalyzeConversation(ctx context.Context, conversationID uuid.UUID) error {
	if s.llmAnalyzer == nil {
		return newServiceError("reanalyze", "model analyzer not configured", analysis.ErrInvalidConfig)
	}

	conversation, err := s.conversationStore.GetByID(ctx, conversationID)
	if err != nil {
		return newServiceError("reanalyze", "failed to load conversation", err)
	}
	if conversation.Transcript == "" {
		return ErrTranscriptRequired
	}

	result, err := s.llmAnalyzer.Analyze(ctx, analysis.Request{
		Transcript:      conversation.Transcript,
		Context:         conversation.Topic,
		DurationSeconds: conversation.DurationSeconds,
		Language:        conversation.Language,
	})
	if err != nil {
		return newServiceError("reanalyze", "model analysis failed", err)
	}

	evaluation, err := s.evaluationStore.GetByConversationID(ctx, conversationID)
	if err != nil {
		return newServiceError("reanalyze", "failed to load evaluation", err)
	}

	applyResult(evaluation, result, domain.EvaluationMethodLLM)
	if err := s.evaluationStore.Update(ctx, evaluation); err != nil {
		return newServiceError("reanalyze", "failed to update evaluation", err)
	}

	s.logger.Info("evaluation upgraded with model result",
		"conversation_id", conversationID,
		"evaluation_id", evaluation.ID)
	return nil
}

// analyze runs the model analyzer with heuristic fallback. It returns the
// result, the method that produced it, and whether the model path failed.
func (s *conversationServiceImpl) analyze(
	ctx context.Context,
	req analysis.Request,
) (*analysis.Result, string, bool) {
	llmFailed := false

	if s.llmAnalyzer != nil {
		result, err := s.llmAnalyzer.Analyze(ctx, req)
		if err == nil {
			return result, domain.EvaluationMethodLLM, false
		}
		llmFailed = true
		s.logger.Warn("model analysis failed, falling back to heuristics",
			"error", err)
	}

	result, err := s.fallbackAnalyzer.Analyze(ctx, req)
	if err != nil {
		s.logger.Error("heuristic analysis failed", "error", err)
		return nil, "", llmFailed
	}
	return result, domain.EvaluationMethodHeuristic, llmFailed
}

// storeResult writes the evaluation and marks the conversation completed in
// a single transaction. An existing evaluation is replaced in place.
func (s *conversationServiceImpl) storeResult(
	ctx context.Context,
	conversationID uuid.UUID,
	result *analysis.Result,
	method string,
) (*domain.Evaluation, error) {
	var evaluation *domain.Evaluation

	existing, err := s.evaluationStore.GetByConversationID(ctx, conversationID)
	switch {
	case err == nil:
		evaluation = existing
	case errors.Is(err, store.ErrEvaluationNotFound):
		evaluation, err = domain.NewEvaluation(conversationID, method)
		if err != nil {
			return nil, newServiceError("analyze", "failed to create evaluation", err)
		}
	default:
		return nil, newServiceError("analyze", "failed to check for existing evaluation", err)
	}

	isNew := existing == nil
	applyResult(evaluation, result, method)

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		evalStore := s.evaluationStore.WithTx(tx)
		convStore := s.conversationStore.WithTx(tx)

		if isNew {
			if err := evalStore.Create(ctx, evaluation); err != nil {
				return err
			}
		} else {
			if err := evalStore.Update(ctx, evaluation); err != nil {
				return err
			}
		}

		return convStore.UpdateStatus(ctx, conversationID, domain.ConversationStatusCompleted)
	})
	if err != nil {
		return nil, newServiceError("analyze", "failed to store evaluation", err)
	}

	s.logger.Info("evaluation stored",
		"conversation_id", conversationID,
		"evaluation_id", evaluation.ID,
		"method", method,
		"overall_score", evaluation.OverallScore)
	return evaluation, nil
}

// getOwned loads a conversation and enforces that userID owns it.
func (s *conversationServiceImpl) getOwned(
	ctx context.Context,
	userID, conversationID uuid.UUID,
	operation string,
) (*domain.Conversation, error) {
	conversation, err := s.conversationStore.GetByID(ctx, conversationID)
	if err != nil {
		return nil, newServiceError(operation, "failed to retrieve conversation", err)
	}

	if conversation.UserID != userID {
		s.logger.Warn("ownership check failed",
			"conversation_id", conversationID,
			"owner_id", conversation.UserID,
			"requester_id", userID)
		return nil, ErrNotOwned
	}

	return conversation, nil
}

// applyResult copies analyzer output onto an evaluation.
func applyResult(evaluation *domain.Evaluation, result *analysis.Result, method string) {
	evaluation.OverallScore = result.OverallScore
	evaluation.GrammarScore = result.GrammarScore
	evaluation.VocabularyScore = result.VocabularyScore
	evaluation.FluencyScore = result.FluencyScore
	evaluation.ComprehensionScore = result.ComprehensionScore
	evaluation.ProficiencyLevel = result.ProficiencyLevel
	evaluation.Strengths = result.Strengths
	evaluation.Improvements = result.Improvements
	evaluation.Recommendations = result.Recommendations
	evaluation.DetailedFeedback = result.DetailedFeedback
	evaluation.Method = method
	evaluation.IsAIGenerated = method == domain.EvaluationMethodLLM
	evaluation.UpdatedAt = time.Now().UTC()
}

// sanitizeFilename strips any path components and replaces characters that
// are unsafe in stored filenames.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
