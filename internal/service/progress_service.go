package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/lingualabs/lingua-api/internal/domain"
	"github.com/lingualabs/lingua-api/internal/store"
)

// trendWindow is how many recent evaluations feed the trend series.
const trendWindow = 10

// ScoreTrends holds per-dimension score history, oldest first.
type ScoreTrends struct {
	Overall       []float64 `json:"overall"`
	Grammar       []float64 `json:"grammar"`
	Vocabulary    []float64 `json:"vocabulary"`
	Fluency       []float64 `json:"fluency"`
	Comprehension []float64 `json:"comprehension"`
}

// Progress summarizes a user's learning history.
type Progress struct {
	TotalConversations   int         `json:"total_conversations"`
	AverageOverallScore  float64     `json:"average_overall_score"`
	CurrentLevel         string      `json:"current_level"`
	LastConversationDate *time.Time  `json:"last_conversation_date,omitempty"`
	Trends               ScoreTrends `json:"trends"`
}

// ProgressService reports aggregate progress for a user.
type ProgressService interface {
	// GetProgress returns the user's aggregate stats plus score trends
	// built from their most recent evaluations.
	GetProgress(ctx context.Context, userID uuid.UUID) (*Progress, error)
}

type progressServiceImpl struct {
	evaluationStore store.EvaluationStore
	logger          *slog.Logger
}

// NewProgressService creates a new ProgressService.
func NewProgressService(evaluationStore store.EvaluationStore, logger *slog.Logger) (ProgressService, error) {
	if evaluationStore == nil {
		return nil, fmt.Errorf("evaluationStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &progressServiceImpl{
		evaluationStore: evaluationStore,
		logger:          logger.With("component", "progress_service"),
	}, nil
}

func (s *progressServiceImpl) GetProgress(ctx context.Context, userID uuid.UUID) (*Progress, error) {
	stats, err := s.evaluationStore.GetProgressStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress stats: %w", err)
	}

	recent, err := s.evaluationStore.ListRecentByUserID(ctx, userID, trendWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent evaluations: %w", err)
	}

	level := stats.CurrentLevel
	if level == "" {
		level = domain.LevelA1
	}

	return &Progress{
		TotalConversations:   stats.TotalConversations,
		AverageOverallScore:  round2(stats.AverageOverallScore),
		CurrentLevel:         level,
		LastConversationDate: stats.LastConversationDate,
		Trends:               buildTrends(recent),
	}, nil
}

// buildTrends converts newest-first evaluations into oldest-first series.
func buildTrends(evaluations []*domain.Evaluation) ScoreTrends {
	n := len(evaluations)
	trends := ScoreTrends{
		Overall:       make([]float64, 0, n),
		Grammar:       make([]float64, 0, n),
		Vocabulary:    make([]float64, 0, n),
		Fluency:       make([]float64, 0, n),
		Comprehension: make([]float64, 0, n),
	}

	for i := n - 1; i >= 0; i-- {
		e := evaluations[i]
		trends.Overall = append(trends.Overall, e.OverallScore)
		trends.Grammar = append(trends.Grammar, e.GrammarScore)
		trends.Vocabulary = append(trends.Vocabulary, e.VocabularyScore)
		trends.Fluency = append(trends.Fluency, e.FluencyScore)
		trends.Comprehension = append(trends.Comprehension, e.ComprehensionScore)
	}

	return trends
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
