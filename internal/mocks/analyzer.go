package mocks

import (
	"context"

	"github.com/lingualabs/lingua-api/internal/analysis"
)

// MockAnalyzer implements analysis.Analyzer for testing.
type MockAnalyzer struct {
	AnalyzeFn func(ctx context.Context, req analysis.Request) (*analysis.Result, error)

	// Default return values used when AnalyzeFn is not set
	Result *analysis.Result
	Err    error

	// CallCount tracks how many times Analyze was invoked
	CallCount int
}

var _ analysis.Analyzer = (*MockAnalyzer)(nil)

func (m *MockAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	m.CallCount++
	if m.AnalyzeFn != nil {
		return m.AnalyzeFn(ctx, req)
	}
	return m.Result, m.Err
}
