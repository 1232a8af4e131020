// Package analysis defines the transcript scoring boundary: the Analyzer
// interface implemented by the Gemini-backed analyzer and the rule-based
// heuristic analyzer that serves as its fallback.
package analysis
