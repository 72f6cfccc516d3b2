package runtime

import "gritql/engine-go/pkg/tree"

// AnalysisLog is one rule-authoring diagnostic produced during evaluation.
type AnalysisLog struct {
	Level   int
	Message string
	File    string
	Range   tree.Range
}

// AnalysisLogs collects diagnostics in evaluation order.
type AnalysisLogs []AnalysisLog

// Add appends a plain message at the default level.
func (l *AnalysisLogs) Add(message string) {
	*l = append(*l, AnalysisLog{Message: message})
}

// AddLog appends a fully populated entry.
func (l *AnalysisLogs) AddLog(log AnalysisLog) {
	*l = append(*l, log)
}
