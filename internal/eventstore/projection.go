// Package eventstore records build events in SQLite and summarises them.
package eventstore

import (
	"context"
	"time"
)

const (
	buildStatusRunning   = "running"
	buildStatusCompleted = "completed"
	buildStatusFailed    = "failed"
)

// PluginRun is one plugin execution as seen in the journal.
type PluginRun struct {
	Plugin   string        `json:"plugin"`
	Index    int           `json:"index"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// BuildSummary is a read model of one build, reconstructed from its events.
type BuildSummary struct {
	BuildID      string        `json:"build_id"`
	Status       string        `json:"status"` // "running", "completed", "failed"
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	OutputDir    string        `json:"output_dir,omitempty"`
	Posts        int           `json:"posts"`
	Pages        int           `json:"pages"`
	Skipped      []string      `json:"skipped,omitempty"`
	Plugins      []PluginRun   `json:"plugins"`
	ErrorPlugin  string        `json:"error_plugin,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// Summarize folds the events of one build, in order, into a BuildSummary.
// Events with unreadable payloads are ignored.
func Summarize(buildID string, events []Event) *BuildSummary {
	s := &BuildSummary{BuildID: buildID, Status: buildStatusRunning}
	for _, e := range events {
		s.apply(e)
	}
	return s
}

// LoadSummary reads the events of buildID from store and summarises them.
func LoadSummary(ctx context.Context, store Store, buildID string) (*BuildSummary, error) {
	events, err := store.GetByBuildID(ctx, buildID)
	if err != nil {
		return nil, err
	}
	return Summarize(buildID, events), nil
}

func (s *BuildSummary) apply(e Event) {
	switch e.Type() {
	case TypeBuildStarted:
		p, err := DecodePayload[BuildStartedPayload](e)
		if err != nil {
			return
		}
		s.StartedAt = e.Timestamp()
		s.OutputDir = p.OutputDir

	case TypePluginCompleted, TypePluginFailed:
		p, err := DecodePayload[PluginPayload](e)
		if err != nil {
			return
		}
		s.Plugins = append(s.Plugins, PluginRun{
			Plugin:   p.Plugin,
			Index:    p.Index,
			Duration: time.Duration(p.DurationMS) * time.Millisecond,
			Error:    p.Error,
		})

	case TypeContentSkipped:
		p, err := DecodePayload[ContentSkippedPayload](e)
		if err != nil {
			return
		}
		s.Skipped = append(s.Skipped, p.Path)

	case TypeBuildCompleted, TypeBuildFailed:
		p, err := DecodePayload[BuildFinishedPayload](e)
		if err != nil {
			return
		}
		ts := e.Timestamp()
		s.CompletedAt = &ts
		s.Duration = time.Duration(p.DurationMS) * time.Millisecond
		s.Posts = p.Posts
		s.Pages = p.Pages
		if e.Type() == TypeBuildFailed {
			s.Status = buildStatusFailed
			s.ErrorPlugin = p.Plugin
			s.ErrorMessage = p.Error
		} else {
			s.Status = buildStatusCompleted
		}
	}
}
