package eventstore

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event type names.
const (
	TypeBuildStarted    = "BuildStarted"
	TypePluginStarted   = "PluginStarted"
	TypePluginCompleted = "PluginCompleted"
	TypePluginFailed    = "PluginFailed"
	TypeContentSkipped  = "ContentSkipped"
	TypeBuildCompleted  = "BuildCompleted"
	TypeBuildFailed     = "BuildFailed"
)

// BuildStartedPayload is the payload of TypeBuildStarted.
type BuildStartedPayload struct {
	OutputDir     string   `json:"output_dir"`
	PostsDir      string   `json:"posts_dir"`
	IncludeDrafts bool     `json:"include_drafts"`
	Plugins       []string `json:"plugins"`
}

// PluginPayload is the payload of the plugin lifecycle events.
type PluginPayload struct {
	Plugin     string `json:"plugin"`
	Index      int    `json:"index"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ContentSkippedPayload is the payload of TypeContentSkipped.
type ContentSkippedPayload struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// BuildFinishedPayload is the payload of TypeBuildCompleted and TypeBuildFailed.
type BuildFinishedPayload struct {
	Posts      int    `json:"posts"`
	Pages      int    `json:"pages"`
	DurationMS int64  `json:"duration_ms"`
	Plugin     string `json:"plugin,omitempty"`
	Error      string `json:"error,omitempty"`
}

// NewEvent marshals payload into an event of the given type.
func NewEvent(buildID, eventType string, payload any) (*Record, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &Record{
		Build: buildID,
		Kind:  eventType,
		At:    time.Now(),
		Data:  data,
	}, nil
}

// DecodePayload unmarshals the payload of e into T.
func DecodePayload[T any](e Event) (T, error) {
	var out T
	if err := json.Unmarshal(e.Payload(), &out); err != nil {
		return out, fmt.Errorf("unmarshal %s payload: %w", e.Type(), err)
	}
	return out, nil
}
