package eventstore

import (
	"context"
	"time"
)

// Journal appends the events of one build to a Store.
type Journal struct {
	store   Store
	buildID string
}

// NewJournal returns a Journal writing events tagged with buildID.
func NewJournal(store Store, buildID string) *Journal {
	return &Journal{store: store, buildID: buildID}
}

// BuildID returns the build the journal records.
func (j *Journal) BuildID() string { return j.buildID }

// Record appends e.
func (j *Journal) Record(ctx context.Context, e Event) error {
	return j.store.Append(ctx, e.BuildID(), e.Type(), e.Payload(), e.Metadata())
}

func (j *Journal) emit(ctx context.Context, eventType string, payload any) error {
	e, err := NewEvent(j.buildID, eventType, payload)
	if err != nil {
		return err
	}
	return j.Record(ctx, e)
}

func (j *Journal) BuildStarted(ctx context.Context, p BuildStartedPayload) error {
	return j.emit(ctx, TypeBuildStarted, p)
}

func (j *Journal) PluginStarted(ctx context.Context, plugin string, index int) error {
	return j.emit(ctx, TypePluginStarted, PluginPayload{Plugin: plugin, Index: index})
}

// PluginFinished records TypePluginCompleted, or TypePluginFailed when err is set.
func (j *Journal) PluginFinished(ctx context.Context, plugin string, index int, d time.Duration, err error) error {
	p := PluginPayload{Plugin: plugin, Index: index, DurationMS: d.Milliseconds()}
	if err != nil {
		p.Error = err.Error()
		return j.emit(ctx, TypePluginFailed, p)
	}
	return j.emit(ctx, TypePluginCompleted, p)
}

func (j *Journal) ContentSkipped(ctx context.Context, path string, reason error) error {
	return j.emit(ctx, TypeContentSkipped, ContentSkippedPayload{Path: path, Reason: reason.Error()})
}

// BuildFinished records TypeBuildCompleted, or TypeBuildFailed when p.Error is set.
func (j *Journal) BuildFinished(ctx context.Context, p BuildFinishedPayload) error {
	if p.Error != "" {
		return j.emit(ctx, TypeBuildFailed, p)
	}
	return j.emit(ctx, TypeBuildCompleted, p)
}
