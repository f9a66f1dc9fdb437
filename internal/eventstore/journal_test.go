package eventstore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJournal_RecordsBuildAndSummarizes(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()
	j := NewJournal(store, testBuildID)

	require.NoError(t, j.BuildStarted(ctx, BuildStartedPayload{OutputDir: "build", Plugins: []string{"build", "posts"}}))
	require.NoError(t, j.PluginStarted(ctx, "build", 0))
	require.NoError(t, j.PluginFinished(ctx, "build", 0, 12*time.Millisecond, nil))
	require.NoError(t, j.ContentSkipped(ctx, "posts/bad.md", errors.New("missing title")))
	require.NoError(t, j.PluginStarted(ctx, "posts", 1))
	require.NoError(t, j.PluginFinished(ctx, "posts", 1, 3*time.Millisecond, errors.New("duplicate permalink")))
	require.NoError(t, j.BuildFinished(ctx, BuildFinishedPayload{Plugin: "posts", Error: "duplicate permalink", DurationMS: 20}))

	summary, err := LoadSummary(ctx, store, testBuildID)
	require.NoError(t, err)

	require.Equal(t, buildStatusFailed, summary.Status)
	require.Equal(t, "build", summary.OutputDir)
	require.Equal(t, []string{"posts/bad.md"}, summary.Skipped)
	require.Len(t, summary.Plugins, 2)
	require.Equal(t, "build", summary.Plugins[0].Plugin)
	require.Equal(t, 12*time.Millisecond, summary.Plugins[0].Duration)
	require.Equal(t, "duplicate permalink", summary.Plugins[1].Error)
	require.Equal(t, "posts", summary.ErrorPlugin)
	require.Equal(t, 20*time.Millisecond, summary.Duration)
	require.NotNil(t, summary.CompletedAt)
}

func TestSummarize_CompletedBuild(t *testing.T) {
	started, err := NewEvent(testBuildID, TypeBuildStarted, BuildStartedPayload{OutputDir: "out"})
	require.NoError(t, err)
	done, err := NewEvent(testBuildID, TypeBuildCompleted, BuildFinishedPayload{Posts: 4, Pages: 1})
	require.NoError(t, err)
	junk := &Record{Build: testBuildID, Kind: TypePluginCompleted, Data: []byte("{")}

	s := Summarize(testBuildID, []Event{started, junk, done})
	require.Equal(t, buildStatusCompleted, s.Status)
	require.Equal(t, 4, s.Posts)
	require.Equal(t, 1, s.Pages)
	require.Empty(t, s.Plugins)
}

func TestSummarize_NoEventsIsRunning(t *testing.T) {
	s := Summarize("x", nil)
	require.Equal(t, buildStatusRunning, s.Status)
	require.Nil(t, s.CompletedAt)
}
