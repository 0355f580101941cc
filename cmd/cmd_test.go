package cmd

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/questionset"
	"github.com/Emily9121/WifeyMOOC/internal/quiz"
	"github.com/Emily9121/WifeyMOOC/internal/store"
)

func TestDisplayKey(t *testing.T) {
	tests := []struct{ key, want string }{
		{"0", "1"},
		{"4-2", "5.3"},
		{"bad", "bad"},
	}
	for _, tt := range tests {
		if got := displayKey(tt.key); got != tt.want {
			t.Errorf("displayKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestTruncateKeepsRunes(t *testing.T) {
	assert.Equal(t, "héll", truncate("héllo", 4))
	assert.Equal(t, "ok", truncate("ok", 4))
}

func TestScoreKeysExpandsBlocks(t *testing.T) {
	set := &questionset.Set{Questions: []question.Spec{
		{Kind: question.KindMCQSingle, Prompt: "one"},
		{Kind: question.KindMultiQuestions, Payload: question.MultiQuestions{Questions: []question.Spec{
			{Kind: question.KindWordFill, Prompt: "two a"},
			{Kind: question.KindOrderPhrase, Prompt: "two b"},
		}}},
		{Kind: question.Kind("hologram")},
	}}
	keys := scoreKeys(set)
	require.Len(t, keys, 3)
	assert.Equal(t, scoreKey{key: "0", kind: "mcq_single", prompt: "one"}, keys[0])
	assert.Equal(t, "1-0", keys[1].key)
	assert.Equal(t, "order_phrase", keys[2].kind)
}

func TestAggregateUsage(t *testing.T) {
	events := []store.LLMRequestEvent{
		{LLMRequestEventData: store.LLMRequestEventData{Purpose: "explanation", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true}},
		{LLMRequestEventData: store.LLMRequestEventData{Purpose: "explanation", InputTokens: 20, OutputTokens: 5, LatencyMs: 300}},
		{LLMRequestEventData: store.LLMRequestEventData{Purpose: "other", InputTokens: 1, LatencyMs: 50, Success: true}},
	}
	rows := aggregateUsage(events, func(e store.LLMRequestEvent) string { return e.Purpose })
	require.Len(t, rows, 2)
	assert.Equal(t, "explanation", rows[0].Key)
	assert.Equal(t, 2, rows[0].Calls)
	assert.Equal(t, 1, rows[0].Failures)
	assert.Equal(t, 30, rows[0].InputTokens)
	assert.Equal(t, int64(200), rows[0].AvgLatencyMs())
}

func TestFindSnapshotPrefersFile(t *testing.T) {
	st, err := store.Open("file::memory:?cache=shared")
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	dir := t.TempDir()
	questions := filepath.Join(dir, "set.json")
	progress := quiz.DefaultProgressPath(questions)

	_, found, err := findSnapshot(ctx, progress, st.SnapshotRepo(), questions)
	require.NoError(t, err)
	assert.False(t, found)

	stored := quiz.Snapshot{CurrentQuestion: 2, Score: 1, QuestionFile: questions}
	data, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, st.SnapshotRepo().Save(ctx, &store.Snapshot{SessionID: "s1", QuestionFile: questions, Data: data}))

	snap, found, err := findSnapshot(ctx, progress, st.SnapshotRepo(), questions)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, snap.CurrentQuestion)

	require.NoError(t, quiz.SaveFile(progress, quiz.Snapshot{CurrentQuestion: 1, QuestionFile: questions}))
	snap, found, err = findSnapshot(ctx, progress, st.SnapshotRepo(), questions)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, snap.CurrentQuestion)
}
