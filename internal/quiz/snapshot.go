package quiz

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/tagging"
)

// Snapshot is the persisted progress of a session.
type Snapshot struct {
	CurrentQuestion int                              `json:"current_question"`
	Score           int                              `json:"score"`
	QuestionFile    string                           `json:"question_file"`
	StudentAnswers  map[string]any                   `json:"student_answers"`
	TagPositions    map[string]map[string][2]float64 `json:"tag_positions_dict"`
	Alternatives    map[string]int                   `json:"alternative_index,omitempty"`
}

// Source loads the question set a snapshot refers to.
type Source interface {
	Load(ref string) (baseDir string, qs []question.Spec, err error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ref string) (string, []question.Spec, error)

func (f SourceFunc) Load(ref string) (string, []question.Spec, error) {
	return f(ref)
}

// Snapshot captures the session. It fails only when nothing is loaded.
func (c *Controller) Snapshot() (Snapshot, error) {
	if c.State() == StateEmpty {
		return Snapshot{}, ErrEmpty
	}
	return Snapshot{
		CurrentQuestion: c.current,
		Score:           c.score,
		QuestionFile:    c.ref,
		StudentAnswers:  maps.Clone(c.answers),
		TagPositions:    c.tags.Export(),
		Alternatives:    maps.Clone(c.alts),
	}, nil
}

// Restore reloads snap.QuestionFile through src and applies the snapshot.
// On any failure it returns a *RestoreError and the controller keeps its
// previous state.
func (c *Controller) Restore(snap Snapshot, src Source) error {
	fail := func(err error) error {
		return &RestoreError{Ref: snap.QuestionFile, Err: err}
	}
	if snap.QuestionFile == "" {
		return fail(fmt.Errorf("snapshot has no question file"))
	}
	if src == nil {
		return fail(fmt.Errorf("no question source"))
	}
	baseDir, qs, err := src.Load(snap.QuestionFile)
	if err != nil {
		return fail(err)
	}
	if len(qs) == 0 {
		return fail(ErrNoQuestions)
	}
	if snap.CurrentQuestion < 0 || snap.CurrentQuestion > len(qs) {
		return fail(fmt.Errorf("current question %d out of range [0, %d]", snap.CurrentQuestion, len(qs)))
	}
	if snap.Score < 0 {
		return fail(fmt.Errorf("negative score %d", snap.Score))
	}

	answers := maps.Clone(snap.StudentAnswers)
	if answers == nil {
		answers = make(map[string]any)
	}
	alts := make(map[string]int, len(snap.Alternatives))
	for key, alt := range snap.Alternatives {
		_, spec, ok := specAt(qs, key)
		if !ok {
			continue
		}
		if p, ok := spec.Payload.(question.ImageTagging); ok && alt >= 0 && alt < tagging.AlternativeCount(p) {
			alts[key] = alt
		}
	}

	c.ref = snap.QuestionFile
	c.baseDir = baseDir
	c.questions = qs
	c.current = snap.CurrentQuestion
	c.score = snap.Score
	c.answers = answers
	c.alts = alts
	c.tags = tagging.Import(snap.TagPositions)
	return nil
}

func indexOfKey(key string) (int, error) {
	i, err := strconv.Atoi(key)
	if err != nil {
		return 0, err
	}
	if i < 0 || Key(i) != key {
		return 0, fmt.Errorf("not a question key: %q", key)
	}
	return i, nil
}

// DefaultProgressPath returns the progress file used for a question set:
// "set.json" is saved as "set.progress.json".
func DefaultProgressPath(questionFile string) string {
	ext := filepath.Ext(questionFile)
	return strings.TrimSuffix(questionFile, ext) + ".progress.json"
}

// SaveFile writes snap to path as indented JSON.
func SaveFile(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

// LoadFile reads a progress file written by SaveFile.
func LoadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read progress: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse progress %s: %w", path, err)
	}
	return snap, nil
}
