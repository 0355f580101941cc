package question

import (
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"
)

// Record is one question as decoded from JSON or YAML.
type Record = map[string]any

// DefaultAlternativeLabel labels the main variant of an image tagging
// question when the record has no button_label.
const DefaultAlternativeLabel = "Alternative Version"

// DefaultMaxColumns is the grid width hint for categorization_multiple.
const DefaultMaxColumns = 6

// FromRecord builds a Spec from a decoded record. It never fails: missing or
// mistyped fields resolve to empty values so that grading degrades to
// "incorrect" instead of halting the session.
func FromRecord(id int, rec Record) Spec {
	r := fields(rec)
	kind := Kind(r.str("type"))
	spec := Spec{
		ID:     id,
		Kind:   kind,
		Prompt: r.str("question"),
		Hint:   r.str("hint"),
		Lesson: Lesson{PDF: r.obj("lesson").str("pdf")},
	}
	media := r.obj("media")
	spec.Media = Media{
		Audio: media.str("audio"),
		Video: media.str("video"),
		Image: media.str("image"),
	}
	spec.Payload = buildPayload(kind, r, spec.Media)
	return spec
}

func buildPayload(kind Kind, r fields, media Media) Payload {
	switch kind {
	case KindMCQSingle:
		return MCQSingle{
			Options: stringList(r.first("options", "answers")),
			Correct: ints(r.first("correct_answers", "answer", "answers")),
		}
	case KindMCQMultiple:
		return MCQMultiple{
			Options: stringList(r.first("options", "answers")),
			Correct: ints(r.first("correct_answers", "answer", "answers")),
		}
	case KindWordFill:
		return WordFill{
			Parts:   stringList(r.first("sentence_parts", "parts")),
			Answers: stringList(r.first("answers", "correct_answers")),
		}
	case KindListPick:
		return ListPick{
			Options: stimuli(r.first("options", "items")),
			Correct: ints(r.get("answer")),
		}
	case KindMatchSentence:
		var pairs []SentencePair
		for _, v := range list(r.get("pairs")) {
			p := fields(asMap(v))
			pairs = append(pairs, SentencePair{
				ImagePath: p.str("image_path"),
				Sentence:  p.str("sentence"),
				Left:      p.str("left"),
				Options:   stringList(p.get("options")),
			})
		}
		return MatchSentence{Pairs: pairs, Answer: stringMap(r.get("answer"))}
	case KindCategorization:
		stim := stimulus(r.get("stimulus"))
		if stim.Image == "" {
			stim.Image = media.Image
		}
		return Categorization{
			Stimulus:   stim,
			Categories: stringList(r.get("categories")),
			Correct:    str(r.get("correct")),
		}
	case KindCategorizationMultiple:
		cols := DefaultMaxColumns
		if n, ok := toInt(r.get("max_columns")); ok && n > 0 {
			cols = n
		}
		return CategorizationMultiple{
			Items:      stimuli(r.first("items", "stimuli")),
			Categories: stringList(r.get("categories")),
			Answer:     stringMap(r.get("answer")),
			MaxColumns: cols,
		}
	case KindSequenceAudio:
		var clips []string
		for _, v := range list(r.get("audio_options")) {
			if m, ok := v.(map[string]any); ok {
				clips = append(clips, str(m["option"]))
				continue
			}
			clips = append(clips, str(v))
		}
		return SequenceAudio{
			Clips:        clips,
			CorrectOrder: ints(r.first("answer", "correct_order")),
		}
	case KindOrderPhrase:
		correct := stringList(r.get("answer"))
		if len(correct) == 0 {
			correct = stringList(r.get("correct_order"))
		}
		return OrderPhrase{
			Tokens:  stringList(r.first("phrase_shuffled", "words")),
			Correct: correct,
		}
	case KindFillBlanksDropdown:
		var opts [][]string
		for _, v := range list(r.get("options_for_blanks")) {
			opts = append(opts, stringList(v))
		}
		return FillBlanksDropdown{
			Parts:   stringList(r.get("sentence_parts")),
			Options: opts,
			Answers: stringList(r.first("answers", "correct_answers")),
		}
	case KindMatchPhrases:
		var pairs []PhrasePair
		for _, v := range list(r.get("pairs")) {
			p := fields(asMap(v))
			pairs = append(pairs, PhrasePair{
				Source:  p.str("source"),
				Targets: stringList(p.get("targets")),
			})
		}
		return MatchPhrases{Pairs: pairs, Answer: stringMap(r.get("answer"))}
	case KindImageTagging:
		return imageTagging(r, media)
	case KindMultiQuestions:
		var nested []Spec
		for i, v := range list(r.get("questions")) {
			nested = append(nested, FromRecord(i, asMap(v)))
		}
		return MultiQuestions{Questions: nested}
	default:
		return Unknown{Type: string(kind)}
	}
}

func imageTagging(r fields, media Media) ImageTagging {
	main := TagVariant{
		Image:       media.Image,
		Tags:        tags(r.get("tags")),
		Answer:      points(r.get("answer")),
		ButtonLabel: r.str("button_label"),
	}
	if main.Image == "" {
		main.Image = r.str("image")
	}
	if main.ButtonLabel == "" {
		main.ButtonLabel = DefaultAlternativeLabel
	}

	var alts []TagVariant
	for i, v := range list(r.get("alternatives")) {
		a := fields(asMap(v))
		alt := TagVariant{
			Image:       a.str("image"),
			ButtonLabel: a.str("button_label"),
		}
		if alt.Image == "" {
			alt.Image = a.obj("media").str("image")
		}
		if a.has("tags") {
			alt.Tags = tags(a.get("tags"))
		} else {
			alt.Tags = main.Tags
		}
		if a.has("answer") {
			alt.Answer = points(a.get("answer"))
		} else {
			alt.Answer = main.Answer
		}
		if alt.ButtonLabel == "" {
			alt.ButtonLabel = fmt.Sprintf("Alternative %d", i+1)
		}
		alts = append(alts, alt)
	}
	return ImageTagging{TagVariant: main, Alternatives: alts}
}

// fields wraps a record with alias-aware accessors.
type fields map[string]any

func (f fields) has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f fields) get(key string) any {
	return f[key]
}

// first returns the value of the first key present in the record.
func (f fields) first(keys ...string) any {
	for _, k := range keys {
		if v, ok := f[k]; ok {
			return v
		}
	}
	return nil
}

func (f fields) str(key string) string {
	return str(f[key])
}

func (f fields) obj(key string) fields {
	return fields(asMap(f[key]))
}

func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out
	}
	return nil
}

func list(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return nil
}

func str(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case float64, int, int64, bool:
		return fmt.Sprint(s)
	}
	return ""
}

func stringList(v any) []string {
	var out []string
	for _, e := range list(v) {
		out = append(out, str(e))
	}
	return out
}

// ints accepts a single number or a list of numbers.
func ints(v any) []int {
	if n, ok := toInt(v); ok {
		return []int{n}
	}
	var out []int
	for _, e := range list(v) {
		if n, ok := toInt(e); ok {
			out = append(out, n)
		}
	}
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func stringMap(v any) map[string]string {
	m := asMap(v)
	out := make(map[string]string, len(m))
	for k, val := range m {
		out[k] = str(val)
	}
	return out
}

func stimulus(v any) Stimulus {
	switch s := v.(type) {
	case string:
		return Stimulus{Text: s}
	default:
		m := fields(asMap(s))
		return Stimulus{Text: m.str("text"), Image: m.str("image")}
	}
}

func stimuli(v any) []Stimulus {
	var out []Stimulus
	for _, e := range list(v) {
		out = append(out, stimulus(e))
	}
	return out
}

func tags(v any) []Tag {
	var out []Tag
	for _, e := range list(v) {
		m := fields(asMap(e))
		out = append(out, Tag{ID: m.str("id"), Label: m.str("label")})
	}
	return out
}

// points decodes {tagId: [x, y]}. Entries with fewer than two numbers are
// dropped; graders treat a missing entry as the origin.
func points(v any) map[string]Point {
	m := asMap(v)
	out := make(map[string]Point, len(m))
	for id, raw := range m {
		coords := list(raw)
		if len(coords) < 2 {
			continue
		}
		x, okX := toFloat(coords[0])
		y, okY := toFloat(coords[1])
		if okX && okY {
			out[id] = Point{X: x, Y: y}
		}
	}
	return out
}

// Identity returns the answer-key identity of a categorization item: its
// text, else its image's file name. Items with neither have no identity.
func (s Stimulus) Identity() string {
	if s.Text != "" {
		return s.Text
	}
	if s.Image != "" {
		return FileName(s.Image)
	}
	return ""
}

// FileName returns the last element of a media path written with either
// slash style.
func FileName(p string) string {
	if p == "" {
		return ""
	}
	return path.Base(strings.ReplaceAll(p, `\`, "/"))
}
