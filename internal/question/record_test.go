package question

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decode(t *testing.T, s string) Record {
	t.Helper()
	var rec Record
	if err := json.Unmarshal([]byte(s), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec
}

func TestFromRecord_MCQAliases(t *testing.T) {
	spec := FromRecord(3, decode(t, `{
		"type": "mcq_single",
		"question": "Capital of France?",
		"answers": ["Paris", "Rome"],
		"answer": 0,
		"hint": "Think of the Eiffel tower",
		"media": {"audio": "a.mp3"}
	}`))

	if spec.ID != 3 {
		t.Errorf("ID = %d, want 3", spec.ID)
	}
	if spec.Kind != KindMCQSingle {
		t.Errorf("Kind = %q, want mcq_single", spec.Kind)
	}
	p, ok := spec.Payload.(MCQSingle)
	if !ok {
		t.Fatalf("Payload = %T, want MCQSingle", spec.Payload)
	}
	if !reflect.DeepEqual(p.Options, []string{"Paris", "Rome"}) {
		t.Errorf("Options = %v", p.Options)
	}
	if !reflect.DeepEqual(p.Correct, []int{0}) {
		t.Errorf("Correct = %v, want [0]", p.Correct)
	}
	if spec.Hint == "" || spec.Media.Audio != "a.mp3" {
		t.Errorf("auxiliary fields not decoded: %+v", spec)
	}
}

func TestFromRecord_CorrectAnswersPreferred(t *testing.T) {
	spec := FromRecord(0, decode(t, `{
		"type": "mcq_multiple",
		"options": ["a", "b", "c"],
		"correct_answers": [0, 2],
		"answer": [1]
	}`))
	p := spec.Payload.(MCQMultiple)
	if !reflect.DeepEqual(p.Correct, []int{0, 2}) {
		t.Errorf("Correct = %v, want [0 2]", p.Correct)
	}
}

func TestFromRecord_MissingFieldsDefaultEmpty(t *testing.T) {
	spec := FromRecord(0, decode(t, `{"type": "match_sentence"}`))
	p, ok := spec.Payload.(MatchSentence)
	if !ok {
		t.Fatalf("Payload = %T, want MatchSentence", spec.Payload)
	}
	if len(p.Pairs) != 0 || len(p.Answer) != 0 {
		t.Errorf("expected empty payload, got %+v", p)
	}
}

func TestFromRecord_UnknownKind(t *testing.T) {
	spec := FromRecord(0, decode(t, `{"type": "hologram"}`))
	if spec.Kind.Known() {
		t.Fatal("hologram should not be a known kind")
	}
	u, ok := spec.Payload.(Unknown)
	if !ok || u.Type != "hologram" {
		t.Errorf("Payload = %#v, want Unknown{hologram}", spec.Payload)
	}
}

func TestFromRecord_ImageTaggingAlternativesInherit(t *testing.T) {
	spec := FromRecord(0, decode(t, `{
		"type": "image_tagging",
		"media": {"image": "img/main.png"},
		"tags": [{"id": "head", "label": "Head"}],
		"answer": {"head": [100, 200]},
		"alternatives": [
			{"image": "img/alt1.png"},
			{"media": {"image": "img/alt2.png"}, "tags": [{"id": "tail", "label": "Tail"}], "answer": {"tail": [5, 6]}, "button_label": "Side"}
		]
	}`))
	p := spec.Payload.(ImageTagging)

	if p.Image != "img/main.png" || p.ButtonLabel != DefaultAlternativeLabel {
		t.Errorf("main variant = %+v", p.TagVariant)
	}
	if len(p.Alternatives) != 2 {
		t.Fatalf("len(Alternatives) = %d, want 2", len(p.Alternatives))
	}

	alt1 := p.Alternatives[0]
	if alt1.ButtonLabel != "Alternative 1" {
		t.Errorf("alt1 label = %q, want Alternative 1", alt1.ButtonLabel)
	}
	if len(alt1.Tags) != 1 || alt1.Tags[0].ID != "head" {
		t.Errorf("alt1 should inherit tags, got %v", alt1.Tags)
	}
	if alt1.Answer["head"] != (Point{X: 100, Y: 200}) {
		t.Errorf("alt1 should inherit answer, got %v", alt1.Answer)
	}

	alt2 := p.Alternatives[1]
	if alt2.Image != "img/alt2.png" || alt2.ButtonLabel != "Side" {
		t.Errorf("alt2 = %+v", alt2)
	}
	if alt2.Answer["tail"] != (Point{X: 5, Y: 6}) {
		t.Errorf("alt2 answer = %v", alt2.Answer)
	}
}

func TestFromRecord_MultiQuestionsNested(t *testing.T) {
	spec := FromRecord(4, decode(t, `{
		"type": "multi_questions",
		"questions": [
			{"type": "categorization", "categories": ["x", "y"], "correct": "y"},
			{"type": "order_phrase", "words": ["b", "a"], "correct_order": ["a", "b"]}
		]
	}`))
	p := spec.Payload.(MultiQuestions)
	if len(p.Questions) != 2 {
		t.Fatalf("len(Questions) = %d, want 2", len(p.Questions))
	}
	if p.Questions[1].ID != 1 || p.Questions[1].Kind != KindOrderPhrase {
		t.Errorf("nested[1] = %+v", p.Questions[1])
	}
	op := p.Questions[1].Payload.(OrderPhrase)
	if !reflect.DeepEqual(op.Correct, []string{"a", "b"}) {
		t.Errorf("Correct = %v", op.Correct)
	}
}

func TestFromRecord_SequenceAudioOptionObjects(t *testing.T) {
	spec := FromRecord(0, decode(t, `{
		"type": "sequence_audio",
		"audio_options": [{"option": "one.mp3"}, "two.mp3"],
		"correct_order": [1, 0]
	}`))
	p := spec.Payload.(SequenceAudio)
	if !reflect.DeepEqual(p.Clips, []string{"one.mp3", "two.mp3"}) {
		t.Errorf("Clips = %v", p.Clips)
	}
	if !reflect.DeepEqual(p.CorrectOrder, []int{1, 0}) {
		t.Errorf("CorrectOrder = %v", p.CorrectOrder)
	}
}

func TestStimulusIdentity(t *testing.T) {
	tests := []struct {
		s    Stimulus
		want string
	}{
		{Stimulus{Text: "dog", Image: "a/b.png"}, "dog"},
		{Stimulus{Image: "media/cat.png"}, "cat.png"},
		{Stimulus{}, ""},
	}
	for _, tt := range tests {
		if got := tt.s.Identity(); got != tt.want {
			t.Errorf("Identity(%+v) = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestMatchSentenceChoicesFallback(t *testing.T) {
	m := MatchSentence{Pairs: []SentencePair{
		{Sentence: "one"},
		{Sentence: "two", Options: []string{"x", "y"}},
	}}
	if got := m.Choices(0); !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Errorf("Choices(0) = %v", got)
	}
	if got := m.Choices(1); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("Choices(1) = %v", got)
	}
	if got := m.Choices(5); got != nil {
		t.Errorf("Choices(5) = %v, want nil", got)
	}
}
