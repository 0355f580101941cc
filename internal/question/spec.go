// Package question defines the immutable model of a loaded question set.
//
// A Spec is a tagged union: Kind selects the concrete Payload type, and no
// two kinds share a payload type. Specs carry no behaviour; collection and
// grading live in the response and grading packages.
package question

// Spec is one question loaded from a question set.
type Spec struct {
	// ID is the ordinal position of the question in its set (or in its
	// enclosing block for nested questions).
	ID int

	// Kind is the variant tag. Unrecognized type strings keep their raw
	// value so they can be reported.
	Kind Kind

	Prompt string
	Media  Media

	// Hint and Lesson are auxiliary content, never used in grading.
	Hint   string
	Lesson Lesson

	Payload Payload
}

// Media holds optional references to media files. Paths are stored exactly
// as written in the question set; resolution is the media package's job.
type Media struct {
	Audio string
	Video string
	Image string
}

// Empty reports whether no media is referenced.
func (m Media) Empty() bool {
	return m.Audio == "" && m.Video == "" && m.Image == ""
}

// Lesson points at supplementary lesson material.
type Lesson struct {
	PDF string
}

// Point is a coordinate in image-pixel space.
type Point struct {
	X float64
	Y float64
}

// Payload is the kind-specific part of a Spec.
type Payload interface {
	payloadKind() Kind
}

// MCQSingle is a single-answer multiple choice question.
type MCQSingle struct {
	Options []string
	Correct []int
}

// MCQMultiple requires selecting exactly the set of correct options.
type MCQMultiple struct {
	Options []string
	Correct []int
}

// WordFill interleaves sentence parts with free-text blanks. Blank i sits
// between Parts[i] and Parts[i+1].
type WordFill struct {
	Parts   []string
	Answers []string
}

// Blanks returns the number of blanks to render.
func (w WordFill) Blanks() int {
	if n := len(w.Parts) - 1; n > len(w.Answers) {
		return n
	}
	return len(w.Answers)
}

// Stimulus is a text or image item shown to the learner.
type Stimulus struct {
	Text  string
	Image string
}

// ListPick selects any number of rows from a list.
type ListPick struct {
	Options []Stimulus
	Correct []int
}

// SentencePair is the left side of a match_sentence row. The identity used
// to look up the answer key is ImagePath, then Left, then Sentence.
type SentencePair struct {
	ImagePath string
	Sentence  string
	Left      string
	Options   []string
}

// MatchSentence pairs each row with one right-hand value chosen from the
// pair's options.
type MatchSentence struct {
	Pairs  []SentencePair
	Answer map[string]string
}

// Choices returns the right-hand values offered for pair i. Pairs without
// their own options offer every pair's sentence.
func (m MatchSentence) Choices(i int) []string {
	if i < 0 || i >= len(m.Pairs) {
		return nil
	}
	if len(m.Pairs[i].Options) > 0 {
		return m.Pairs[i].Options
	}
	var all []string
	for _, p := range m.Pairs {
		if p.Sentence != "" {
			all = append(all, p.Sentence)
		}
	}
	return all
}

// Categorization assigns a single stimulus to one category.
type Categorization struct {
	Stimulus   Stimulus
	Categories []string
	Correct    string
}

// CategorizationMultiple assigns every item to a category.
type CategorizationMultiple struct {
	Items      []Stimulus
	Categories []string
	Answer     map[string]string

	// MaxColumns is a layout hint for grid renderers.
	MaxColumns int
}

// SequenceAudio asks for a 1-based rank per audio clip.
type SequenceAudio struct {
	Clips []string

	// CorrectOrder is 0-based and compared positionally against the
	// learner's ranks.
	CorrectOrder []int
}

// OrderPhrase reorders shuffled tokens into the correct sequence.
type OrderPhrase struct {
	Tokens  []string
	Correct []string
}

// FillBlanksDropdown interleaves sentence parts with dropdown blanks.
type FillBlanksDropdown struct {
	Parts   []string
	Options [][]string
	Answers []string
}

// Blanks returns the number of dropdowns to render.
func (f FillBlanksDropdown) Blanks() int {
	n := len(f.Options)
	if len(f.Answers) > n {
		n = len(f.Answers)
	}
	return n
}

// PhrasePair offers a set of targets for one source phrase.
type PhrasePair struct {
	Source  string
	Targets []string
}

// MatchPhrases matches each source phrase to one of its targets.
type MatchPhrases struct {
	Pairs  []PhrasePair
	Answer map[string]string
}

// Tag is a draggable label in an image tagging question.
type Tag struct {
	ID    string
	Label string
}

// TagVariant is one image together with its tags and expected positions.
type TagVariant struct {
	Image       string
	Tags        []Tag
	Answer      map[string]Point
	ButtonLabel string
}

// ImageTagging places tags on an image. The main variant is embedded;
// Alternatives share the same question but swap the image and tag set.
type ImageTagging struct {
	TagVariant
	Alternatives []TagVariant
}

// MultiQuestions is an ordered block of nested questions. The block itself
// is never scored; each nested question is scored under its own key.
type MultiQuestions struct {
	Questions []Spec
}

// Unknown is the payload of a record whose type is not recognized.
type Unknown struct {
	Type string
}

func (MCQSingle) payloadKind() Kind              { return KindMCQSingle }
func (MCQMultiple) payloadKind() Kind            { return KindMCQMultiple }
func (WordFill) payloadKind() Kind               { return KindWordFill }
func (ListPick) payloadKind() Kind               { return KindListPick }
func (MatchSentence) payloadKind() Kind          { return KindMatchSentence }
func (Categorization) payloadKind() Kind         { return KindCategorization }
func (CategorizationMultiple) payloadKind() Kind { return KindCategorizationMultiple }
func (SequenceAudio) payloadKind() Kind          { return KindSequenceAudio }
func (OrderPhrase) payloadKind() Kind            { return KindOrderPhrase }
func (FillBlanksDropdown) payloadKind() Kind     { return KindFillBlanksDropdown }
func (MatchPhrases) payloadKind() Kind           { return KindMatchPhrases }
func (ImageTagging) payloadKind() Kind           { return KindImageTagging }
func (MultiQuestions) payloadKind() Kind         { return KindMultiQuestions }
func (u Unknown) payloadKind() Kind              { return Kind(u.Type) }
