package question

// Kind selects which response collector and grading algorithm apply to a
// question record. Its value is the record's "type" string.
type Kind string

const (
	KindMCQSingle              Kind = "mcq_single"
	KindMCQMultiple            Kind = "mcq_multiple"
	KindWordFill               Kind = "word_fill"
	KindListPick               Kind = "list_pick"
	KindMatchSentence          Kind = "match_sentence"
	KindCategorization         Kind = "categorization"
	KindCategorizationMultiple Kind = "categorization_multiple"
	KindSequenceAudio          Kind = "sequence_audio"
	KindOrderPhrase            Kind = "order_phrase"
	KindFillBlanksDropdown     Kind = "fill_blanks_dropdown"
	KindMatchPhrases           Kind = "match_phrases"
	KindImageTagging           Kind = "image_tagging"
	KindMultiQuestions         Kind = "multi_questions"
)

// AllKinds lists every recognized kind in declaration order.
var AllKinds = []Kind{
	KindMCQSingle,
	KindMCQMultiple,
	KindWordFill,
	KindListPick,
	KindMatchSentence,
	KindCategorization,
	KindCategorizationMultiple,
	KindSequenceAudio,
	KindOrderPhrase,
	KindFillBlanksDropdown,
	KindMatchPhrases,
	KindImageTagging,
	KindMultiQuestions,
}

var kindLabels = map[Kind]string{
	KindMCQSingle:              "Multiple choice",
	KindMCQMultiple:            "Multiple answers",
	KindWordFill:               "Fill in the words",
	KindListPick:               "Pick from list",
	KindMatchSentence:          "Match sentences",
	KindCategorization:         "Categorize",
	KindCategorizationMultiple: "Categorize items",
	KindSequenceAudio:          "Order the clips",
	KindOrderPhrase:            "Order the phrase",
	KindFillBlanksDropdown:     "Fill the blanks",
	KindMatchPhrases:           "Match phrases",
	KindImageTagging:           "Tag the image",
	KindMultiQuestions:         "Question block",
}

// Known reports whether k is one of the recognized kinds.
func (k Kind) Known() bool {
	_, ok := kindLabels[k]
	return ok
}

// Label returns a short human-readable name for the kind.
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return "Unknown"
}
