package response

import (
	"fmt"

	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/tagging"
)

// Options supplies the session context a collector needs at creation.
// Every field is optional.
type Options struct {
	// Key is the session key of the question ("3"); nested questions get
	// "{Key}-{inner}".
	Key string

	// Alternative returns the active image tagging variant for a key.
	Alternative func(key string) int

	// Placement returns the starting tag positions for a variant.
	Placement func(key string, alt int, tags []question.Tag) map[string]question.Point

	// Prior returns a previously recorded answer for a key, used to
	// restore the collector's visible state.
	Prior func(key string) (any, bool)
}

// PartKey returns the session key of nested question inner in block key.
func PartKey(key string, inner int) string {
	return fmt.Sprintf("%s-%d", key, inner)
}

type factory func(spec question.Spec, opts Options) Collector

var factories map[question.Kind]factory

func init() {
	factories = map[question.Kind]factory{
		question.KindMCQSingle:              newMCQSingle,
		question.KindMCQMultiple:            newMCQMultiple,
		question.KindWordFill:               newWordFill,
		question.KindListPick:               newListPick,
		question.KindMatchSentence:          newMatchSentence,
		question.KindCategorization:         newCategorization,
		question.KindCategorizationMultiple: newCategorizationMultiple,
		question.KindSequenceAudio:          newSequenceAudio,
		question.KindOrderPhrase:            newOrderPhrase,
		question.KindFillBlanksDropdown:     newFillBlanksDropdown,
		question.KindMatchPhrases:           newMatchPhrases,
		question.KindImageTagging:           newImageTagging,
		question.KindMultiQuestions:         newMultiQuestions,
	}
}

// New creates a collector for spec. Unknown kinds, and specs whose payload
// does not match their kind, get a NullCollector.
func New(spec question.Spec, opts Options) Collector {
	f, ok := factories[spec.Kind]
	if !ok {
		return &NullCollector{kind: spec.Kind}
	}
	c := f(spec, opts)
	if opts.Prior != nil {
		if prior, ok := opts.Prior(opts.Key); ok {
			Restore(c, prior)
		}
	}
	return c
}

func newMCQSingle(spec question.Spec, _ Options) Collector {
	p, ok := spec.Payload.(question.MCQSingle)
	if !ok {
		return &NullCollector{kind: spec.Kind}
	}
	return newChoiceCollector(spec.Kind, p.Options)
}

func newMCQMultiple(spec question.Spec, _ Options) Collector {
	p, ok := spec.Payload.(question.MCQMultiple)
	if !ok {
		return &NullCollector{kind: spec.Kind}
	}
	return newSelectionCollector(spec.Kind, p.Options)
}

func newWordFill(spec question.Spec, _ Options) Collector {
	p, ok := spec.Payload.(question.WordFill)
	if !ok {
		return &NullCollector{kind: spec.Kind}
	}
	return newTextCollector(spec.Kind, p.Blanks())
}

func newListPick(spec question.Spec, _ Options) Collector {
	p, ok := spec.Payload.(question.ListPick)
	if !ok {
		return &NullCollector{kind: spec.Kind}
	}
	labels := make([]string, len(p.Options))
	for i, o := range p.Options {
		labels[i] = o.Identity()
	}
	return newSelectionCollector(spec.Kind, labels)
}

func newMatchSentence(spec question.Spec, _ Options) Collector {
	p, ok := spec.Payload.(question.MatchSentence)
	if !ok {
		return &NullCollector{kind: spec.Kind}
	}
	labels := make([]string, len(p.Pairs))
	choices := make([][]string, len(p.Pairs))
	for i, pair := range p.Pairs {
		switch {
		case pair.ImagePath != "":
			labels[i] = pair.ImagePath
		case pair.Left != "":
			labels[i] = pair.Left
		default:
			labels[i] = pair.Sentence
		}
		choices[i] = p.Choices(i)
	}
	return newPickCollector(spec.Kind, labels, choices)
}

func newCategorization(spec question.Spec, _ Options) Collector {
	p, ok := spec.Payload.(question.Categorization)
	if !ok {
		return &NullCollector{kind: spec.Kind}
	}
	return newPickCollector(spec.Kind, []string{p.Stimulus.Identity()}, [][]string{p.Categories})
}

func newCategorizationMultiple(spec question.Spec, _ Options) Collector {
	p, ok := spec.Payload.(question.CategorizationMultiple)
	if !ok {
		return &NullCollector{kind: spec.Kind}
	}
	labels := make([]string, len(p.Items))
	choices := make([][]string, len(p.Items))
	for i, item := range p.Items {
		labels[i] = item.Identity()
		choices[i] = p.Categories
	}
	return newPickCollector(spec.Kind, labels, choices)
}

func newSequenceAudio(spec question.Spec, _ Options) Collector {
	p, ok := spec.Payload.(question.SequenceAudio)
	if !ok {
		return &NullCollector{kind: spec.Kind}
	}
	return newRankCollector(spec.Kind, len(p.Clips))
}

func newOrderPhrase(spec question.Spec, _ Options) Collector {
	p, ok := spec.Payload.(question.OrderPhrase)
	if !ok {
		return &NullCollector{kind: spec.Kind}
	}
	return newOrderCollector(spec.Kind, p.Tokens)
}

func newFillBlanksDropdown(spec question.Spec, _ Options) Collector {
	p, ok := spec.Payload.(question.FillBlanksDropdown)
	if !ok {
		return &NullCollector{kind: spec.Kind}
	}
	n := p.Blanks()
	labels := make([]string, n)
	choices := make([][]string, n)
	for i := range n {
		labels[i] = fmt.Sprintf("Blank %d", i+1)
		if i < len(p.Options) {
			choices[i] = p.Options[i]
		}
	}
	return newPickCollector(spec.Kind, labels, choices)
}

func newMatchPhrases(spec question.Spec, _ Options) Collector {
	p, ok := spec.Payload.(question.MatchPhrases)
	if !ok {
		return &NullCollector{kind: spec.Kind}
	}
	labels := make([]string, len(p.Pairs))
	choices := make([][]string, len(p.Pairs))
	for i, pair := range p.Pairs {
		labels[i] = pair.Source
		choices[i] = pair.Targets
	}
	return newPickCollector(spec.Kind, labels, choices)
}

func newImageTagging(spec question.Spec, opts Options) Collector {
	p, ok := spec.Payload.(question.ImageTagging)
	if !ok {
		return &NullCollector{kind: spec.Kind}
	}
	alt := 0
	if opts.Alternative != nil {
		alt = opts.Alternative(opts.Key)
	}
	variant := tagging.ActiveVariant(p, alt)
	var initial map[string]question.Point
	if opts.Placement != nil {
		initial = opts.Placement(opts.Key, alt, variant.Tags)
	}
	return newTagCollector(alt, variant, initial)
}

func newMultiQuestions(spec question.Spec, opts Options) Collector {
	p, ok := spec.Payload.(question.MultiQuestions)
	if !ok {
		return &NullCollector{kind: spec.Kind}
	}
	parts := make([]Collector, len(p.Questions))
	for i, nested := range p.Questions {
		partOpts := opts
		partOpts.Key = PartKey(opts.Key, i)
		parts[i] = New(nested, partOpts)
	}
	return newCompositeCollector(parts)
}
