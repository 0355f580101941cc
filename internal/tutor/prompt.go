package tutor

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Emily9121/WifeyMOOC/internal/question"
)

const systemPrompt = `You are a friendly language tutor. A learner answered a quiz question wrong. Explain the mistake briefly and kindly, then give the correct answer and a tip to remember it. Answer in the language the question is written in.`

func buildUserMessage(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question type: %s\n", in.Spec.Kind.Label())
	fmt.Fprintf(&b, "Question: %s\n", in.Spec.Prompt)
	if in.Spec.Hint != "" {
		fmt.Fprintf(&b, "Hint shown to the learner: %s\n", in.Spec.Hint)
	}

	b.WriteString("\nExpected answer:\n")
	b.WriteString(describeExpected(in.Spec.Payload))

	b.WriteString("\nLearner's answer:\n")
	if raw, err := json.Marshal(in.UserAnswer); err == nil && in.UserAnswer != nil {
		b.Write(raw)
		b.WriteString("\n")
	} else {
		b.WriteString("(not available)\n")
	}
	if in.Message != "" {
		fmt.Fprintf(&b, "Feedback shown: %s\n", in.Message)
	}

	b.WriteString(`
Instructions:
1. Name the mistake in one sentence.
2. Explain the correct answer in 2-4 short sentences.
3. Give one short tip. Plain text only, no markdown.`)

	return b.String()
}

// describeExpected renders the answer key as readable lines.
func describeExpected(p question.Payload) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, "- "+format+"\n", args...)
	}

	switch p := p.(type) {
	case question.MCQSingle:
		for _, i := range p.Correct {
			line("%s", pick(p.Options, i))
		}
	case question.MCQMultiple:
		for _, i := range p.Correct {
			line("%s", pick(p.Options, i))
		}
	case question.ListPick:
		for _, i := range p.Correct {
			if i >= 0 && i < len(p.Options) {
				line("%s", p.Options[i].Text)
			}
		}
	case question.WordFill:
		line("sentence: %s", strings.Join(p.Parts, " ___ "))
		for i, a := range p.Answers {
			line("blank %d: %s", i+1, a)
		}
	case question.FillBlanksDropdown:
		line("sentence: %s", strings.Join(p.Parts, " ___ "))
		for i, a := range p.Answers {
			line("blank %d: %s", i+1, a)
		}
	case question.MatchSentence:
		writeMap(line, p.Answer)
	case question.MatchPhrases:
		writeMap(line, p.Answer)
	case question.CategorizationMultiple:
		writeMap(line, p.Answer)
	case question.Categorization:
		line("%s belongs to %s", stimulusText(p.Stimulus), p.Correct)
	case question.OrderPhrase:
		line("%s", strings.Join(p.Correct, " "))
	case question.SequenceAudio:
		for rank, clip := range p.CorrectOrder {
			line("%d: %s", rank+1, pick(p.Clips, clip))
		}
	case question.ImageTagging:
		for _, t := range p.Tags {
			line("tag %q placed on its marked spot", t.Label)
		}
	default:
		b.WriteString("- (not available)\n")
	}
	return b.String()
}

func writeMap(line func(string, ...any), m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line("%s -> %s", k, m[k])
	}
}

func pick(options []string, i int) string {
	if i < 0 || i >= len(options) {
		return fmt.Sprintf("option %d", i)
	}
	return options[i]
}

func stimulusText(s question.Stimulus) string {
	if s.Text != "" {
		return s.Text
	}
	if s.Image != "" {
		return question.FileName(s.Image)
	}
	return "the item"
}
