package grading

import (
	"strconv"

	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/response"
)

// pick returns the value chosen for row i, or "" when the response has no
// such row.
func pick(p response.Picks, i int) string {
	if i < 0 || i >= len(p.Values) {
		return ""
	}
	return p.Values[i]
}

// SentenceKey resolves the answer-key identity of a match_sentence pair:
// the full image path if the key uses it, else the bare file name, else
// the left text, else the sentence. Image pairs found under neither form
// resolve to the full path, which then fails the lookup.
func SentenceKey(pair question.SentencePair, answer map[string]string) string {
	if pair.ImagePath != "" {
		if _, ok := answer[pair.ImagePath]; ok {
			return pair.ImagePath
		}
		if base := question.FileName(pair.ImagePath); base != "" {
			if _, ok := answer[base]; ok {
				return base
			}
		}
		return pair.ImagePath
	}
	if pair.Left != "" {
		return pair.Left
	}
	return pair.Sentence
}

func gradeMatchSentence(_ Grader, spec question.Spec, resp response.Response) Result {
	p, _ := spec.Payload.(question.MatchSentence)
	picks, _ := resp.(response.Picks)

	answer := make(map[string]string, len(p.Pairs))
	ok := len(p.Pairs) > 0
	for i, pair := range p.Pairs {
		sel := pick(picks, i)
		answer[strconv.Itoa(i)] = sel
		want, found := p.Answer[SentenceKey(pair, p.Answer)]
		if !found || sel != want {
			ok = false
		}
	}
	return verdict(ok, MsgIncorrectMatching, answer)
}

func gradeCategorization(_ Grader, spec question.Spec, resp response.Response) Result {
	p, _ := spec.Payload.(question.Categorization)
	picks, _ := resp.(response.Picks)
	sel := pick(picks, 0)
	return verdict(p.Correct != "" && sel == p.Correct, MsgIncorrectCategory, sel)
}

func gradeCategorizationMultiple(_ Grader, spec question.Spec, resp response.Response) Result {
	p, _ := spec.Payload.(question.CategorizationMultiple)
	picks, _ := resp.(response.Picks)

	answer := make(map[string]string, len(p.Items))
	ok := len(p.Items) > 0
	for i, item := range p.Items {
		sel := pick(picks, i)
		key := item.Identity()
		if key == "" {
			ok = false
			continue
		}
		answer[key] = sel
		want, found := p.Answer[key]
		if !found || sel != want {
			ok = false
		}
	}
	return verdict(ok, MsgOneOrMore, answer)
}

func gradeFillBlanksDropdown(_ Grader, spec question.Spec, resp response.Response) Result {
	p, _ := spec.Payload.(question.FillBlanksDropdown)
	picks, _ := resp.(response.Picks)

	ok := len(p.Answers) > 0
	for i := range max(len(picks.Values), len(p.Answers)) {
		if i >= len(picks.Values) || i >= len(p.Answers) || picks.Values[i] != p.Answers[i] {
			ok = false
		}
	}
	return verdict(ok, MsgBlanksIncorrect, append([]string(nil), picks.Values...))
}

func gradeMatchPhrases(_ Grader, spec question.Spec, resp response.Response) Result {
	p, _ := spec.Payload.(question.MatchPhrases)
	picks, _ := resp.(response.Picks)

	answer := make(map[string]string, len(p.Pairs))
	ok := len(p.Pairs) > 0
	for i, pair := range p.Pairs {
		sel := pick(picks, i)
		answer[pair.Source] = sel
		want, found := p.Answer[pair.Source]
		if !found || sel != want {
			ok = false
		}
	}
	return verdict(ok, MsgIncorrectMatching, answer)
}
