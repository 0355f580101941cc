package grading

import (
	"strings"

	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/response"
)

// gradeWordFill pairs entries with expected answers positionally. Surrounding
// whitespace and letter case are ignored; diacritics are not.
func gradeWordFill(_ Grader, spec question.Spec, resp response.Response) Result {
	p, _ := spec.Payload.(question.WordFill)
	t, _ := resp.(response.Texts)

	entered := make([]string, len(t.Values))
	for i, v := range t.Values {
		entered[i] = strings.TrimSpace(v)
	}

	ok := len(p.Answers) > 0
	for i := range max(len(entered), len(p.Answers)) {
		if i >= len(entered) || i >= len(p.Answers) {
			ok = false
			break
		}
		if !strings.EqualFold(entered[i], strings.TrimSpace(p.Answers[i])) {
			ok = false
		}
	}
	return verdict(ok, MsgSomeIncorrect, entered)
}
