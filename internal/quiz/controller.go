// Package quiz implements the quiz session state machine: it sequences a
// question set, grades submissions, keeps the score and the answers used to
// resume, and owns the image tagging alternative cursors and tag positions.
package quiz

import (
	"maps"
	"strconv"
	"strings"

	"github.com/Emily9121/WifeyMOOC/internal/grading"
	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/response"
	"github.com/Emily9121/WifeyMOOC/internal/tagging"
)

// State is the controller's lifecycle state.
type State int

const (
	StateEmpty      State = iota // No question set loaded
	StateInProgress              // Current index within bounds
	StateCompleted               // Current index past the last question
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in progress"
	case StateCompleted:
		return "completed"
	default:
		return "empty"
	}
}

// Key returns the session key of the question at index i.
func Key(i int) string {
	return strconv.Itoa(i)
}

// Controller is the quiz session. It is not safe for concurrent use; the UI
// drives it from a single event loop.
type Controller struct {
	ref       string
	baseDir   string
	questions []question.Spec
	current   int
	score     int
	answers   map[string]any

	alts   map[string]int
	tags   *tagging.PositionStore
	grader grading.Grader
}

// New returns an empty controller grading with the default grader.
func New() *Controller {
	return NewWithGrader(grading.Default())
}

// NewWithGrader returns an empty controller using g.
func NewWithGrader(g grading.Grader) *Controller {
	return &Controller{
		answers: make(map[string]any),
		alts:    make(map[string]int),
		tags:    tagging.NewPositionStore(),
		grader:  g,
	}
}

// LoadQuestions starts a new session over qs. ref identifies the question
// set for snapshots and baseDir resolves its media. An empty list is
// rejected and leaves the controller as it was.
func (c *Controller) LoadQuestions(ref, baseDir string, qs []question.Spec) error {
	if len(qs) == 0 {
		return ErrNoQuestions
	}
	c.ref = ref
	c.baseDir = baseDir
	c.questions = qs
	c.current = 0
	c.score = 0
	c.answers = make(map[string]any)
	c.alts = make(map[string]int)
	c.tags = tagging.NewPositionStore()
	return nil
}

// State reports the lifecycle state.
func (c *Controller) State() State {
	switch {
	case len(c.questions) == 0:
		return StateEmpty
	case c.current >= len(c.questions):
		return StateCompleted
	default:
		return StateInProgress
	}
}

func (c *Controller) Ref() string                { return c.ref }
func (c *Controller) BaseDir() string            { return c.baseDir }
func (c *Controller) Index() int                 { return c.current }
func (c *Controller) Len() int                   { return len(c.questions) }
func (c *Controller) Score() int                 { return c.score }
func (c *Controller) Questions() []question.Spec { return c.questions }

// Scorable returns the number of score units in the set: one per question,
// with blocks counting each nested question instead of themselves.
func (c *Controller) Scorable() int {
	n := 0
	for _, q := range c.questions {
		if m, ok := q.Payload.(question.MultiQuestions); ok {
			n += len(m.Questions)
			continue
		}
		n++
	}
	return n
}

// Answers returns a copy of the recorded answers.
func (c *Controller) Answers() map[string]any {
	return maps.Clone(c.answers)
}

// Answer returns the answer recorded under key.
func (c *Controller) Answer(key string) (any, bool) {
	a, ok := c.answers[key]
	return a, ok
}

// Current returns the active question.
func (c *Controller) Current() (question.Spec, error) {
	if err := c.requireInProgress(); err != nil {
		return question.Spec{}, err
	}
	return c.questions[c.current], nil
}

func (c *Controller) requireInProgress() error {
	switch c.State() {
	case StateEmpty:
		return ErrEmpty
	case StateCompleted:
		return ErrCompleted
	}
	return nil
}

// Alternative returns the active image variant for a question key.
func (c *Controller) Alternative(key string) int {
	return c.alts[key]
}

// TagPosition returns the stored position of a tag on one variant.
func (c *Controller) TagPosition(key string, alt int, tagID string) (question.Point, bool) {
	return c.tags.Get(tagging.VariantKey(key, alt), tagID)
}

// NewCollector builds the response collector for the active question,
// seeded from the recorded answer and stored tag positions. Tag moves are
// written through to the controller's position store as they happen.
func (c *Controller) NewCollector() (response.Collector, error) {
	spec, err := c.Current()
	if err != nil {
		return nil, err
	}
	key := Key(c.current)
	col := response.New(spec, response.Options{
		Key:         key,
		Alternative: c.Alternative,
		Placement: func(k string, alt int, tags []question.Tag) map[string]question.Point {
			return c.tags.InitialPlacement(tagging.VariantKey(k, alt), tags)
		},
		Prior: c.Answer,
	})
	c.watchTags(col, key)
	return col, nil
}

func (c *Controller) watchTags(col response.Collector, key string) {
	switch col := col.(type) {
	case *response.TagCollector:
		col.OnChange(func(r response.Response) {
			pl, ok := r.(response.Placement)
			if !ok {
				return
			}
			vk := tagging.VariantKey(key, pl.Alternative)
			for id, p := range pl.Positions {
				c.tags.Set(vk, id, p)
			}
		})
	case *response.CompositeCollector:
		for i, part := range col.Parts() {
			c.watchTags(part, response.PartKey(key, i))
		}
	}
}

// Attempt is one graded, scorable submission.
type Attempt struct {
	Key        string
	Kind       question.Kind
	Correct    bool
	UserAnswer any
	Message    string
}

// Outcome reports the effect of a submission.
type Outcome struct {
	Key    string
	Result grading.Result

	// Awarded is the number of score points this submission added.
	Awarded int

	// Attempts lists the graded score units, one per question or one per
	// nested question of a block. Incomplete units are omitted.
	Attempts []Attempt
}

// Submit grades resp against the active question. A correct answer is
// recorded under its key and awards a point only the first time that key
// is answered correctly. Incomplete responses change nothing.
func (c *Controller) Submit(resp response.Response) (Outcome, error) {
	spec, err := c.Current()
	if err != nil {
		return Outcome{}, err
	}
	key := Key(c.current)
	res := c.grader.Grade(spec, resp)
	out := Outcome{Key: key, Result: res}

	if m, ok := spec.Payload.(question.MultiQuestions); ok && spec.Kind == question.KindMultiQuestions {
		for i, part := range res.Parts {
			if i >= len(m.Questions) {
				break
			}
			out.record(c, response.PartKey(key, i), m.Questions[i].Kind, part)
		}
		return out, nil
	}
	out.record(c, key, spec.Kind, res)
	return out, nil
}

func (o *Outcome) record(c *Controller, key string, kind question.Kind, res grading.Result) {
	if res.Incomplete {
		return
	}
	o.Attempts = append(o.Attempts, Attempt{
		Key:        key,
		Kind:       kind,
		Correct:    res.Correct,
		UserAnswer: res.UserAnswer,
		Message:    res.Message,
	})
	if !res.Correct {
		return
	}
	if _, seen := c.answers[key]; !seen {
		c.score++
		o.Awarded++
	}
	c.answers[key] = res.UserAnswer
}

// Advance moves to the next question and returns the resulting state.
func (c *Controller) Advance() (State, error) {
	if err := c.requireInProgress(); err != nil {
		return c.State(), err
	}
	c.current++
	return c.State(), nil
}

// Restart returns to the first question with a zero score and no answers.
// Tag positions and alternative cursors are kept.
func (c *Controller) Restart() error {
	if c.State() == StateEmpty {
		return ErrEmpty
	}
	c.current = 0
	c.score = 0
	c.answers = make(map[string]any)
	return nil
}

// CycleAlternative switches the active image tagging question to its next
// variant, wrapping after the last alternative, and returns the new index.
// A collector built before the switch still shows the old variant.
func (c *Controller) CycleAlternative() (int, error) {
	return c.CycleAlternativeAt(Key(c.current))
}

// CycleAlternativeAt is CycleAlternative for a key inside the active
// question: its own key, or the part key of an image tagging question
// nested in a block.
func (c *Controller) CycleAlternativeAt(key string) (int, error) {
	if _, err := c.Current(); err != nil {
		return 0, err
	}
	i, spec, ok := specAt(c.questions, key)
	if !ok || i != c.current {
		return 0, ErrNotImageTagging
	}
	p, ok := spec.Payload.(question.ImageTagging)
	if !ok {
		return 0, ErrNotImageTagging
	}
	next := tagging.Cycle(p, c.alts[key])
	c.alts[key] = next
	return next, nil
}

// specAt resolves a question key ("3") or a part key ("3-1") to the index
// of its top-level question and the spec the key names.
func specAt(qs []question.Spec, key string) (int, question.Spec, bool) {
	top, part, nested := strings.Cut(key, "-")
	i, err := indexOfKey(top)
	if err != nil || i >= len(qs) {
		return 0, question.Spec{}, false
	}
	if !nested {
		return i, qs[i], true
	}
	m, ok := qs[i].Payload.(question.MultiQuestions)
	if !ok {
		return 0, question.Spec{}, false
	}
	j, err := indexOfKey(part)
	if err != nil || j >= len(m.Questions) {
		return 0, question.Spec{}, false
	}
	return i, m.Questions[j], true
}
