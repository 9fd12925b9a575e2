// Package activity picks the busy labels shown beside the spinner while a
// request is in flight. The label starts as the plain name of the work and
// rotates through lighter phrases when the request takes a while.
package activity

import (
	"math/rand"
	"time"
)

// Kind is the kind of work the backend is doing.
type Kind int

const (
	Thinking Kind = iota
	Searching
	Summarizing
	Transcribing
)

// RotateEvery is how long a label stays before the next phrase.
const RotateEvery = 4 * time.Second

var labels = map[Kind]string{
	Thinking:     "thinking",
	Searching:    "searching the web",
	Summarizing:  "summarizing",
	Transcribing: "transcribing",
}

// phrases are rotated every RotateEvery. Keep them short enough for the
// status line.
var phrases = map[Kind][]string{
	Thinking: {
		"Reading your question…",
		"Checking your calendar…",
		"Looking through the conversation…",
		"Weighing a few options…",
		"Thinking harder than strictly necessary…",
		"Almost there… probably…",
		"Letting the thoughts marinate…",
		"Consulting your schedule…",
		"Finding something you might like…",
	},
	Searching: {
		"Searching the web…",
		"Skimming the results…",
		"Following a few links…",
		"Cross-checking sources…",
		"Filtering noise…",
	},
	Summarizing: {
		"Reading the document…",
		"Picking out the key points…",
		"Trimming the details…",
		"Condensing…",
	},
	Transcribing: {
		"Listening…",
		"Transcribing the recording…",
		"Working out what was said…",
		"Turning speech into text…",
	},
}

// Label is the plain label for k.
func Label(k Kind) string {
	if l, ok := labels[k]; ok {
		return l
	}
	return labels[Thinking]
}

// Phrases returns the rotation pool for k.
func Phrases(k Kind) []string { return phrases[k] }

// Rotator tracks the label of one busy period.
type Rotator struct {
	kind  Kind
	label string
	last  int
	shown time.Time
	rnd   *rand.Rand
}

// New starts a busy period of kind k at now.
func New(k Kind, now time.Time) Rotator {
	return Rotator{
		kind:  k,
		label: Label(k),
		last:  -1,
		shown: now,
		rnd:   rand.New(rand.NewSource(now.UnixNano())),
	}
}

// Kind returns the kind of work.
func (r Rotator) Kind() Kind { return r.kind }

// Label returns the current label.
func (r Rotator) Label() string { return r.label }

// Next switches to a new phrase once the current label has been shown for
// RotateEvery. It reports whether the label changed.
func (r *Rotator) Next(now time.Time) (string, bool) {
	pool := phrases[r.kind]
	if len(pool) == 0 || r.rnd == nil || now.Sub(r.shown) < RotateEvery {
		return r.label, false
	}
	idx := r.rnd.Intn(len(pool))
	// Avoid an immediate repeat.
	if idx == r.last && len(pool) > 1 {
		idx = (idx + 1) % len(pool)
	}
	r.last = idx
	r.label = pool[idx]
	r.shown = now
	return r.label, true
}
