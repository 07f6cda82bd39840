package pipeline

import (
	"time"

	"github.com/AnyUserName/imgbudget/internal/profile"
	"github.com/AnyUserName/imgbudget/internal/search"
)

// Item is one input image. Data is never modified by the pipeline.
type Item struct {
	// Name identifies the item, usually a slash-separated relative path.
	Name string
	Data []byte
}

// Result is the outcome for one Item: a conversion when Err is nil,
// otherwise a failure. Failed results carry no output bytes.
type Result struct {
	Source    string
	InputSize int64

	Output    string
	Data      []byte
	Width     int
	Height    int
	Quality   int
	Size      int64
	MetBudget bool
	Attempts  []search.Attempt

	Err error
}

// OK reports whether the item converted.
func (r Result) OK() bool { return r.Err == nil }

// Report holds one Result per input item, in input order.
type Report struct {
	Profile profile.Profile
	Results []Result
	Workers int
	Elapsed time.Duration
}

// Succeeded returns the number of converted items.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of items that could not be converted.
func (r *Report) Failed() int { return len(r.Results) - r.Succeeded() }

// OverBudget returns the number of converted items whose output is
// larger than the target size.
func (r *Report) OverBudget() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() && !res.MetBudget {
			n++
		}
	}
	return n
}
