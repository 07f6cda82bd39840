// Package search finds the highest encoder quality whose output fits a
// byte budget.
//
// The scan is linear from the starting quality downwards in fixed steps.
// Codec size curves are not reliably monotonic, so bisection could skip
// a qualifying level; a linear scan keeps the number of encodes bounded
// by MaxAttempts and the chosen level predictable.
package search

import (
	"context"
	"errors"
	"image"

	"github.com/AnyUserName/imgbudget/internal/encoder"
)

// ErrEmptyRange is returned when the starting quality is already below
// the floor, so there is nothing to try.
var ErrEmptyRange = errors.New("initial quality below minimum quality")

// Params bounds one quality search.
type Params struct {
	InitialQuality int
	MinQuality     int
	Step           int
	TargetSize     int64 // bytes
}

// Attempt is one encode performed during a search.
type Attempt struct {
	Quality int   `json:"quality"`
	Size    int64 `json:"size"`
}

// Result is the chosen encoding.
type Result struct {
	Data      []byte
	Quality   int
	MetBudget bool
	Attempts  []Attempt
}

// Size returns the length of the chosen encoding in bytes.
func (r Result) Size() int64 { return int64(len(r.Data)) }

// MaxAttempts returns the most encodes a search with p can perform.
func MaxAttempts(p Params) int {
	if p.Step <= 0 || p.InitialQuality < p.MinQuality {
		return 0
	}
	return (p.InitialQuality-p.MinQuality)/p.Step + 1
}

// Search encodes img at InitialQuality, InitialQuality-Step, ... while the
// quality stays at or above MinQuality, and returns the first encoding no
// larger than TargetSize. When none fits, the last attempted encoding is
// returned with MetBudget false; its quality is the lowest level reached by
// stepping, which equals MinQuality only when the range divides evenly.
func Search(ctx context.Context, enc encoder.Encoder, img image.Image, p Params) (Result, error) {
	if p.Step <= 0 {
		return Result{}, errors.New("quality step must be positive")
	}
	if p.InitialQuality < p.MinQuality {
		return Result{}, ErrEmptyRange
	}

	var res Result
	res.Attempts = make([]Attempt, 0, MaxAttempts(p))

	for q := p.InitialQuality; q >= p.MinQuality; q -= p.Step {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		data, err := enc.Encode(ctx, img, q)
		if err != nil {
			return Result{}, &encoder.EncodeError{Codec: enc.Format(), Quality: q, Err: err}
		}

		res.Data = data
		res.Quality = q
		res.Attempts = append(res.Attempts, Attempt{Quality: q, Size: int64(len(data))})

		if int64(len(data)) <= p.TargetSize {
			res.MetBudget = true
			return res, nil
		}
	}

	return res, nil
}
