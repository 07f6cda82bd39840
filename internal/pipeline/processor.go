package pipeline

import (
	"context"

	"github.com/AnyUserName/imgbudget/internal/decoder"
	"github.com/AnyUserName/imgbudget/internal/encoder"
	"github.com/AnyUserName/imgbudget/internal/profile"
	"github.com/AnyUserName/imgbudget/internal/resize"
	"github.com/AnyUserName/imgbudget/internal/search"
)

// processItem handles a single item: decode, normalise, resize, search.
// The decoded buffer goes out of scope when the search returns, so only
// the encoded bytes outlive this call.
func processItem(ctx context.Context, item Item, prof profile.Profile, enc encoder.Encoder) Result {
	result := Result{
		Source:    item.Name,
		InputSize: int64(len(item.Data)),
	}

	img, err := decoder.Decode(item.Name, item.Data)
	if err != nil {
		result.Err = err
		return result
	}

	img = resize.ToFit(img, prof.MaxWidth, prof.MaxHeight)
	bounds := img.Bounds()

	found, err := search.Search(ctx, enc, img, search.Params{
		InitialQuality: prof.InitialQuality,
		MinQuality:     prof.MinQuality,
		Step:           prof.QualityStep,
		TargetSize:     prof.TargetSize,
	})
	if err != nil {
		result.Err = err
		return result
	}

	result.Output = prof.OutputName(item.Name)
	result.Data = found.Data
	result.Width = bounds.Dx()
	result.Height = bounds.Dy()
	result.Quality = found.Quality
	result.Size = found.Size()
	result.MetBudget = found.MetBudget
	result.Attempts = found.Attempts
	return result
}
