package search

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/AnyUserName/imgbudget/internal/encoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sizedEncoder produces sizeAt(q) bytes filled with q, recording each call.
type sizedEncoder struct {
	sizeAt func(q int) int
	calls  []int
	failAt int
}

func (e *sizedEncoder) Format() encoder.Codec { return encoder.WebP }
func (e *sizedEncoder) Extension() string     { return "webp" }
func (e *sizedEncoder) Available() bool       { return true }

func (e *sizedEncoder) Encode(_ context.Context, _ image.Image, q int) ([]byte, error) {
	e.calls = append(e.calls, q)
	if e.failAt != 0 && q == e.failAt {
		return nil, errors.New("codec rejected buffer")
	}
	data := make([]byte, e.sizeAt(q))
	for i := range data {
		data[i] = byte(q)
	}
	return data, nil
}

// linear returns an encoder whose output is 1000 bytes per quality point.
func linear() *sizedEncoder {
	return &sizedEncoder{sizeAt: func(q int) int { return q * 1000 }}
}

var img = image.NewNRGBA(image.Rect(0, 0, 1, 1))

func TestSearch_EarlyExit(t *testing.T) {
	enc := linear()
	res, err := Search(context.Background(), enc, img, Params{
		InitialQuality: 80, MinQuality: 10, Step: 5, TargetSize: 1 << 20,
	})
	require.NoError(t, err)

	assert.Equal(t, 80, res.Quality)
	assert.True(t, res.MetBudget)
	assert.Equal(t, []int{80}, enc.calls)
	assert.Equal(t, int64(80000), res.Size())
}

func TestSearch_FirstFitWins(t *testing.T) {
	enc := linear()
	res, err := Search(context.Background(), enc, img, Params{
		InitialQuality: 80, MinQuality: 10, Step: 5, TargetSize: 62000,
	})
	require.NoError(t, err)

	assert.Equal(t, 60, res.Quality)
	assert.True(t, res.MetBudget)
	assert.Equal(t, []int{80, 75, 70, 65, 60}, enc.calls)
	assert.Len(t, res.Attempts, 5)
	assert.Equal(t, Attempt{Quality: 60, Size: 60000}, res.Attempts[4])
}

func TestSearch_BudgetEqualsSize(t *testing.T) {
	res, err := Search(context.Background(), linear(), img, Params{
		InitialQuality: 50, MinQuality: 10, Step: 10, TargetSize: 50000,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, res.Quality)
	assert.True(t, res.MetBudget)
}

func TestSearch_ExhaustsToFloor(t *testing.T) {
	enc := linear()
	res, err := Search(context.Background(), enc, img, Params{
		InitialQuality: 80, MinQuality: 10, Step: 5, TargetSize: 1,
	})
	require.NoError(t, err)

	assert.False(t, res.MetBudget)
	assert.Equal(t, 10, res.Quality)
	assert.Len(t, enc.calls, 15)
	assert.Equal(t, byte(10), res.Data[0], "returns the min-quality encoding")
}

func TestSearch_UnevenStepReturnsLastAttempted(t *testing.T) {
	enc := linear()
	res, err := Search(context.Background(), enc, img, Params{
		InitialQuality: 83, MinQuality: 10, Step: 5, TargetSize: 1,
	})
	require.NoError(t, err)

	assert.False(t, res.MetBudget)
	assert.Equal(t, 13, res.Quality)
	assert.Equal(t, 13, enc.calls[len(enc.calls)-1])
}

func TestSearch_NonMonotonicSizes(t *testing.T) {
	// Quality 70 happens to be larger than 75; the scan still stops at
	// the first level that fits.
	sizes := map[int]int{80: 900, 75: 500, 70: 950, 65: 400}
	enc := &sizedEncoder{sizeAt: func(q int) int { return sizes[q] }}

	res, err := Search(context.Background(), enc, img, Params{
		InitialQuality: 80, MinQuality: 65, Step: 5, TargetSize: 600,
	})
	require.NoError(t, err)
	assert.Equal(t, 75, res.Quality)
	assert.Equal(t, []int{80, 75}, enc.calls)
}

func TestSearch_AttemptBound(t *testing.T) {
	for _, p := range []Params{
		{InitialQuality: 80, MinQuality: 10, Step: 5},
		{InitialQuality: 100, MinQuality: 1, Step: 7},
		{InitialQuality: 10, MinQuality: 10, Step: 5},
		{InitialQuality: 55, MinQuality: 20, Step: 50},
	} {
		p.TargetSize = 1
		enc := linear()
		res, err := Search(context.Background(), enc, img, p)
		require.NoError(t, err)

		assert.Equal(t, MaxAttempts(p), len(enc.calls), "%+v", p)
		assert.GreaterOrEqual(t, res.Quality, p.MinQuality, "%+v", p)
	}
}

func TestMaxAttempts(t *testing.T) {
	assert.Equal(t, 15, MaxAttempts(Params{InitialQuality: 80, MinQuality: 10, Step: 5}))
	assert.Equal(t, 1, MaxAttempts(Params{InitialQuality: 10, MinQuality: 10, Step: 5}))
	assert.Equal(t, 0, MaxAttempts(Params{InitialQuality: 5, MinQuality: 10, Step: 5}))
	assert.Equal(t, 0, MaxAttempts(Params{InitialQuality: 80, MinQuality: 10, Step: 0}))
}

func TestSearch_EmptyRange(t *testing.T) {
	enc := linear()
	_, err := Search(context.Background(), enc, img, Params{
		InitialQuality: 80, MinQuality: 90, Step: 5, TargetSize: 1,
	})
	assert.ErrorIs(t, err, ErrEmptyRange)
	assert.Empty(t, enc.calls)
}

func TestSearch_EncodeError(t *testing.T) {
	enc := linear()
	enc.failAt = 70
	_, err := Search(context.Background(), enc, img, Params{
		InitialQuality: 80, MinQuality: 10, Step: 5, TargetSize: 1,
	})

	var ee *encoder.EncodeError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 70, ee.Quality)
	assert.Equal(t, encoder.WebP, ee.Codec)
}

func TestSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	enc := linear()
	_, err := Search(ctx, enc, img, Params{
		InitialQuality: 80, MinQuality: 10, Step: 5, TargetSize: 1,
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, enc.calls)
}
