package synthetic_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantarc/perpsim/pkg/datasource/synthetic"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

func newTestGenerator(seed int64, bars int64) *synthetic.BarGenerator {
	return synthetic.NewBarGenerator(
		"BTCUSDT",
		rand.New(rand.NewSource(seed)),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		fixed.FromInt64(50_000, 0),
		fixed.FromFloat64(0.0001),
		fixed.FromFloat64(0.01),
		fixed.One,
		bars)
}

func TestBarGenerator_Deterministic(t *testing.T) {
	first, err := newTestGenerator(42, 50).GenerateAll()
	require.NoError(t, err)
	second, err := newTestGenerator(42, 50).GenerateAll()
	require.NoError(t, err)

	require.Len(t, first, 50)
	require.Len(t, second, 50)
	for i := range first {
		assert.True(t, first[i].Open.Eq(second[i].Open), "bar %d open", i)
		assert.True(t, first[i].Close.Eq(second[i].Close), "bar %d close", i)
		assert.Equal(t, first[i].Start, second[i].Start, "bar %d start", i)
	}
}

func TestBarGenerator_BarShape(t *testing.T) {
	bars, err := newTestGenerator(7, 20).GenerateAll()
	require.NoError(t, err)
	require.Len(t, bars, 20)

	for i, bar := range bars {
		assert.True(t, bar.High.Gte(bar.Open), "bar %d high < open", i)
		assert.True(t, bar.High.Gte(bar.Close), "bar %d high < close", i)
		assert.True(t, bar.Low.Lte(bar.Open), "bar %d low > open", i)
		assert.True(t, bar.Low.Lte(bar.Close), "bar %d low > close", i)
		assert.True(t, bar.Volume.IsPos(), "bar %d volume", i)
	}
}

func TestBarGenerator_ContinuousOpens(t *testing.T) {
	bars, err := newTestGenerator(3, 10).GenerateAll()
	require.NoError(t, err)

	for i := 1; i < len(bars); i++ {
		assert.True(t, bars[i].Open.Eq(bars[i-1].Close), "bar %d open != previous close", i)
		assert.Equal(t, bars[i-1].Start+time.Minute.Milliseconds(), bars[i].Start)
	}
}

func TestBarGenerator_Eof(t *testing.T) {
	g := newTestGenerator(1, 2)

	_, err := g.GetNext()
	require.NoError(t, err)
	_, err = g.GetNext()
	require.NoError(t, err)

	_, err = g.GetNext()
	assert.True(t, errors.Is(err, synthetic.ErrEof))
}
