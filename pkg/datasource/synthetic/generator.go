package synthetic

import (
	"errors"
	"math/rand"
	"time"

	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/utility"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

const (
	barGeneratorComponentName = "datasource.synthetic.generator"

	// Intra-bar GBM samples per candle. Open is the previous close, the
	// last sample is the new close, high/low bracket everything between.
	subSteps = 4
)

var (
	pointFive = fixed.FromInt64(5, 1)

	ErrEof = errors.New("EOF")
)

// BarGenerator produces a deterministic geometric-brownian candle sequence
// from a caller-supplied rng. The same seed yields the same bars.
type BarGenerator struct {
	symbol string
	rng    *rand.Rand

	startTime time.Time
	period    time.Duration
	mu        fixed.Point
	sigma     fixed.Point
	bars      int64
	t         int64

	avgVolume      fixed.Point
	volumeVariance float64

	deltaLogPre1 fixed.Point
	deltaLogPre2 fixed.Point

	lastPrice fixed.Point

	normPriceDigits  int
	normVolumeDigits int
}

func NewBarGenerator(
	symbol string,
	rng *rand.Rand,
	startTime time.Time,
	startPrice, mu, sigma, deltaT fixed.Point,
	bars int64) *BarGenerator {

	subDeltaT := deltaT.DivInt64(subSteps)

	return &BarGenerator{
		symbol: symbol,
		rng:    rng,

		startTime: startTime,
		period:    time.Minute,
		mu:        mu,
		sigma:     sigma,
		bars:      bars,

		avgVolume:      fixed.FromInt64(100, 0),
		volumeVariance: 0.5,

		deltaLogPre1: mu.Sub(sigma.Mul(sigma).Mul(pointFive)).Mul(subDeltaT),
		deltaLogPre2: sigma.Mul(subDeltaT.Sqrt()),

		lastPrice: startPrice,

		normPriceDigits:  2,
		normVolumeDigits: 0,
	}
}

func (g *BarGenerator) SetPeriod(period time.Duration) {
	g.period = period
}

func (g *BarGenerator) SetVolumeParameters(avgVolume fixed.Point, variance float64) {
	g.avgVolume = avgVolume
	g.volumeVariance = variance
}

func (g *BarGenerator) SetPriceDigits(digits int) {
	g.normPriceDigits = digits
}

func (g *BarGenerator) SetVolumeDigits(digits int) {
	g.normVolumeDigits = digits
}

func (g *BarGenerator) GetNext() (common.Bar, error) {
	var bar common.Bar

	if g.t >= g.bars {
		return bar, ErrEof
	}

	open := g.lastPrice
	high := open
	low := open

	price := open
	for i := 0; i < subSteps; i++ {
		price = g.step(price)
		if price.Gt(high) {
			high = price
		}
		if price.Lt(low) {
			low = price
		}
	}
	g.lastPrice = price

	bar.Start = g.startTime.Add(time.Duration(g.t) * g.period).UnixMilli()
	bar.Period = g.period
	bar.Open = open.Rescale(g.normPriceDigits)
	bar.High = high.Rescale(g.normPriceDigits)
	bar.Low = low.Rescale(g.normPriceDigits)
	bar.Close = price.Rescale(g.normPriceDigits)
	bar.Volume = g.generateVolume().Rescale(g.normVolumeDigits)

	bar.Source = barGeneratorComponentName
	bar.Symbol = g.symbol
	bar.ExecutionID = utility.GetExecutionID()
	bar.TraceID = utility.CreateTraceID()

	g.t++
	return bar, nil
}

// GenerateAll drains the generator into a slice, which is what the
// simulation runner consumes.
func (g *BarGenerator) GenerateAll() ([]common.Bar, error) {
	bars := make([]common.Bar, 0, g.bars-g.t)
	for {
		bar, err := g.GetNext()
		if errors.Is(err, ErrEof) {
			return bars, nil
		}
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
}

func (g *BarGenerator) step(price fixed.Point) fixed.Point {
	z := g.rng.NormFloat64()
	deltaLog := g.deltaLogPre1.Add(g.deltaLogPre2.Mul(fixed.FromFloat64(z)))
	return price.Mul(deltaLog.Exp())
}

func (g *BarGenerator) generateVolume() fixed.Point {
	variation := g.rng.NormFloat64() * g.volumeVariance
	volume := g.avgVolume.Mul(fixed.FromFloat64(1.0 + variation))

	if volume.Lte(fixed.Zero) {
		return fixed.One
	}
	return volume
}
