package historical

import (
	"time"

	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

// BinaryBar is the on-disk candle record. Files are flat little-endian
// arrays of these, sorted ascending on Start.
type BinaryBar struct {
	Start  int64
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

func (b BinaryBar) ToModelBar(bar *common.Bar, period time.Duration) {
	bar.Start = b.Start
	bar.Period = period
	bar.Open = fixed.FromFloat64(b.Open)
	bar.High = fixed.FromFloat64(b.High)
	bar.Low = fixed.FromFloat64(b.Low)
	bar.Close = fixed.FromFloat64(b.Close)
	bar.Volume = fixed.FromFloat64(b.Volume)
}
