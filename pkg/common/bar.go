package common

import (
	"time"

	"github.com/quantarc/perpsim/pkg/utility"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

// Bar is one OHLC sample. Start is the opening timestamp of the interval in
// unix milliseconds; a candle sequence is expected to be ascending and unique
// on it.
type Bar struct {
	Source      string              `json:"src,omitempty"`
	Symbol      string              `json:"symbol,omitempty"`
	ExecutionID utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	Start       int64               `json:"start"`
	Period      time.Duration       `json:"period"`
	Open        fixed.Point         `json:"open"`
	High        fixed.Point         `json:"high"`
	Low         fixed.Point         `json:"low"`
	Close       fixed.Point         `json:"close"`
	Volume      fixed.Point         `json:"volume,omitempty"`
}

func (b Bar) StartTime() time.Time {
	return time.UnixMilli(b.Start)
}
