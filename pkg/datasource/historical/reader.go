package historical

import (
	"errors"
	"fmt"
	"time"

	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/utility"
)

const (
	invalidIndex           = -1
	barReaderComponentName = "datasource.historical.reader"
)

var ErrEof = errors.New("EOF")

// BarReader iterates the records of a Source that fall inside a
// [from, to] window, binary-searching the first index on demand.
type BarReader struct {
	source *Source

	symbol string
	period time.Duration
	from   int64
	to     int64
	idx    int64
}

func NewBarReader(source *Source, symbol string, period time.Duration, from, to time.Time) *BarReader {
	return &BarReader{
		source: source,
		symbol: symbol,
		period: period,
		from:   from.UnixMilli(),
		to:     to.UnixMilli(),
		idx:    invalidIndex,
	}
}

func (r *BarReader) GetNext() (common.Bar, error) {

	var bar common.Bar
	var binBar BinaryBar

	if r.idx == invalidIndex {
		if err := r.lookupStartIndex(); err != nil {
			return bar, err
		}
	}

	if err := r.source.Read(r.idx, &binBar); err != nil {
		if errors.Is(err, ErrEof) {
			return bar, ErrEof
		}
		return bar, fmt.Errorf("error reading entry at index %d: %w", r.idx, err)
	}
	r.idx++

	if binBar.Start < r.from {
		return bar, fmt.Errorf("start timestamp is not from the proposed range")
	}

	if binBar.Start > r.to {
		return bar, ErrEof
	}

	binBar.ToModelBar(&bar, r.period)

	bar.Source = barReaderComponentName
	bar.Symbol = r.symbol
	bar.ExecutionID = utility.GetExecutionID()
	bar.TraceID = utility.CreateTraceID()

	return bar, nil
}

// ReadAll drains the window into a slice for the simulation runner.
func (r *BarReader) ReadAll() ([]common.Bar, error) {
	var bars []common.Bar
	for {
		bar, err := r.GetNext()
		if errors.Is(err, ErrEof) {
			return bars, nil
		}
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
}

func (r *BarReader) lookupStartIndex() error {
	entryCount, err := r.source.EntryCount()
	if err != nil {
		return fmt.Errorf("error getting entry count: %w", err)
	}

	if entryCount == 0 {
		return fmt.Errorf("entry count is zero")
	}

	var entry BinaryBar

	low := int64(0)
	high := entryCount - 1

	for low <= high {
		mid := (low + high) / 2

		if err := r.source.Read(mid, &entry); err != nil {
			return fmt.Errorf("error reading entry at index %d: %w", mid, err)
		}

		if entry.Start < r.from {
			low = mid + 1
		} else {
			high = mid - 1
		}
	}

	if low >= entryCount {
		return fmt.Errorf("no entry found with start >= from")
	}

	r.idx = low
	return nil
}
