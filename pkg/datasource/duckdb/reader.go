package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/utility"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

const barReaderComponentName = "datasource.duckdb.reader"

// Reader streams candles out of a duckdb file. Bars for a symbol live in a
// <symbol>_candles table with millisecond start timestamps.
type Reader struct {
	dataSourceName string
	db             *sql.DB
}

func NewReader(dataSourceName string) *Reader {
	return &Reader{
		dataSourceName: dataSourceName,
	}
}

func (r *Reader) Connect() error {
	db, err := sql.Open("duckdb", r.dataSourceName)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	r.db = db
	return nil
}

func (r *Reader) Close() {
	_ = r.db.Close()
}

func (r *Reader) LoadBars(ctx context.Context, symbol string, period time.Duration, from, to time.Time, handler func(bar common.Bar) error) error {

	query := fmt.Sprintf(`SELECT start, open, high, low, close, volume FROM %s_candles WHERE start BETWEEN ? AND ? ORDER BY start`, symbol)

	rows, err := r.db.QueryContext(ctx, query, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return fmt.Errorf("error preparing query: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			panic(err)
		}
	}(rows)

	for rows.Next() {
		var start int64
		var open, high, low, closePrice, volume float64

		if err := rows.Scan(&start, &open, &high, &low, &closePrice, &volume); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}

		bar := common.Bar{
			Source:      barReaderComponentName,
			Symbol:      symbol,
			ExecutionID: utility.GetExecutionID(),
			TraceID:     utility.CreateTraceID(),
			Start:       start,
			Period:      period,
			Open:        fixed.FromFloat64(open),
			High:        fixed.FromFloat64(high),
			Low:         fixed.FromFloat64(low),
			Close:       fixed.FromFloat64(closePrice),
			Volume:      fixed.FromFloat64(volume),
		}

		if err := handler(bar); err != nil {
			return fmt.Errorf("error processing bar: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error scanning rows: %w", err)
	}

	return nil
}
