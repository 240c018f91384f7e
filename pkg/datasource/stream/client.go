package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/utility"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

const (
	clientComponentName = "datasource.stream.client"

	handshakeTimeout = 10 * time.Second
	barQueueCapacity = 256
)

// klineFrame is the wire shape of one candle update. Closed marks the end
// of the interval; only closed frames become bars.
type klineFrame struct {
	Symbol   string  `json:"symbol"`
	Start    int64   `json:"start"`
	PeriodMs int64   `json:"period_ms"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   float64 `json:"volume"`
	Closed   bool    `json:"closed"`
}

type subscribeRequest struct {
	Op     string `json:"op"`
	Symbol string `json:"symbol"`
}

// Client consumes a websocket candle feed and republishes closed candles
// on a bounded channel. Partial updates are dropped so downstream sees the
// same bar sequence a backtest would.
type Client struct {
	logger *zap.Logger
	url    string
	symbol string

	conn *websocket.Conn

	ctx       context.Context
	ctxCancel context.CancelFunc

	bars chan common.Bar
}

func NewClient(logger *zap.Logger, url, symbol string) *Client {
	return &Client{
		logger: logger,
		url:    url,
		symbol: symbol,
		bars:   make(chan common.Bar, barQueueCapacity),
	}
}

func (c *Client) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("unable to dial %q: %w", c.url, err)
	}
	c.conn = conn
	c.ctx, c.ctxCancel = context.WithCancel(ctx)

	if err := c.subscribe(); err != nil {
		_ = c.conn.Close()
		return err
	}

	go c.read()
	return nil
}

func (c *Client) Close() {
	if c.ctxCancel != nil {
		c.ctxCancel()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Bars is the closed-candle feed. The channel is closed when the
// connection drops or the context is cancelled.
func (c *Client) Bars() <-chan common.Bar {
	return c.bars
}

func (c *Client) subscribe() error {
	req := subscribeRequest{Op: "subscribe", Symbol: c.symbol}
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("unable to subscribe to %q: %w", c.symbol, err)
	}
	return nil
}

func (c *Client) read() {
	defer close(c.bars)

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					c.logger.Warn("cannot read frame", zap.Error(err))
					return
				}
				c.logger.Debug("websocket closed", zap.Error(err))
				return
			}

			var frame klineFrame
			if err := json.Unmarshal(message, &frame); err != nil {
				c.logger.Warn("unmarshal failed", zap.ByteString("raw", message), zap.Error(err))
				continue
			}

			if !frame.Closed {
				continue
			}

			select {
			case c.bars <- c.toModelBar(frame):
			default:
				c.logger.Warn("bar queue full, dropping", zap.Int64("start", frame.Start))
			}
		}
	}
}

func (c *Client) toModelBar(frame klineFrame) common.Bar {
	return common.Bar{
		Source:      clientComponentName,
		Symbol:      c.symbol,
		ExecutionID: utility.GetExecutionID(),
		TraceID:     utility.CreateTraceID(),
		Start:       frame.Start,
		Period:      time.Duration(frame.PeriodMs) * time.Millisecond,
		Open:        fixed.FromFloat64(frame.Open),
		High:        fixed.FromFloat64(frame.High),
		Low:         fixed.FromFloat64(frame.Low),
		Close:       fixed.FromFloat64(frame.Close),
		Volume:      fixed.FromFloat64(frame.Volume),
	}
}
