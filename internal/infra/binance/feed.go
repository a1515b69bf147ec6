package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"order_feeder/internal/domain"
	"order_feeder/internal/infra"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

// Feed holds one book ticker subscription for a single symbol.
// Updates are pulled with Next; the caller owns the loop. There is no
// reconnect: once the stream closes, the feed is done.
type Feed struct {
	conn    *websocket.Conn
	url     string
	mu      sync.RWMutex
	writeMu sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Open dials the book ticker stream for symbol. The symbol is
// case-insensitive; the endpoint wants it lowercased in the path.
// Cancelling ctx tears the subscription down: a blocked Next unblocks
// and reports the stream as closed.
func Open(ctx context.Context, wsURL, symbol string) (*Feed, error) {
	url := fmt.Sprintf("%s/%s@bookTicker", strings.TrimSuffix(wsURL, "/"), strings.ToLower(symbol))

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, &domain.ConnError{URL: url, Err: err}
	}

	f := &Feed{conn: conn, url: url}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	connCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.wg.Add(2)
	go f.pingLoop(connCtx)
	go f.watchCancel(connCtx)

	infra.GlobalMetrics.SetFeedConnected(true)
	slog.Info("Feed connected", slog.String("url", url))
	return f, nil
}

// pingLoop keeps the connection alive through quiet stretches. The
// endpoint tolerates tens of seconds of silence but not minutes.
func (f *Feed) pingLoop(ctx context.Context) {
	defer f.wg.Done()
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A failed ping is not fatal here; the read side will
			// surface the closed stream on its next deadline.
			f.threadSafeWrite(websocket.PingMessage, nil)
		}
	}
}

// watchCancel closes the connection when the context ends (caller
// cancellation, SIGINT/SIGTERM via the caller's context, or Close).
// Closing the conn is what unblocks a pending ReadMessage.
func (f *Feed) watchCancel(ctx context.Context) {
	defer f.wg.Done()
	<-ctx.Done()
	f.closeConnection()
}

func (f *Feed) threadSafeWrite(msgType int, data []byte) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.conn == nil {
		return fmt.Errorf("no conn")
	}
	return f.conn.WriteControl(msgType, data, time.Now().Add(5*time.Second))
}

// Next blocks until the next book ticker message arrives and returns the
// decoded best bid/ask. Close, reset, a read timeout, or a cancelled ctx
// surface as domain.ErrStreamClosed; a malformed message surfaces as
// *domain.DecodeError and poisons nothing (the caller decides).
func (f *Feed) Next(ctx context.Context) (domain.PriceUpdate, error) {
	if err := ctx.Err(); err != nil {
		return domain.PriceUpdate{}, fmt.Errorf("%w: %s", domain.ErrStreamClosed, err)
	}

	f.mu.RLock()
	conn := f.conn
	f.mu.RUnlock()
	if conn == nil {
		return domain.PriceUpdate{}, domain.ErrStreamClosed
	}

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		f.closeConnection()
		return domain.PriceUpdate{}, fmt.Errorf("%w: %s", domain.ErrStreamClosed, err)
	}

	upd, err := decodeBookTicker(msg)
	if err != nil {
		infra.GlobalMetrics.RecordDecodeError()
		return domain.PriceUpdate{}, err
	}

	infra.GlobalMetrics.RecordUpdate()
	return upd, nil
}

func decodeBookTicker(msg []byte) (domain.PriceUpdate, error) {
	var tick bookTickerMsg
	if err := json.Unmarshal(msg, &tick); err != nil {
		return domain.PriceUpdate{}, domain.NewDecodeError("payload", err)
	}
	if tick.BestBid == "" {
		return domain.PriceUpdate{}, domain.NewDecodeError("b", domain.ErrMissingField)
	}
	if tick.BestAsk == "" {
		return domain.PriceUpdate{}, domain.NewDecodeError("a", domain.ErrMissingField)
	}

	bid, err := decimal.NewFromString(tick.BestBid)
	if err != nil {
		return domain.PriceUpdate{}, domain.NewDecodeError("b", err)
	}
	ask, err := decimal.NewFromString(tick.BestAsk)
	if err != nil {
		return domain.PriceUpdate{}, domain.NewDecodeError("a", err)
	}

	return domain.PriceUpdate{BestBid: bid, BestAsk: ask}, nil
}

func (f *Feed) closeConnection() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
		infra.GlobalMetrics.SetFeedConnected(false)
		slog.Debug("Feed disconnected", slog.String("url", f.url))
	}
}

// Close releases the subscription. Idempotent; safe to call after the
// stream already closed.
func (f *Feed) Close() {
	if f.cancel != nil {
		f.cancel()
	}
	f.closeConnection()
	f.wg.Wait()
}
