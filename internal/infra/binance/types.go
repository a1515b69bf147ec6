package binance

import "time"

const (
	// DefaultWSURL is the public Binance.US websocket base endpoint.
	DefaultWSURL = "wss://stream.binance.us:9443/ws"

	handshakeTimeout = 10 * time.Second
	pingInterval     = 20 * time.Second
	readTimeout      = 60 * time.Second
)

// bookTickerMsg is the individual-symbol book ticker payload. Price and
// quantity fields arrive as numeric strings. Only best bid/ask are
// extracted; everything else is ignored.
type bookTickerMsg struct {
	UpdateID   int64  `json:"u"`
	Symbol     string `json:"s"`
	BestBid    string `json:"b"`
	BestBidQty string `json:"B"`
	BestAsk    string `json:"a"`
	BestAskQty string `json:"A"`
}
