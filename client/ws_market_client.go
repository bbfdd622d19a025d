package client

import (
	"context"
	"encoding/json"
	"fmt"

	"polysniper/logger"
)

const marketWSURL = "wss://ws-subscriptions-clob.polymarket.com/ws/market"

// MarketStream follows the public market channel for a set of tokens. Only
// the events the bot reacts to are decoded; everything else is skipped at
// the event_type switch.
type MarketStream struct {
	conn *wsConn
	log  logger.Logger

	onTrade          func(LastTradePriceMessage)
	onTickSizeChange func(TickSizeChangeMessage)
}

func NewMarketStream(log logger.Logger) *MarketStream {
	return &MarketStream{
		conn: newWSConn(marketWSURL, log),
		log:  log,
	}
}

func (ms *MarketStream) OnTrade(cb func(LastTradePriceMessage)) { ms.onTrade = cb }

func (ms *MarketStream) OnTickSizeChange(cb func(TickSizeChangeMessage)) {
	ms.onTickSizeChange = cb
}

func (ms *MarketStream) Connect(tokenIDs []string) error {
	if err := ms.conn.connect(); err != nil {
		return err
	}

	sub := marketSubscribeMessage{
		Type:   "subscribe",
		Assets: tokenIDs,
	}
	if err := ms.conn.writeJSON(sub); err != nil {
		return fmt.Errorf("subscribe market channel: %w", err)
	}
	ms.log.Info("market_stream_subscribed", "tokens", len(tokenIDs))
	return nil
}

func (ms *MarketStream) Close() error { return ms.conn.close() }

func (ms *MarketStream) Listen(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := ms.conn.readMessage()
		if err != nil {
			return err
		}
		if string(msg) == "PONG" {
			continue
		}

		var batch []json.RawMessage
		if err := json.Unmarshal(msg, &batch); err == nil {
			for _, elem := range batch {
				ms.dispatch(elem)
			}
			continue
		}
		ms.dispatch(msg)
	}
}

func (ms *MarketStream) dispatch(raw []byte) {
	var head struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return
	}

	switch head.EventType {
	case "last_trade_price":
		if ms.onTrade == nil {
			return
		}
		var m LastTradePriceMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			ms.log.Warn("ws_market_trade_decode_failed", "err", err)
			return
		}
		ms.onTrade(m)
	case "tick_size_change":
		if ms.onTickSizeChange == nil {
			return
		}
		var m TickSizeChangeMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return
		}
		ms.onTickSizeChange(m)
	}
}
