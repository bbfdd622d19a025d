package client

import (
	"context"
	"encoding/json"
	"fmt"

	"polysniper/logger"
)

const userWSURL = "wss://ws-subscriptions-clob.polymarket.com/ws/user"

// UserStream follows the authenticated user channel and surfaces fills and
// order lifecycle events for the account behind the API key.
type UserStream struct {
	conn *wsConn
	log  logger.Logger
	auth SubscriptionAuth

	onTrade func(UserTradeMessage)
	onOrder func(UserOrderMessage)
}

func NewUserStream(apiKey, secret, passphrase string, log logger.Logger) *UserStream {
	return &UserStream{
		conn: newWSConn(userWSURL, log),
		log:  log,
		auth: SubscriptionAuth{
			APIKey:     apiKey,
			Secret:     secret,
			Passphrase: passphrase,
		},
	}
}

func (us *UserStream) OnTrade(cb func(UserTradeMessage)) { us.onTrade = cb }
func (us *UserStream) OnOrder(cb func(UserOrderMessage)) { us.onOrder = cb }

// Connect dials the socket and sends the authenticated subscription. An
// empty markets list subscribes to all activity for the account.
func (us *UserStream) Connect(markets []string) error {
	if err := us.conn.connect(); err != nil {
		return err
	}

	sub := SubscriptionMessage{
		Type:    "user",
		Markets: markets,
		Auth:    &us.auth,
	}
	if err := us.conn.writeJSON(sub); err != nil {
		return fmt.Errorf("subscribe user channel: %w", err)
	}
	return nil
}

func (us *UserStream) Close() error { return us.conn.close() }

// Listen blocks reading the channel until the context is cancelled or the
// connection drops. Messages arrive both bare and batched in arrays.
func (us *UserStream) Listen(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := us.conn.readMessage()
		if err != nil {
			return err
		}
		if string(msg) == "PONG" {
			continue
		}

		var batch []json.RawMessage
		if err := json.Unmarshal(msg, &batch); err == nil {
			for _, elem := range batch {
				us.dispatch(elem)
			}
			continue
		}
		us.dispatch(msg)
	}
}

func (us *UserStream) dispatch(raw []byte) {
	var head struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return
	}

	switch head.EventType {
	case "trade":
		if us.onTrade == nil {
			return
		}
		var m UserTradeMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			us.log.Warn("ws_trade_decode_failed", "err", err)
			return
		}
		us.onTrade(m)
	case "order":
		if us.onOrder == nil {
			return
		}
		var m UserOrderMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			us.log.Warn("ws_order_decode_failed", "err", err)
			return
		}
		us.onOrder(m)
	}
}
