package order

import "strings"

// OrderType tags how the exchange should work the order.
type OrderType string

const (
	GTC OrderType = "GTC" // good til cancelled
	GTD OrderType = "GTD" // good til date
	FOK OrderType = "FOK" // fill or kill
	FAK OrderType = "FAK" // fill and kill
)

// SignedOrder is the wire representation of a signed order. The exchange
// takes salt as a plain number and every other integer as a decimal string;
// side travels as "BUY"/"SELL" rather than the numeric code that was hashed.
type SignedOrder struct {
	Salt          uint64 `json:"salt"`
	Maker         string `json:"maker"`
	Signer        string `json:"signer"`
	Taker         string `json:"taker"`
	TokenID       string `json:"tokenId"`
	MakerAmount   string `json:"makerAmount"`
	TakerAmount   string `json:"takerAmount"`
	Expiration    string `json:"expiration"`
	Nonce         string `json:"nonce"`
	FeeRateBps    string `json:"feeRateBps"`
	Side          string `json:"side"`
	SignatureType int    `json:"signatureType"`
	Signature     string `json:"signature"`
}

// Envelope is the POST /order payload. Owner is the API-key identifier, an
// account handle distinct from any on-chain address. The envelope carries no
// dry-run marker: whether it gets transmitted is the caller's control flow.
type Envelope struct {
	Order     SignedOrder `json:"order"`
	Owner     string      `json:"owner"`
	OrderType OrderType   `json:"orderType"`
	PostOnly  bool        `json:"postOnly"`
}

// NewEnvelope wraps a signed order for transport. postOnly stays false: this
// bot never places post-only orders.
func NewEnvelope(o *Order, signature, owner string, orderType OrderType) Envelope {
	return Envelope{
		Order: SignedOrder{
			Salt:          o.Salt.Uint64(),
			Maker:         strings.ToLower(o.Maker.Hex()),
			Signer:        strings.ToLower(o.Signer.Hex()),
			Taker:         strings.ToLower(o.Taker.Hex()),
			TokenID:       o.TokenID.String(),
			MakerAmount:   o.MakerAmount.String(),
			TakerAmount:   o.TakerAmount.String(),
			Expiration:    o.Expiration.String(),
			Nonce:         o.Nonce.String(),
			FeeRateBps:    o.FeeRateBps.String(),
			Side:          o.Side.String(),
			SignatureType: int(o.SignatureType),
			Signature:     signature,
		},
		Owner:     owner,
		OrderType: orderType,
	}
}

// BuildSigned runs the whole pipeline for one order attempt: quantize,
// assemble, sign against the chosen exchange contract, and envelope. A
// failure at any stage aborts the attempt; nothing here retries.
func BuildSigned(p Params, signer Signer, variant ExchangeVariant, owner string, orderType OrderType) (Envelope, error) {
	o, err := New(p)
	if err != nil {
		return Envelope{}, err
	}
	signature, err := o.Sign(signer, variant)
	if err != nil {
		return Envelope{}, err
	}
	return NewEnvelope(o, signature, owner, orderType), nil
}
