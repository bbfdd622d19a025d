package client

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// AuthProvider applies authentication to an outbound HTTP request.
type AuthProvider interface {
	Apply(req *http.Request) error
}

// BodySigner is an AuthProvider whose signature must cover the request body.
type BodySigner interface {
	AuthProvider
	SignWithBody(req *http.Request, body string) error
}

// L2Auth implements Polymarket's level-2 (API key) authentication: an
// HMAC-SHA256 over timestamp+method+path[+body], with the secret decoded and
// the signature encoded as url-safe base64.
type L2Auth struct {
	Address    string // signer/EOA address, not the funder
	APIKey     string
	Secret     string // url-safe base64 encoded HMAC secret
	Passphrase string
}

func (a L2Auth) Apply(req *http.Request) error {
	return a.sign(req, "")
}

func (a L2Auth) SignWithBody(req *http.Request, body string) error {
	return a.sign(req, body)
}

func (a L2Auth) sign(req *http.Request, body string) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature, err := a.signPayload(timestamp, req.Method, req.URL.Path, body)
	if err != nil {
		return err
	}

	req.Header.Set("POLY_ADDRESS", a.Address)
	req.Header.Set("POLY_SIGNATURE", signature)
	req.Header.Set("POLY_TIMESTAMP", timestamp)
	req.Header.Set("POLY_API_KEY", a.APIKey)
	req.Header.Set("POLY_PASSPHRASE", a.Passphrase)

	return nil
}

// signPayload computes the HMAC over the canonical message. Split out so the
// signature itself is testable with a fixed timestamp.
func (a L2Auth) signPayload(timestamp, method, path, body string) (string, error) {
	secretBytes, err := base64.URLEncoding.DecodeString(a.Secret)
	if err != nil {
		return "", fmt.Errorf("decode api secret: %w", err)
	}

	message := timestamp + method + path + body

	h := hmac.New(sha256.New, secretBytes)
	h.Write([]byte(message))
	return base64.URLEncoding.EncodeToString(h.Sum(nil)), nil
}
