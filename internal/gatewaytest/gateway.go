// Copyright (C) 2025 WZBank API Project
//
// This file is part of wzbank-go.
//
// wzbank-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// wzbank-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with wzbank-go.  If not, see <https://www.gnu.org/licenses/>.

// Package gatewaytest provides an in-process stand-in for the bank gateway.
//
// The gateway performs the server half of the protocol: it verifies the
// request signature over the reconstructed sign map, decrypts bizContent,
// hands the plaintext body to a test-supplied handler, then encrypts and
// optionally signs the response. Tests point a client at Gateway.URL().
package gatewaytest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/wzbankapi/wzbank-go/pkg/fieldmap"
	"github.com/wzbankapi/wzbank-go/pkg/protocol"
	"github.com/wzbankapi/wzbank-go/pkg/smcrypto"
)

// HandlerFunc receives the decrypted request body and returns the response
// body to encrypt. Returning an error produces a 500 with the error text.
type HandlerFunc func(path string, body *fieldmap.Map) (*fieldmap.Map, error)

// Request records one decoded request for later assertions.
type Request struct {
	Path    string
	Headers http.Header
	Body    *fieldmap.Map
}

// Gateway is an httptest-backed fake of the production gateway.
type Gateway struct {
	srv      *httptest.Server
	provider smcrypto.Provider

	// Handler supplies per-test business logic. When nil the gateway
	// echoes a fixed success body.
	Handler HandlerFunc

	// SignResponses controls whether responses carry x-aob-signature.
	SignResponses bool

	// OmitBizContent makes responses carry the handler result inline
	// instead of wrapping it in an encrypted bizContent field.
	OmitBizContent bool

	mu       sync.Mutex
	requests []Request
}

// New starts a gateway that verifies and decrypts with provider. The
// provider's signing key stands for the bank and its peer public key must
// be the client's, so request verification and response signing line up
// with a client built from the mirrored provider.
func New(provider smcrypto.Provider) *Gateway {
	g := &Gateway{provider: provider, SignResponses: true}
	g.srv = httptest.NewServer(http.HandlerFunc(g.serve))
	return g
}

// URL returns the base URL clients should post to.
func (g *Gateway) URL() string {
	return g.srv.URL
}

// Close shuts the underlying test server down.
func (g *Gateway) Close() {
	g.srv.Close()
}

// Requests returns a copy of all decoded requests seen so far.
func (g *Gateway) Requests() []Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Request, len(g.requests))
	copy(out, g.requests)
	return out
}

func (g *Gateway) serve(w http.ResponseWriter, r *http.Request) {
	body, err := g.decodeRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	g.requests = append(g.requests, Request{Path: r.URL.Path, Headers: r.Header.Clone(), Body: body})
	g.mu.Unlock()

	respBody, err := g.handle(r.URL.Path, body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := g.writeResponse(w, respBody); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// decodeRequest verifies the signature over the reconstructed sign map and
// decrypts bizContent into the plaintext body.
func (g *Gateway) decodeRequest(r *http.Request) (*fieldmap.Map, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var envelope protocol.RequestBody
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if envelope.BizContent == "" {
		return nil, fmt.Errorf("missing %s", protocol.FieldBizContent)
	}

	headers := make(map[string]string)
	for _, name := range protocol.SignedHeaders() {
		if v := r.Header.Get(name); v != "" {
			headers[name] = v
		}
	}
	signMap := protocol.BuildSignMap(headers, envelope.BizContent)
	canonical, err := signMap.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode sign map: %w", err)
	}

	signature := r.Header.Get(protocol.HeaderSignature)
	if signature == "" {
		return nil, fmt.Errorf("missing %s", protocol.HeaderSignature)
	}
	ok, err := g.provider.Verify(canonical, signature)
	if err != nil {
		return nil, fmt.Errorf("verify signature: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("signature mismatch")
	}

	plain, err := g.provider.Decrypt(envelope.BizContent)
	if err != nil {
		return nil, fmt.Errorf("decrypt %s: %w", protocol.FieldBizContent, err)
	}
	return fieldmap.Decode(plain)
}

func (g *Gateway) handle(path string, body *fieldmap.Map) (*fieldmap.Map, error) {
	if g.Handler != nil {
		return g.Handler(path, body)
	}
	resp := fieldmap.New()
	resp.Set("retCode", "00000000")
	resp.Set("retMsg", "success")
	return resp, nil
}

func (g *Gateway) writeResponse(w http.ResponseWriter, body *fieldmap.Map) error {
	if g.OmitBizContent {
		raw, err := body.Encode()
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "application/json")
		_, err = w.Write(raw)
		return err
	}

	plain, err := body.Encode()
	if err != nil {
		return err
	}
	cipher, err := g.provider.Encrypt(plain)
	if err != nil {
		return err
	}

	if g.SignResponses {
		canonical, err := protocol.VerifyPayload(cipher)
		if err != nil {
			return err
		}
		signature, err := g.provider.Sign(canonical)
		if err != nil {
			return err
		}
		w.Header().Set(protocol.HeaderSignature, signature)
	}

	envelope := fieldmap.New()
	envelope.Set(protocol.FieldBizContent, cipher)
	raw, err := envelope.Encode()
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(raw)
	return err
}
