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

package client

import (
	"context"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wzbankapi/wzbank-go/internal/gatewaytest"
	"github.com/wzbankapi/wzbank-go/pkg/fieldmap"
	"github.com/wzbankapi/wzbank-go/pkg/protocol"
	"github.com/wzbankapi/wzbank-go/pkg/smcrypto"
)

const (
	testAppID         = "app-0001"
	testPrivateKeyHex = "bf5e4387c88b536c203d3893a2f7fceeb2badcb6eb9e1e331197caf9372a335e"
	testPublicKeyHex  = "0441b0343bed4b4bf0fc1dad58f15524ef786d7d7775b14f861c8f75eb1e47f400e836602460b3bbc386e8a794f0c1f11a529a3b99cc04d3673a7e1097b1a27140"
	testSM4KeyHex     = "2ABDBED2A873B983148F922CFA238205"
	testSM4IVHex      = "F336C87E2373A3C792E59DBF23771BCD"
)

// newTestProvider builds a provider keyed against its own public key, so a
// mirrored gateway can verify this client's requests and vice versa.
func newTestProvider(t *testing.T) *smcrypto.SMProvider {
	t.Helper()
	priv, err := smcrypto.ParsePrivateKeyHex(testPrivateKeyHex)
	require.NoError(t, err)
	pub, err := smcrypto.ParsePublicKeyHex(testPublicKeyHex)
	require.NoError(t, err)
	key, err := hex.DecodeString(testSM4KeyHex)
	require.NoError(t, err)
	iv, err := hex.DecodeString(testSM4IVHex)
	require.NoError(t, err)
	provider, err := smcrypto.NewSMProvider(priv, pub, key, iv)
	require.NoError(t, err)
	return provider
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(testAppID, newTestProvider(t), nil)
	require.NoError(t, err)
	c.SetBaseURL(baseURL)
	return c
}

// spyProvider counts decrypt calls to show when the pipeline stops early.
type spyProvider struct {
	smcrypto.Provider
	decryptCalls int
}

func (s *spyProvider) Decrypt(cipherHex string) ([]byte, error) {
	s.decryptCalls++
	return s.Provider.Decrypt(cipherHex)
}

func TestNew(t *testing.T) {
	provider := newTestProvider(t)

	t.Run("missing appID", func(t *testing.T) {
		c, err := New("", provider, nil)
		assert.Nil(t, c)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Error(), "appID")
	})

	t.Run("missing provider", func(t *testing.T) {
		c, err := New(testAppID, nil, nil)
		assert.Nil(t, c)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("defaults", func(t *testing.T) {
		c, err := New(testAppID, provider, nil)
		require.NoError(t, err)
		assert.Equal(t, defaultBaseURL, c.baseURL)
		assert.Equal(t, protocol.DefaultBankID, c.bankID)
		assert.NotNil(t, c.httpClient)
	})
}

func TestClient_Post_RoundTrip(t *testing.T) {
	gw := gatewaytest.New(newTestProvider(t))
	defer gw.Close()
	gw.Handler = func(path string, body *fieldmap.Map) (*fieldmap.Map, error) {
		resp := fieldmap.New()
		resp.Set("retCode", "00000000")
		resp.Set("payAcctBal", "1024.50")
		return resp, nil
	}

	c := newTestClient(t, gw.URL())
	c.SetHeader(protocol.HeaderAuthorization, "Bearer token-1")
	c.SetHeader(protocol.HeaderIdempotencyKey, "idem-42")

	body := fieldmap.New()
	body.Set("payAcctNo", "733000120190056868")
	resp, err := c.Post(context.Background(), "V1/P01502/S01/queryeaccountbalance", body)
	require.NoError(t, err)

	assert.True(t, resp.Decrypted)
	assert.True(t, resp.Verified)
	balance, ok := resp.Data.GetString("payAcctBal")
	require.True(t, ok)
	assert.Equal(t, "1024.50", balance)

	// The gateway only answers after verifying the request signature over
	// the reconstructed sign map, so a recorded request proves the two
	// sides agree on canonical encoding and header selection.
	reqs := gw.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/V1/P01502/S01/queryeaccountbalance", reqs[0].Path)
	assert.Equal(t, testAppID, reqs[0].Headers.Get(protocol.HeaderAppID))
	assert.Equal(t, protocol.DefaultBankID, reqs[0].Headers.Get(protocol.HeaderBankID))
	assert.Equal(t, "Bearer token-1", reqs[0].Headers.Get(protocol.HeaderAuthorization))

	acct, ok := reqs[0].Body.GetString("payAcctNo")
	require.True(t, ok)
	assert.Equal(t, "733000120190056868", acct)
	assert.True(t, reqs[0].Body.Has("mesgId"))
	assert.True(t, reqs[0].Body.Has("mesgDate"))
	assert.True(t, reqs[0].Body.Has("mesgTime"))
}

func TestClient_Post_MetadataInjection(t *testing.T) {
	gw := gatewaytest.New(newTestProvider(t))
	defer gw.Close()

	c := newTestClient(t, gw.URL())
	c.SetMessageIDSource(func() string { return "feedfacefeedfacefeedfacefeedface" })
	c.SetClock(func() time.Time {
		return time.Date(2026, 8, 29, 14, 30, 5, 7e6, time.UTC)
	})

	_, err := c.Post(context.Background(), "V1/P01512/S01/queryhourdetails", nil)
	require.NoError(t, err)

	body := gw.Requests()[0].Body
	id, _ := body.GetString("mesgId")
	date, _ := body.GetString("mesgDate")
	clock, _ := body.GetString("mesgTime")
	assert.Equal(t, "feedfacefeedfacefeedfacefeedface", id)
	assert.Equal(t, "20260829", date)
	assert.Equal(t, "143005007", clock)
}

func TestClient_Post_MetadataNotOverwritten(t *testing.T) {
	gw := gatewaytest.New(newTestProvider(t))
	defer gw.Close()

	c := newTestClient(t, gw.URL())
	body := fieldmap.New()
	body.Set("mesgId", "caller-supplied")
	_, err := c.Post(context.Background(), "V1/P01518/S01/checkAcct", body)
	require.NoError(t, err)

	id, _ := gw.Requests()[0].Body.GetString("mesgId")
	assert.Equal(t, "caller-supplied", id)
}

func TestClient_Post_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	spy := &spyProvider{Provider: newTestProvider(t)}
	c, err := New(testAppID, spy, nil)
	require.NoError(t, err)
	c.SetBaseURL(srv.URL)

	resp, err := c.Post(context.Background(), "V1/P01502/S01/queryeaccountbalance", nil)
	assert.Nil(t, resp)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "gateway exploded")
	// Error bodies are never treated as protocol payloads.
	assert.Equal(t, 0, spy.decryptCalls)
}

func TestClient_Post_InvalidJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>upstream proxy error</html>"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Post(context.Background(), "V1/P01502/S01/queryeaccountbalance", nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Contains(t, httpErr.Body, "invalid JSON response")
}

func TestClient_Post_UnsignedResponse(t *testing.T) {
	gw := gatewaytest.New(newTestProvider(t))
	defer gw.Close()
	gw.SignResponses = false

	c := newTestClient(t, gw.URL())
	resp, err := c.Post(context.Background(), "V1/P01502/S01/queryeaccountbalance", nil)
	require.NoError(t, err)
	assert.True(t, resp.Decrypted)
	assert.False(t, resp.Verified)
}

func TestClient_Post_RequireResponseSignature(t *testing.T) {
	gw := gatewaytest.New(newTestProvider(t))
	defer gw.Close()
	gw.SignResponses = false

	c := newTestClient(t, gw.URL())
	c.SetRequireResponseSignature(true)

	_, err := c.Post(context.Background(), "V1/P01502/S01/queryeaccountbalance", nil)
	var sigErr *SignatureError
	require.ErrorAs(t, err, &sigErr)
	assert.Contains(t, sigErr.Error(), "missing")
}

func TestClient_Post_ResponseSignatureMismatch(t *testing.T) {
	provider := newTestProvider(t)

	// Sign a payload unrelated to the bizContent the response carries.
	wrongSig, err := provider.Sign([]byte(`{"bizContent":"DEADBEEF"}`))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cipher, _ := provider.Encrypt([]byte(`{"retCode":"00000000"}`))
		w.Header().Set(protocol.HeaderSignature, wrongSig)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bizContent":"` + cipher + `"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err = c.Post(context.Background(), "V1/P01502/S01/queryeaccountbalance", nil)
	var sigErr *SignatureError
	require.ErrorAs(t, err, &sigErr)
	assert.Contains(t, sigErr.Error(), "verification failed")
}

func TestClient_Post_MalformedResponseSignature(t *testing.T) {
	provider := newTestProvider(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cipher, _ := provider.Encrypt([]byte(`{"retCode":"00000000"}`))
		w.Header().Set(protocol.HeaderSignature, "not-hex-at-all")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bizContent":"` + cipher + `"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Post(context.Background(), "V1/P01502/S01/queryeaccountbalance", nil)
	var sigErr *SignatureError
	require.ErrorAs(t, err, &sigErr)
	require.NotNil(t, sigErr.Err)
}

func TestClient_Post_PassThroughWithoutBizContent(t *testing.T) {
	gw := gatewaytest.New(newTestProvider(t))
	defer gw.Close()
	gw.OmitBizContent = true
	gw.Handler = func(path string, body *fieldmap.Map) (*fieldmap.Map, error) {
		resp := fieldmap.New()
		resp.Set("errCode", "AUTH001")
		resp.Set("errMsg", "certificate expired")
		return resp, nil
	}

	c := newTestClient(t, gw.URL())
	resp, err := c.Post(context.Background(), "V1/P01525/S01/queryCertExpiry", nil)
	require.NoError(t, err)

	assert.False(t, resp.Decrypted)
	assert.False(t, resp.Verified)
	code, ok := resp.Data.GetString("errCode")
	require.True(t, ok)
	assert.Equal(t, "AUTH001", code)
}

func TestClient_Post_NullBizContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bizContent":null,"retMsg":"maintenance window"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.Post(context.Background(), "V1/P01502/S01/queryeaccountbalance", nil)
	require.NoError(t, err)
	assert.False(t, resp.Decrypted)
	msg, _ := resp.Data.GetString("retMsg")
	assert.Equal(t, "maintenance window", msg)
}

func TestClient_Post_NonStringBizContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bizContent":{"nested":true}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.SetVerifyResponseSignature(false)
	_, err := c.Post(context.Background(), "V1/P01502/S01/queryeaccountbalance", nil)
	var decErr *DecryptError
	require.ErrorAs(t, err, &decErr)
}

func TestClient_Post_UndecryptableBizContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bizContent":"ZZ-not-ciphertext"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.SetVerifyResponseSignature(false)
	_, err := c.Post(context.Background(), "V1/P01502/S01/queryeaccountbalance", nil)
	var decErr *DecryptError
	require.ErrorAs(t, err, &decErr)
}

func TestClient_Post_ContextCanceled(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Post(ctx, "V1/P01502/S01/queryeaccountbalance", nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_SetHeader_Remove(t *testing.T) {
	c := newTestClient(t, "http://example.invalid")
	c.SetHeader(protocol.HeaderAccessToken, "tok")
	c.SetHeader(protocol.HeaderAccessToken, "")
	headers := c.buildHeaders()
	_, present := headers[protocol.HeaderAccessToken]
	assert.False(t, present)
}
