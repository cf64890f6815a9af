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

package smcrypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference SM4 material from the gateway's integration test kit.
const (
	testSM4KeyHex = "2ABDBED2A873B983148F922CFA238205"
	testSM4IVHex  = "F336C87E2373A3C792E59DBF23771BCD"

	// SM4-CBC-PKCS7 of `{"payAcctNo":"733000120190056868"}` under the key
	// and IV above, cross-computed against the bank's official SDK.
	testBalanceBodyPlain  = `{"payAcctNo":"733000120190056868"}`
	testBalanceBodyCipher = "FE57F8C704BA9E26053191E10C982AF19F3A78B25489747C928994485565B157D4EA08C4AEEDE98F6E33BE44454B3E6A"
)

func newTestProvider(t *testing.T) *SMProvider {
	t.Helper()

	priv, err := ParsePrivateKeyHex(testPrivateKeyHex)
	require.NoError(t, err)
	// The bank side of the tests signs with the same key pair, so the
	// provider verifies against its own public key.
	key, err := hex.DecodeString(testSM4KeyHex)
	require.NoError(t, err)
	iv, err := hex.DecodeString(testSM4IVHex)
	require.NoError(t, err)

	p, err := NewSMProvider(priv, &priv.PublicKey, key, iv)
	require.NoError(t, err)
	return p
}

func TestNewSMProvider_BadKeyLengths(t *testing.T) {
	_, err := NewSMProvider(nil, nil, []byte("short"), make([]byte, 16))
	require.Error(t, err)

	_, err = NewSMProvider(nil, nil, make([]byte, 16), []byte("short"))
	require.Error(t, err)
}

func TestEncrypt_KnownAnswer(t *testing.T) {
	p := newTestProvider(t)

	got, err := p.Encrypt([]byte(testBalanceBodyPlain))
	require.NoError(t, err)
	assert.Equal(t, testBalanceBodyCipher, got)
}

func TestDecrypt_KnownAnswer(t *testing.T) {
	p := newTestProvider(t)

	plain, err := p.Decrypt(testBalanceBodyCipher)
	require.NoError(t, err)
	assert.Equal(t, testBalanceBodyPlain, string(plain))
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	p := newTestProvider(t)

	for _, plain := range []string{
		"",
		"a",
		`{"payAcctName":"温州银行"}`,
		"exactly sixteen!", // full block forces a whole padding block
	} {
		cipherHex, err := p.Encrypt([]byte(plain))
		require.NoError(t, err)

		got, err := p.Decrypt(cipherHex)
		require.NoError(t, err)
		assert.Equal(t, plain, string(got))
	}
}

func TestDecrypt_Errors(t *testing.T) {
	p := newTestProvider(t)

	cases := []struct {
		name  string
		input string
	}{
		{"not hex", "ZZZZ"},
		{"empty", ""},
		{"partial block", "ABCD"},
		// A zero ciphertext block decrypts to garbage with an invalid
		// padding byte under the test key.
		{"bad padding", "00000000000000000000000000000000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Decrypt(tc.input)
			require.Error(t, err)
		})
	}
}

func TestSign_NoncesAreIndependent(t *testing.T) {
	p := newTestProvider(t)
	msg := []byte(`{"bizContent":"ABCD"}`)

	sig1, err := p.Sign(msg)
	require.NoError(t, err)
	sig2, err := p.Sign(msg)
	require.NoError(t, err)

	// Fresh nonces make every signature distinct even for identical input.
	assert.NotEqual(t, sig1, sig2)

	ok, err := p.Verify(msg, sig1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = p.Verify(msg, sig2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_TamperedMessage(t *testing.T) {
	p := newTestProvider(t)
	msg := []byte(`{"x-aob-appID":"app","bizContent":"ABCD"}`)

	sig, err := p.Sign(msg)
	require.NoError(t, err)

	for i := range msg {
		tampered := append([]byte(nil), msg...)
		tampered[i] ^= 0x01
		ok, err := p.Verify(tampered, sig)
		require.NoError(t, err)
		assert.False(t, ok, "flipping byte %d must invalidate the signature", i)
	}
}

func TestVerify_InvalidButWellFormedSignature(t *testing.T) {
	p := newTestProvider(t)

	sig, err := p.Sign([]byte("one message"))
	require.NoError(t, err)

	// Valid hex, valid structure, wrong message: false without error.
	ok, err := p.Verify([]byte("another message"), sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_MalformedHex(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.Verify([]byte("msg"), "not-hex!")
	require.Error(t, err)
}

func TestSign_SignatureIsUppercaseHex(t *testing.T) {
	p := newTestProvider(t)

	sig, err := p.Sign([]byte("msg"))
	require.NoError(t, err)
	_, err = hex.DecodeString(sig)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9A-F]+$`, sig)
	// DER sequences for SM2 start with 0x30.
	assert.Equal(t, "30", sig[:2])
}

func TestOperations_MissingMaterial(t *testing.T) {
	empty, err := NewSMProvider(nil, nil, nil, nil)
	require.NoError(t, err)

	_, err = empty.Sign([]byte("msg"))
	require.Error(t, err)
	_, err = empty.Verify([]byte("msg"), "3030")
	require.Error(t, err)
	_, err = empty.Encrypt([]byte("msg"))
	require.Error(t, err)
	_, err = empty.Decrypt("00")
	require.Error(t, err)
}

func TestSetIdentityTag_ChangesSignatureDomain(t *testing.T) {
	signer := newTestProvider(t)
	require.NoError(t, signer.SetIdentityTag([]byte("8765432187654321")))

	msg := []byte("msg")
	sig, err := signer.Sign(msg)
	require.NoError(t, err)

	// A verifier still on the default tag must reject it.
	verifier := newTestProvider(t)
	ok, err := verifier.Verify(msg, sig)
	require.NoError(t, err)
	assert.False(t, ok)

	// A verifier on the same tag accepts it.
	require.NoError(t, verifier.SetIdentityTag([]byte("8765432187654321")))
	ok, err = verifier.Verify(msg, sig)
	require.NoError(t, err)
	assert.True(t, ok)
}
