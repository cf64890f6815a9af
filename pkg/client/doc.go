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

// Package client implements the gateway client: per-call orchestration of
// encrypt, sign, send, verify and decrypt, plus the documented endpoint
// wrappers.
//
// # Basic Usage
//
//	priv, _ := smcrypto.ParsePrivateKeyHex(privateKeyHex)
//	bankPub, _ := smcrypto.ParsePublicKeyHex(bankPublicKeyHex)
//	provider, _ := smcrypto.NewSMProvider(priv, bankPub, sm4Key, sm4IV)
//
//	c, err := client.New(appID, provider, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := c.QueryAccountBalance(ctx, "733000120190056868")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	balance, _ := resp.Data.GetString("payAcctBal")
//
// # Call Sequence
//
// Every Post runs the same sequence: inject message metadata, canonically
// encode and SM4-encrypt the body into bizContent, build the ordered sign
// map from the allow-listed headers plus bizContent, SM2-sign it, POST the
// single-field JSON envelope, then on the way back verify the response
// signature (when present) and decrypt bizContent.
//
// # Error Taxonomy
//
// Failures surface as typed errors naming the phase: *ConfigError,
// *EncodeError, *EncryptError, *SignatureError, *HTTPError, *DecryptError.
// Match them with errors.As. The client never retries: a cryptographic
// failure must not be replayed with the same material, and transport
// retry policy belongs to the caller.
//
// # Trust Decisions
//
// Two protocol relaxations inherited from the bank's official SDK are
// surfaced on Response rather than hidden: a response without a signature
// header skips verification
// (Verified=false), and a response without bizContent is passed through
// undecrypted (Decrypted=false). SetRequireResponseSignature tightens the
// former into an error.
package client
