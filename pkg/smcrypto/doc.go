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

// Package smcrypto composes the ShangMi (SM2/SM3/SM4) primitives into the
// four operations the gateway protocol needs: sign, verify, symmetric
// encrypt and symmetric decrypt.
//
// The primitives themselves come from github.com/emmansun/gmsm; this package
// fixes how they are composed for the bank's wire contract:
//
//   - Signatures are SM2 over e = SM3(ZA || message), where ZA is the
//     identity digest binding the curve domain parameters, a fixed 16-byte
//     identity tag and the signer's public key. Output is DER, uppercase hex.
//   - Payload encryption is SM4-CBC with PKCS#7 padding under a fixed
//     16-byte key and IV, uppercase hex on the wire.
//
// # Provider
//
// The Provider interface is the capability boundary: the client orchestrator
// only ever calls these four operations, so alternate primitive backends
// (an HSM, a remote signing service) can be substituted without touching it.
//
//	priv, _ := smcrypto.ParsePrivateKeyHex("bf5e4387...")
//	bankPub, _ := smcrypto.ParsePublicKeyHex("0441b034...")
//	sm4Key, _ := hex.DecodeString("2ABDBED2A873B983148F922CFA238205")
//	sm4IV, _ := hex.DecodeString("F336C87E2373A3C792E59DBF23771BCD")
//
//	provider, err := smcrypto.NewSMProvider(priv, bankPub, sm4Key, sm4IV)
//
// # Nonce Discipline
//
// Every Sign call draws a fresh random nonce from a CSPRNG
// (crypto/rand.Reader by default). Nonce reuse across two signatures leaks
// the private key under SM2, so the source is only replaceable via
// SetRandom for reproducing test vectors, never in production.
package smcrypto
