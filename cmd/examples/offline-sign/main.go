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

// Demonstrates the protocol building blocks without contacting a gateway:
// canonical encoding, SM4 encryption of bizContent, sign map construction
// and SM2 signing. Runs with throwaway demo keys.
package main

import (
	"encoding/hex"
	"fmt"
	"log"

	"github.com/wzbankapi/wzbank-go/pkg/fieldmap"
	"github.com/wzbankapi/wzbank-go/pkg/protocol"
	"github.com/wzbankapi/wzbank-go/pkg/smcrypto"
)

const (
	demoPrivateKeyHex = "bf5e4387c88b536c203d3893a2f7fceeb2badcb6eb9e1e331197caf9372a335e"
	demoPublicKeyHex  = "0441b0343bed4b4bf0fc1dad58f15524ef786d7d7775b14f861c8f75eb1e47f400e836602460b3bbc386e8a794f0c1f11a529a3b99cc04d3673a7e1097b1a27140"
	demoSM4KeyHex     = "2ABDBED2A873B983148F922CFA238205"
	demoSM4IVHex      = "F336C87E2373A3C792E59DBF23771BCD"
)

func main() {
	fmt.Println("WZBank Go - Offline Sign Example")
	fmt.Println("================================")

	fmt.Println("\n1. Building the crypto provider...")
	priv, err := smcrypto.ParsePrivateKeyHex(demoPrivateKeyHex)
	if err != nil {
		log.Fatalf("Failed to parse private key: %v", err)
	}
	pub, err := smcrypto.ParsePublicKeyHex(demoPublicKeyHex)
	if err != nil {
		log.Fatalf("Failed to parse public key: %v", err)
	}
	key, _ := hex.DecodeString(demoSM4KeyHex)
	iv, _ := hex.DecodeString(demoSM4IVHex)
	provider, err := smcrypto.NewSMProvider(priv, pub, key, iv)
	if err != nil {
		log.Fatalf("Failed to create provider: %v", err)
	}

	fmt.Println("\n2. Encoding the business payload canonically...")
	body := fieldmap.New()
	body.Set("mesgId", "0f43a6ba90ee4a9c86b8e3b6479e5a10")
	body.Set("mesgDate", "20260829")
	body.Set("mesgTime", "143005007")
	body.Set("payAcctNo", "733000120190056868")
	plain, err := body.Encode()
	if err != nil {
		log.Fatalf("Failed to encode payload: %v", err)
	}
	fmt.Printf("   plaintext: %s\n", plain)

	fmt.Println("\n3. Encrypting into bizContent...")
	cipher, err := provider.Encrypt(plain)
	if err != nil {
		log.Fatalf("Failed to encrypt: %v", err)
	}
	fmt.Printf("   bizContent: %s...\n", cipher[:32])

	fmt.Println("\n4. Building and signing the sign map...")
	headers := map[string]string{
		protocol.HeaderAppID:  "app-0001",
		protocol.HeaderBankID: protocol.DefaultBankID,
	}
	signMap := protocol.BuildSignMap(headers, cipher)
	canonical, err := signMap.Encode()
	if err != nil {
		log.Fatalf("Failed to encode sign map: %v", err)
	}
	fmt.Printf("   canonical sign map: %s...\n", canonical[:48])

	signature, err := provider.Sign(canonical)
	if err != nil {
		log.Fatalf("Failed to sign: %v", err)
	}
	fmt.Printf("   %s: %s...\n", protocol.HeaderSignature, signature[:32])

	fmt.Println("\n5. Verifying the signature round trip...")
	ok, err := provider.Verify(canonical, signature)
	if err != nil {
		log.Fatalf("Failed to verify: %v", err)
	}
	fmt.Printf("   verified: %v\n", ok)

	fmt.Println("\n6. Decrypting bizContent back...")
	roundTrip, err := provider.Decrypt(cipher)
	if err != nil {
		log.Fatalf("Failed to decrypt: %v", err)
	}
	fmt.Printf("   plaintext: %s\n", roundTrip)
}
