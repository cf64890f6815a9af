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

// Package protocol defines the gateway wire contract: header names, the
// signed-header allow-list, the sign map, and the bizContent envelope.
//
// Every name and every ordering in this package is fixed by the bank's
// gateway documentation. The allow-list order in particular feeds the canonical
// signature payload; changing or sorting it produces signatures the gateway
// rejects.
//
// # Sign Map
//
// The sign map is the ordered field set that gets canonicalized and signed
// per request: the allow-listed transport headers that are present and
// non-empty, in allow-list order, followed by the encrypted body field:
//
//	headers := map[string]string{
//	    protocol.HeaderAppID:  "bb800191-...",
//	    protocol.HeaderBankID: "WZB",
//	}
//	signMap := protocol.BuildSignMap(headers, cipherHex)
//	payload, _ := signMap.Encode()
//	signature, _ := provider.Sign(payload)
package protocol
