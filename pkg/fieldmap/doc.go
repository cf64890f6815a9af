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

// Package fieldmap provides the insertion-ordered field map and the canonical
// JSON encoding the gateway protocol signs and encrypts.
//
// The gateway computes digests over the exact bytes of a JSON rendering, so
// both sides must agree on every byte: keys appear in insertion order, no
// whitespace is inserted, and non-ASCII characters are written as raw UTF-8
// rather than \u escapes. Go's encoding/json cannot produce this form
// directly (map keys are sorted and HTML characters are escaped), so this
// package carries its own encoder and an order-preserving decoder.
//
// # Basic Usage
//
//	body := fieldmap.New()
//	body.Set("payAcctNo", "733000120190056868")
//	body.Set("transAmt", "100.00")
//
//	data, err := body.Encode()
//	// data == []byte(`{"payAcctNo":"733000120190056868","transAmt":"100.00"}`)
//
//	parsed, err := fieldmap.Decode(data)
//
// # Ordering Semantics
//
// Set on an existing key overwrites the value but keeps the key's original
// position, matching the dictionary semantics of the bank's official SDK.
// Reordering insertions therefore changes the encoded bytes, and with them
// every digest and signature derived from the map.
//
// # Value Types
//
// Values may be strings, bools, numbers, nil, []any slices, or nested *Map
// objects. Decoded numbers are json.Number so re-encoding reproduces the
// original digits. Plain Go maps are rejected by Encode: they have no
// defined order and would silently break the wire contract.
package fieldmap
