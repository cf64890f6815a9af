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

// Package wzbank is the top-level entry point of wzbank-go: version
// information plus configuration-driven client construction. The protocol
// building blocks live in the pkg subpackages.
package wzbank

const (
	// Version is the current version of wzbank-go
	Version = "1.0.0"

	// GatewayAPIVersion is the Wenzhou Bank open-platform API version this
	// library targets (the V1 path prefix on all endpoints)
	GatewayAPIVersion = "V1"

	// DefaultBaseURL is the production gateway endpoint
	DefaultBaseURL = "https://openapi.wzbank.cn/prdApiGW/"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	LibraryVersion    string
	GatewayAPIVersion string
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		LibraryVersion:    Version,
		GatewayAPIVersion: GatewayAPIVersion,
	}
}
