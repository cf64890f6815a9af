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

package wzbank

import (
	"net/http"

	"github.com/wzbankapi/wzbank-go/pkg/client"
	"github.com/wzbankapi/wzbank-go/pkg/config"
)

// NewClient wires a gateway client from a loaded configuration: key
// material becomes the crypto provider, and the gateway section becomes
// base URL, bank ID, timeout and extra headers.
func NewClient(cfg *config.Config) (*client.Client, error) {
	provider, err := cfg.BuildProvider()
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Gateway.Timeout()}
	c, err := client.New(cfg.Gateway.AppID, provider, httpClient)
	if err != nil {
		return nil, err
	}

	if cfg.Gateway.BaseURL != "" {
		c.SetBaseURL(cfg.Gateway.BaseURL)
	}
	if cfg.Gateway.BankID != "" {
		c.SetBankID(cfg.Gateway.BankID)
	}
	c.SetRequireResponseSignature(cfg.Gateway.RequireResponseSignature)
	for name, value := range cfg.Gateway.Headers {
		c.SetHeader(name, value)
	}
	return c, nil
}
