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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/wzbankapi/wzbank-go"
	wzclient "github.com/wzbankapi/wzbank-go/pkg/client"
	"github.com/wzbankapi/wzbank-go/pkg/config"
)

func main() {
	fmt.Println("WZBank Go - Single Transfer Example")
	fmt.Println("===================================")

	configPath := flag.String("config", "wzbank.yaml", "path to the configuration file")
	flag.Parse()

	fmt.Printf("\n1. Loading configuration from %s...\n", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, err := wzbank.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	client.SetLogger(cfg.Logging.NewLogger(os.Stderr))

	// A fresh idempotency key protects against double submission when
	// the call is retried after a transport failure.
	client.SetHeader("x-idempotency-key", uuid.NewString())

	fmt.Println("\n2. Submitting a transfer order...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.SingleTransfer(ctx, wzclient.SingleTransferRequest{
		PayAcctNo:   "733000120190056868",
		TransAmt:    "199.99",
		PayAcctName: "某某科技有限公司",
		RcvAcctNo:   "622848000123456789",
		RcvAcctName: "张三",
		InBankNo:    "102100099996",
		OrderNo:     fmt.Sprintf("ORD%d", time.Now().UnixMilli()),
		Reserve2:    "0",
		Remark:      "货款",
	})
	if err != nil {
		var httpErr *wzclient.HTTPError
		if errors.As(err, &httpErr) {
			log.Fatalf("Gateway rejected the request: %v", httpErr)
		}
		log.Fatalf("Transfer failed: %v", err)
	}

	fmt.Println("\n3. Transfer accepted:")
	for _, key := range resp.Data.Keys() {
		value, _ := resp.Data.Get(key)
		fmt.Printf("   %-12s %v\n", key, value)
	}
}
