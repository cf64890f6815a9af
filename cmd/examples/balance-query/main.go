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
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/wzbankapi/wzbank-go"
	"github.com/wzbankapi/wzbank-go/pkg/config"
)

func main() {
	fmt.Println("WZBank Go - Balance Query Example")
	fmt.Println("=================================")

	configPath := flag.String("config", "wzbank.yaml", "path to the configuration file")
	payAcctNo := flag.String("account", "", "account number to query")
	flag.Parse()

	if *payAcctNo == "" {
		fmt.Println("usage: balance-query -config wzbank.yaml -account <payAcctNo>")
		os.Exit(2)
	}

	// Load configuration. Key material is usually injected through
	// environment variables referenced from the YAML file.
	fmt.Printf("\n1. Loading configuration from %s...\n", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fmt.Println("\n2. Creating gateway client...")
	client, err := wzbank.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	client.SetLogger(cfg.Logging.NewLogger(os.Stderr))

	fmt.Printf("\n3. Querying balance of %s...\n", *payAcctNo)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.QueryAccountBalance(ctx, *payAcctNo)
	if err != nil {
		log.Fatalf("Balance query failed: %v", err)
	}

	if !resp.Decrypted {
		fmt.Println("   Gateway answered without an encrypted payload:")
	}
	for _, key := range resp.Data.Keys() {
		value, _ := resp.Data.Get(key)
		fmt.Printf("   %-16s %v\n", key, value)
	}
	fmt.Printf("\n   signature verified: %v\n", resp.Verified)
}
