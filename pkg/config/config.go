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

// Package config handles configuration loading for gateway clients.
//
// Configuration is loaded from a YAML file with support for environment
// variable expansion (${VAR} or $VAR syntax), so key material can be
// injected at runtime instead of living in the file.
//
// # Example Configuration
//
//	gateway:
//	  baseUrl: https://openapi.wzbank.cn/prdApiGW/
//	  appId: ${WZBANK_APP_ID}
//	  bankId: WZB
//	  timeoutSeconds: 30
//
//	keys:
//	  privateKey: ${WZBANK_PRIVATE_KEY}
//	  bankPublicKey: ${WZBANK_BANK_PUBLIC_KEY}
//	  sm4Key: ${WZBANK_SM4_KEY}
//	  sm4Iv: ${WZBANK_SM4_IV}
//
//	logging:
//	  level: info
//	  format: json
//
// See [Load] for loading configuration from a file.
package config

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wzbankapi/wzbank-go/pkg/smcrypto"
)

// Config is the root configuration structure.
type Config struct {
	Gateway GatewayConfig `yaml:"gateway"`
	Keys    KeysConfig    `yaml:"keys"`
	Logging LoggingConfig `yaml:"logging"`
}

// GatewayConfig holds gateway connection settings.
type GatewayConfig struct {
	BaseURL string `yaml:"baseUrl"`
	AppID   string `yaml:"appId"`
	BankID  string `yaml:"bankId"`

	TimeoutSeconds int `yaml:"timeoutSeconds"`

	// RequireResponseSignature makes a missing response signature an
	// error instead of a skipped verification.
	RequireResponseSignature bool `yaml:"requireResponseSignature"`

	// Headers are extra headers sent with every request, e.g. the
	// Authorization token handed out by the bank.
	Headers map[string]string `yaml:"headers"`
}

// KeysConfig holds the cryptographic material.
//
// The private key and the bank public key accept raw hex or, via the File
// variants, paths to PEM files. The SM4 key and IV are 16-byte hex strings
// agreed with the bank out of band.
type KeysConfig struct {
	PrivateKey        string `yaml:"privateKey"`
	PrivateKeyFile    string `yaml:"privateKeyFile"`
	BankPublicKey     string `yaml:"bankPublicKey"`
	BankPublicKeyFile string `yaml:"bankPublicKeyFile"`
	SM4Key            string `yaml:"sm4Key"`
	SM4IV             string `yaml:"sm4Iv"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes configuration from YAML bytes, expanding environment
// variables first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Gateway.BankID == "" {
		c.Gateway.BankID = "WZB"
	}
	if c.Gateway.TimeoutSeconds == 0 {
		c.Gateway.TimeoutSeconds = 30
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

func (c *Config) validate() error {
	if c.Gateway.AppID == "" {
		return fmt.Errorf("gateway.appId is required")
	}
	if c.Keys.PrivateKey == "" && c.Keys.PrivateKeyFile == "" {
		return fmt.Errorf("keys.privateKey or keys.privateKeyFile is required")
	}
	if c.Keys.PrivateKey != "" && c.Keys.PrivateKeyFile != "" {
		return fmt.Errorf("keys.privateKey and keys.privateKeyFile are mutually exclusive")
	}
	if c.Keys.BankPublicKey == "" && c.Keys.BankPublicKeyFile == "" {
		return fmt.Errorf("keys.bankPublicKey or keys.bankPublicKeyFile is required")
	}
	if c.Keys.BankPublicKey != "" && c.Keys.BankPublicKeyFile != "" {
		return fmt.Errorf("keys.bankPublicKey and keys.bankPublicKeyFile are mutually exclusive")
	}
	if c.Keys.SM4Key == "" {
		return fmt.Errorf("keys.sm4Key is required")
	}
	if c.Keys.SM4IV == "" {
		return fmt.Errorf("keys.sm4Iv is required")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}

// Timeout returns the configured HTTP timeout.
func (c *GatewayConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BuildProvider assembles the crypto provider from the configured key
// material, loading PEM files when the File variants are set.
func (c *Config) BuildProvider() (*smcrypto.SMProvider, error) {
	priv, err := loadKey(c.Keys.PrivateKey, c.Keys.PrivateKeyFile,
		smcrypto.ParsePrivateKeyHex, smcrypto.ParsePrivateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("loading private key: %w", err)
	}
	pub, err := loadKey(c.Keys.BankPublicKey, c.Keys.BankPublicKeyFile,
		smcrypto.ParsePublicKeyHex, smcrypto.ParsePublicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("loading bank public key: %w", err)
	}

	key, err := hexBytes("keys.sm4Key", c.Keys.SM4Key)
	if err != nil {
		return nil, err
	}
	iv, err := hexBytes("keys.sm4Iv", c.Keys.SM4IV)
	if err != nil {
		return nil, err
	}
	return smcrypto.NewSMProvider(priv, pub, key, iv)
}

// NewLogger builds an slog.Logger per the logging section, writing to w.
func (c *LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func loadKey[T any](inline, file string, fromHex func(string) (T, error), fromPEM func([]byte) (T, error)) (T, error) {
	if inline != "" {
		return fromHex(inline)
	}
	var zero T
	pem, err := os.ReadFile(file)
	if err != nil {
		return zero, err
	}
	return fromPEM(pem)
}

func hexBytes(field, value string) ([]byte, error) {
	out, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid hex: %w", field, err)
	}
	return out, nil
}
