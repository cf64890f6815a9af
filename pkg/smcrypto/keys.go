package smcrypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"strings"

	"github.com/emmansun/gmsm/sm2"
	"github.com/emmansun/gmsm/smx509"
)

// ParsePrivateKeyHex parses a big-endian hex SM2 private scalar. Scalars
// shorter than 32 bytes are left-padded. The public point is derived from
// the scalar.
func ParsePrivateKeyHex(s string) (*sm2.PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("private key hex: %w", err)
	}
	if len(raw) == 0 || len(raw) > 32 {
		return nil, fmt.Errorf("private key hex: scalar must be 1..32 bytes, got %d", len(raw))
	}
	var scalar [32]byte
	copy(scalar[32-len(raw):], raw)

	priv, err := sm2.NewPrivateKey(scalar[:])
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	return priv, nil
}

// ParsePublicKeyHex parses an SM2 public point in hex. Accepted forms:
// 65-byte uncompressed with 04 prefix, bare 64-byte X||Y, or 33-byte
// compressed. All are normalized to the same affine point.
func ParsePublicKeyHex(s string) (*ecdsa.PublicKey, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("public key hex: %w", err)
	}
	switch len(raw) {
	case 65:
		if raw[0] != 0x04 {
			return nil, fmt.Errorf("public key hex: 65-byte point must carry the 04 prefix")
		}
	case 64:
		raw = append([]byte{0x04}, raw...)
	case 33:
		x, y := elliptic.UnmarshalCompressed(sm2.P256(), raw)
		if x == nil {
			return nil, fmt.Errorf("public key hex: invalid compressed point")
		}
		return &ecdsa.PublicKey{Curve: sm2.P256(), X: x, Y: y}, nil
	default:
		return nil, fmt.Errorf("public key hex: unsupported point length %d", len(raw))
	}

	pub, err := sm2.NewPublicKey(raw)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	return pub, nil
}

// ParsePrivateKeyPEM parses a PEM-encoded SM2 private key, in either PKCS#8
// ("PRIVATE KEY") or SEC 1 ("EC PRIVATE KEY") form.
func ParsePrivateKeyPEM(data []byte) (*sm2.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("private key pem: no PEM block found")
	}
	switch block.Type {
	case "PRIVATE KEY":
		key, err := smx509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("private key pem: %w", err)
		}
		priv, ok := key.(*sm2.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("private key pem: not an SM2 key (%T)", key)
		}
		return priv, nil
	case "EC PRIVATE KEY":
		priv, err := smx509.ParseSM2PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("private key pem: %w", err)
		}
		return priv, nil
	default:
		return nil, fmt.Errorf("private key pem: unsupported block type %q", block.Type)
	}
}

// ParsePublicKeyPEM parses a PEM-encoded ("PUBLIC KEY") SM2 public key.
func ParsePublicKeyPEM(data []byte) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("public key pem: no PEM block found")
	}
	if block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("public key pem: unsupported block type %q", block.Type)
	}
	key, err := smx509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("public key pem: %w", err)
	}
	pub, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key pem: not an EC key (%T)", key)
	}
	return pub, nil
}

// PublicKeyHex renders a public point in the uncompressed 04-prefixed hex
// form the gateway documentation uses.
func PublicKeyHex(pub *ecdsa.PublicKey) string {
	var x, y [32]byte
	pub.X.FillBytes(x[:])
	pub.Y.FillBytes(y[:])
	return "04" + hex.EncodeToString(x[:]) + hex.EncodeToString(y[:])
}
