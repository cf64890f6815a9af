package smcrypto

import (
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/emmansun/gmsm/padding"
	"github.com/emmansun/gmsm/sm2"
	"github.com/emmansun/gmsm/sm4"
)

// Provider abstracts the cryptographic operations the gateway protocol
// composes. The client orchestrator depends only on this interface, so
// alternate backends (HSM, remote signer) can be substituted.
type Provider interface {
	// Sign produces an SM2 signature over msg as uppercase DER hex.
	// Each call draws an independent random nonce.
	Sign(msg []byte) (string, error)

	// Verify checks an uppercase (or lowercase) DER hex SM2 signature over
	// msg against the peer's public key. A merely invalid signature returns
	// (false, nil); only malformed input encoding returns an error.
	Verify(msg []byte, signatureHex string) (bool, error)

	// Encrypt SM4-CBC encrypts plaintext and returns uppercase hex.
	Encrypt(plaintext []byte) (string, error)

	// Decrypt reverses Encrypt, accepting upper or lower hex.
	Decrypt(cipherHex string) ([]byte, error)
}

// SMProvider is the default Provider backed by github.com/emmansun/gmsm.
//
// Key material is immutable after construction. The zero-value methods fail
// when the material they need was not supplied: Sign needs the private key,
// Verify the bank public key, Encrypt/Decrypt the SM4 key and IV.
//
// SMProvider is safe for concurrent use once configured.
type SMProvider struct {
	priv    *sm2.PrivateKey
	bankPub *ecdsa.PublicKey
	iv      []byte
	block   cipher.Block
	pad     padding.Padding
	random  io.Reader

	tag        []byte
	ownDigest  []byte // cached ZA for the signing key
	bankDigest []byte // cached ZA for the bank key
}

// NewSMProvider creates a provider. Any of priv, bankPub or the symmetric
// key/iv pair may be nil; the operations needing absent material will fail
// at call time. key and iv, when supplied, must both be 16 bytes.
func NewSMProvider(priv *sm2.PrivateKey, bankPub *ecdsa.PublicKey, key, iv []byte) (*SMProvider, error) {
	p := &SMProvider{
		priv:    priv,
		bankPub: bankPub,
		random:  rand.Reader,
		tag:     DefaultIdentityTag,
	}

	if key != nil || iv != nil {
		if len(key) != sm4.BlockSize {
			return nil, fmt.Errorf("sm4 key must be %d bytes, got %d", sm4.BlockSize, len(key))
		}
		if len(iv) != sm4.BlockSize {
			return nil, fmt.Errorf("sm4 iv must be %d bytes, got %d", sm4.BlockSize, len(iv))
		}
		block, err := sm4.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("sm4 cipher: %w", err)
		}
		p.block = block
		p.iv = append([]byte(nil), iv...)
		p.pad = padding.NewPKCS7Padding(sm4.BlockSize)
	}

	if err := p.recomputeIdentityDigests(); err != nil {
		return nil, err
	}
	return p, nil
}

// SetRandom replaces the nonce source used by Sign. Only for reproducing
// test vectors; production signing must keep the default CSPRNG.
func (p *SMProvider) SetRandom(r io.Reader) {
	if r != nil {
		p.random = r
	}
}

// SetIdentityTag replaces the identity tag bound into signature digests.
// The production gateway fixes it to DefaultIdentityTag; sandbox
// environments may differ.
func (p *SMProvider) SetIdentityTag(tag []byte) error {
	p.tag = tag
	return p.recomputeIdentityDigests()
}

func (p *SMProvider) recomputeIdentityDigests() error {
	p.ownDigest, p.bankDigest = nil, nil
	if p.priv != nil {
		za, err := IdentityDigest(&p.priv.PublicKey, p.tag)
		if err != nil {
			return fmt.Errorf("identity digest for signing key: %w", err)
		}
		p.ownDigest = za
	}
	if p.bankPub != nil {
		za, err := IdentityDigest(p.bankPub, p.tag)
		if err != nil {
			return fmt.Errorf("identity digest for bank key: %w", err)
		}
		p.bankDigest = za
	}
	return nil
}

// Sign implements Provider.
func (p *SMProvider) Sign(msg []byte) (string, error) {
	if p.priv == nil {
		return "", fmt.Errorf("sm2 sign: no private key configured")
	}
	e := digestWithIdentity(p.ownDigest, msg)
	sig, err := sm2.SignASN1(p.random, p.priv, e, nil)
	if err != nil {
		return "", fmt.Errorf("sm2 sign: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(sig)), nil
}

// Verify implements Provider.
func (p *SMProvider) Verify(msg []byte, signatureHex string) (bool, error) {
	if p.bankPub == nil {
		return false, fmt.Errorf("sm2 verify: no bank public key configured")
	}
	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false, fmt.Errorf("sm2 verify: malformed signature hex: %w", err)
	}
	e := digestWithIdentity(p.bankDigest, msg)
	return sm2.VerifyASN1(p.bankPub, e, sig), nil
}

// Encrypt implements Provider.
func (p *SMProvider) Encrypt(plaintext []byte) (string, error) {
	if p.block == nil {
		return "", fmt.Errorf("sm4 encrypt: no symmetric key configured")
	}
	padded := p.pad.Pad(append([]byte(nil), plaintext...))
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(p.block, p.iv).CryptBlocks(out, padded)
	return strings.ToUpper(hex.EncodeToString(out)), nil
}

// Decrypt implements Provider.
func (p *SMProvider) Decrypt(cipherHex string) ([]byte, error) {
	if p.block == nil {
		return nil, fmt.Errorf("sm4 decrypt: no symmetric key configured")
	}
	data, err := hex.DecodeString(cipherHex)
	if err != nil {
		return nil, fmt.Errorf("sm4 decrypt: malformed ciphertext hex: %w", err)
	}
	if len(data) == 0 || len(data)%sm4.BlockSize != 0 {
		return nil, fmt.Errorf("sm4 decrypt: ciphertext length %d is not a positive multiple of %d", len(data), sm4.BlockSize)
	}
	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(p.block, p.iv).CryptBlocks(out, data)
	plain, err := p.pad.Unpad(out)
	if err != nil {
		return nil, fmt.Errorf("sm4 decrypt: %w", err)
	}
	return plain, nil
}
