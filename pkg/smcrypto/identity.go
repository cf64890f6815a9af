package smcrypto

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"

	"github.com/emmansun/gmsm/sm3"
)

// SM2 curve domain parameters, hex as published in GB/T 32918 and used
// verbatim by the bank's official SDK.
const (
	sm2ParamAHex  = "FFFFFFFEFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF00000000FFFFFFFFFFFFFFFC"
	sm2ParamBHex  = "28E9FA9E9D9F5E344D5A9E4BCF6509A7F39789F515AB8F92DDBCBD414D940E93"
	sm2ParamGxHex = "32C4AE2C1F1981195F9904466A39C9948FE30BBFF2660BE1715A4589334C74C7"
	sm2ParamGyHex = "BC3736A2F4F6779C59BDCEE36B692153D0A9877CC62A474002DF32E52139F0A0"
)

// DefaultIdentityTag is the fixed 16-byte signer identity the gateway binds
// into every signature digest. It is part of the wire contract and not
// user-configurable on the production gateway.
var DefaultIdentityTag = []byte("1234567812345678")

// DomainParams are the curve parameters mixed into the identity digest.
// They are injected rather than read from hidden module state so a sandbox
// profile can substitute its own without touching call sites.
type DomainParams struct {
	A  []byte // curve coefficient a, 32-byte big-endian
	B  []byte // curve coefficient b, 32-byte big-endian
	Gx []byte // base point x, 32-byte big-endian
	Gy []byte // base point y, 32-byte big-endian
}

// SM2DomainParams returns the standard SM2 curve parameters used by the
// production gateway.
func SM2DomainParams() DomainParams {
	return DomainParams{
		A:  mustHex(sm2ParamAHex),
		B:  mustHex(sm2ParamBHex),
		Gx: mustHex(sm2ParamGxHex),
		Gy: mustHex(sm2ParamGyHex),
	}
}

// IdentityDigest computes the 32-byte SM2 ZA value for pub and tag over the
// standard SM2 domain parameters:
//
//	SM3( ENTL || tag || a || b || Gx || Gy || Px || Py )
//
// where ENTL is the tag length in bits as a 2-byte big-endian integer and
// Px/Py are the 32-byte affine coordinates. The result depends only on its
// inputs, so callers may cache it per key pair.
func IdentityDigest(pub *ecdsa.PublicKey, tag []byte) ([]byte, error) {
	return IdentityDigestWithParams(SM2DomainParams(), pub, tag)
}

// IdentityDigestWithParams computes the identity digest over explicit
// domain parameters.
func IdentityDigestWithParams(params DomainParams, pub *ecdsa.PublicKey, tag []byte) ([]byte, error) {
	if pub == nil || pub.X == nil || pub.Y == nil {
		return nil, fmt.Errorf("identity digest: nil public key")
	}
	if len(tag)*8 > 0xFFFF {
		return nil, fmt.Errorf("identity digest: identity tag too long (%d bytes)", len(tag))
	}

	entl := [2]byte{byte(len(tag) * 8 >> 8), byte(len(tag) * 8)}
	var px, py [32]byte
	pub.X.FillBytes(px[:])
	pub.Y.FillBytes(py[:])

	h := sm3.New()
	h.Write(entl[:])
	h.Write(tag)
	h.Write(params.A)
	h.Write(params.B)
	h.Write(params.Gx)
	h.Write(params.Gy)
	h.Write(px[:])
	h.Write(py[:])
	return h.Sum(nil), nil
}

// digestWithIdentity computes the signature digest e = SM3(za || msg).
func digestWithIdentity(za, msg []byte) []byte {
	h := sm3.New()
	h.Write(za)
	h.Write(msg)
	return h.Sum(nil)
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("smcrypto: bad built-in constant: " + err.Error())
	}
	return b
}
