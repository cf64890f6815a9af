package protocol

import (
	"github.com/wzbankapi/wzbank-go/pkg/fieldmap"
)

// Transport header names, verbatim from the gateway documentation.
const (
	HeaderAuthorization  = "Authorization"
	HeaderAppID          = "x-aob-appID"
	HeaderBankID         = "x-aob-bankID"
	HeaderLastLogonTime  = "x-aob-customer-last-logger-time"
	HeaderClientIP       = "x-aob-customer-ip-address"
	HeaderInteractionID  = "x-aob-interaction-id"
	HeaderAccessToken    = "x-aob-access-token"
	HeaderUserAgent      = "x-customer-user-agent"
	HeaderIdempotencyKey = "x-idempotency-key"
	HeaderSignature      = "x-aob-signature"
)

// FieldBizContent is the single body field carrying the encrypted payload.
const FieldBizContent = "bizContent"

// DefaultBankID identifies the production gateway.
const DefaultBankID = "WZB"

// signedHeaders is the ordered allow-list of headers that participate in the
// signature. The order is a wire-compatibility contract; never sort it.
var signedHeaders = []string{
	HeaderAuthorization,
	HeaderAppID,
	HeaderBankID,
	HeaderLastLogonTime,
	HeaderClientIP,
	HeaderInteractionID,
	HeaderAccessToken,
	HeaderUserAgent,
	HeaderIdempotencyKey,
}

// SignedHeaders returns the allow-list of signed header names in signing
// order.
func SignedHeaders() []string {
	out := make([]string, len(signedHeaders))
	copy(out, signedHeaders)
	return out
}

// BuildSignMap assembles the ordered field set to sign: allow-listed headers
// that are present and non-empty, in allow-list order, then the encrypted
// body field. An empty cipherHex is omitted rather than signed as an empty
// entry; a request with no allow-listed headers signs the cipher field
// alone.
func BuildSignMap(headers map[string]string, cipherHex string) *fieldmap.Map {
	signMap := fieldmap.New()
	for _, name := range signedHeaders {
		if value := headers[name]; value != "" {
			signMap.Set(name, value)
		}
	}
	if cipherHex != "" {
		signMap.Set(FieldBizContent, cipherHex)
	}
	return signMap
}

// RequestBody is the JSON body of every outbound request.
type RequestBody struct {
	BizContent string `json:"bizContent"`
}

// VerifyPayload builds the canonical bytes the bank signs on responses: a
// one-field object carrying the response's bizContent value. An absent
// value renders as null, matching the bank's official SDK.
func VerifyPayload(bizContent any) ([]byte, error) {
	payload := fieldmap.New()
	payload.Set(FieldBizContent, bizContent)
	return payload.Encode()
}
