package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignPayment produces the hex HMAC-SHA256 the payment provider sends in the
// X-Payment-Signature header.
func SignPayment(body, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature checks a provider callback signature against the raw
// request body. Client-asserted payment state is never trusted without it.
func VerifyPaymentSignature(body []byte, signature string, secret []byte) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hmac.Equal(expected, mac.Sum(nil))
}
