// Package jwt manages access-token issuance and verification with a single
// symmetric HMAC-SHA256 key and strict fail-closed validation semantics.
package jwt
