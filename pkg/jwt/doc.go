// Package jwt implements HMAC-SHA256 signed tokens and the claim
// extraction the tenant resolver depends on.
//
// Tokens carry the registered claims of RFC 7519 plus a tenant_id claim
// identifying the company the caller is operating in. Service validates
// signatures in constant time, rejects foreign algorithms, and checks
// temporal claims. TenantID and Subject give cheap single-claim access
// without the caller defining its own claims struct.
package jwt
