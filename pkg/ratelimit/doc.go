// Package ratelimit admits or rejects requests under per-key token
// bucket limits.
//
// Each key owns a bucket of capacity C that refills to C every fixed
// window W. Consumption and refill are atomic with respect to each
// other, so concurrent workers never observe a bucket outside
// 0 <= tokens <= C. Buckets are created lazily on first observation of
// a key; the in-memory store sweeps buckets idle beyond a TTL so the
// key space (IPs, tenants) cannot grow without bound. A Redis-backed
// store is available for multi-instance deployments.
//
// Two middleware flavors mirror the two admission policies:
//
//   - General: checks the caller's IP-derived key first, then — only
//     when a tenant identifier is present on the request — the
//     tenant-derived key. Health checks and public paths are exempt.
//   - Auth: applied only to login and registration paths, with
//     distinct stricter limits per path category, keyed by client IP.
//
// Rejections answer 429 with a machine-readable body naming the limit,
// the limit type and the retry-after seconds, plus a Retry-After header.
package ratelimit
