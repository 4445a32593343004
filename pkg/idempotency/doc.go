// Package idempotency deduplicates retried write requests. A client
// sends an opaque Idempotency-Key header with a mutating request; the
// first execution's response is recorded per (key, tenant) and replayed
// verbatim for any identical retry, so the downstream handler runs at
// most once per pair.
//
// Concurrent duplicates are serialized through an atomic insert-if-absent
// reservation: exactly one request wins and executes, losers wait for the
// winner's record and replay it. Records are immutable once written and
// expire after a configurable TTL.
package idempotency
