// Package redis bootstraps the Redis client used by the distributed
// rate-limit store: URL-based configuration, startup retries and a
// health check closure.
package redis
