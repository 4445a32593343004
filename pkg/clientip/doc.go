// Package clientip extracts the originating client IP address from HTTP
// requests, taking reverse proxies into account.
//
// Resolution priority:
//
//  1. X-Forwarded-For (standard proxy header, first valid IP of the
//     comma-separated list)
//  2. X-Real-IP (nginx reverse proxy)
//  3. RemoteAddr (direct connection fallback)
//
// Every candidate is validated with net.ParseIP before use so spoofed
// or garbage header values never become rate-limit keys.
package clientip
