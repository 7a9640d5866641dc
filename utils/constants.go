// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:identity:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// PaymentEventPrefix namespaces processed provider event ids in the cache.
const PaymentEventPrefix = "payment:event:"

// PaymentEventTTL is how long a processed event id is remembered.
const PaymentEventTTL = 24 * time.Hour
