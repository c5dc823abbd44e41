package partition

import (
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/net/http/httpguts"
)

// Count is the fixed number of registry shards a partition key can land in.
const Count = 256

// BatchPath is the reserved path of the batch endpoint. It is never a counter.
const BatchPath = "/batch"

// NormalizePath returns path with a leading slash.
func NormalizePath(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

// IsReserved reports whether a normalized path can never name a counter on
// the single-path surface: the root and the batch endpoint.
func IsReserved(path string) bool {
	return path == "/" || path == BatchPath
}

// ValidTenant reports whether host can name a tenant: non-empty, valid Host
// header syntax and free of "/".
func ValidTenant(host string) bool {
	return host != "" && !strings.Contains(host, "/") && httpguts.ValidHostHeader(host)
}

// Key builds the partition key for a tenant and a resource path.
// The path is normalized first, so "a.com"+"x" and "a.com"+"/x" are the same key.
// Callers pass only tenants accepted by ValidTenant, so the first "/" of a key
// always ends the tenant and keys of different tenants stay disjoint.
func Key(host, path string) string {
	return host + NormalizePath(path)
}

// For returns the shard index for a partition key.
// Stable and deterministic: the same key always maps to the same shard.
func For(key string) int {
	return int(xxh3.HashString(key) % Count)
}
