/*
Package filesystem provides the path and file-access helpers used by the
scanner and the image decoders.

# Retries

StatWithRetry and OpenWithRetry wrap os.Stat and os.Open. Only ESTALE (NFS
stale file handle) triggers a retry, with exponential backoff:

	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())

Defaults: 3 retries, 50ms initial backoff, 500ms cap. Every other error is
returned immediately.

# Path prefixes

HasPathPrefix compares paths component by component, which is what exclude
prefixes need:

	filesystem.HasPathPrefix("root/cache/a.jpg", "root/cache")  // true
	filesystem.HasPathPrefix("root/cachefoo/a.jpg", "root/cache") // false

# Metrics

Retry counters are reported through an Observer installed with SetObserver.
The metrics package provides the implementation. Without an observer nothing
is recorded, which keeps tests free of global Prometheus state.
*/
package filesystem
