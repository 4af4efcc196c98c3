// Package memory sets the Go runtime memory limit from the container limit.
//
// Decoding large images in parallel allocates a full-resolution buffer per
// worker, so an indexer run inside a container can be OOM-killed long before
// the Go garbage collector feels pressure. GOMEMLIMIT is not derived from
// cgroups automatically, so [ConfigureFromEnv] derives it from MEMORY_LIMIT
// (bytes, typically from the Kubernetes Downward API) times MEMORY_RATIO
// (default 0.85). An explicit GOMEMLIMIT always wins.
package memory
