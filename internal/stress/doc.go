// Package stress drives ordered containers with concurrent workloads and
// checks the result.
//
//   - Run: N workers insert M distinct keys each, then the container is
//     verified for size, membership, ascending traversal and an order
//     digest equal to a sequential build.
//   - Soak: a rate-limited mix of reads and writes over a bounded key space
//     for a fixed duration.
//
// Keys are ULID strings, so their lexical order is their generation order.
package stress
