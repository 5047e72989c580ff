// Package stream owns the byte-transport boundary.
//
// Ownership boundary:
// - Transport abstraction over one point-to-point connection
// - exact-length reads with cooperative polling
// - net.Conn adapter with buffered availability probing
package stream
