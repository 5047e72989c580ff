// Package protocol owns the PXUP/PXUR wire contract and parsing primitives.
//
// Ownership boundary:
// - packet header and body entry layout
// - frame decoding into a reusable update buffer
// - frame encoding for feed tools and tests
// - connection-fatal error taxonomy
package protocol
