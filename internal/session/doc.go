// Package session drives one active display-update connection.
//
// Ownership boundary:
// - per-connection stats and their reset discipline
// - the reusable update buffer lent to decoder and compositor
// - the idle/framing state machine and teardown policy
package session
