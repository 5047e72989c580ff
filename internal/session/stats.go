package session

// Stats is one connection's counters. Values are monotonically
// non-decreasing for the lifetime of a connection and reset to zero each
// time a new client attaches.
type Stats struct {
	FramesReceived uint64 `json:"frames_received"`
	UpdatesApplied uint64 `json:"updates_applied"`
	LastFrameID    uint32 `json:"last_frame_id"`
}
