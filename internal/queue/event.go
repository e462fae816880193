// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// RequestApprovedEvent is published after a data request (or facebook
// data request) is successfully approved and its claim committed. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type RequestApprovedEvent struct {
	RequestKind     string `json:"request_kind"` // "data" or "facebook"
	RequestID       uint64 `json:"request_id"`
	UserID          uint64 `json:"user_id"`
	ApprovedBy      uint64 `json:"approved_by"`
	RecordsAssigned int    `json:"records_assigned"`
	ApprovedAt      string `json:"approved_at"`
}
