// Package bridge is the capability-scoped message layer in front of the
// kernel facade. Remote callers establish a session via handshake, then
// every further message must carry a valid signature and a known session
// before any dispatch happens. Dispatch is an explicit typed function, not
// an event emitter: each inbound message yields exactly one response
// message, and side effects (graph admission) flow through a registered
// handler.
package bridge

import (
	"encoding/json"
	"time"
)

// MessageType enumerates the bridge wire protocol.
type MessageType string

const (
	TypeHandshakeInit    MessageType = "HANDSHAKE_INIT"
	TypeHandshakeAck     MessageType = "HANDSHAKE_ACK"
	TypeGraphSubmission  MessageType = "GRAPH_SUBMISSION"
	TypeGraphAccepted    MessageType = "GRAPH_ACCEPTED"
	TypeCancelExecution  MessageType = "CANCEL_EXECUTION"
	TypeCancelAck        MessageType = "CANCEL_ACK"
	TypeAuditLogRequest  MessageType = "AUDIT_LOG_REQUEST"
	TypeAuditLogResponse MessageType = "AUDIT_LOG_RESPONSE"
	TypeError            MessageType = "ERROR"
)

// ErrorCode enumerates protocol-level failures. These are per-request and
// recoverable: they are reported to the caller, never crash the bridge.
type ErrorCode string

const (
	CodeAuthFailed   ErrorCode = "AUTH_FAILED"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeUnknownType  ErrorCode = "UNKNOWN_TYPE"
	CodeInvalidGraph ErrorCode = "INVALID_GRAPH"
	CodeRateLimited  ErrorCode = "RATE_LIMITED"
)

// Capability is a named permission grant bound to a session.
type Capability string

const (
	CapSubmitGraph     Capability = "SUBMIT_GRAPH"
	CapReadLogs        Capability = "READ_LOGS"
	CapCancelExecution Capability = "CANCEL_EXECUTION"
	CapAdminOverride   Capability = "ADMIN_OVERRIDE"
)

// Message is the base wire envelope body.
type Message struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// SignedMessage wraps a Message with a detached signature over its
// canonical JSON form and the sender's public key for verification.
type SignedMessage struct {
	Message         Message `json:"message"`
	Signature       string  `json:"signature"`
	SenderPublicKey string  `json:"senderPublicKey"`
}

// HandshakePayload opens a session.
type HandshakePayload struct {
	ClientID              string   `json:"clientId"`
	ClientVersion         string   `json:"clientVersion,omitempty"`
	RequestedCapabilities []string `json:"requestedCapabilities"`
	Nonce                 string   `json:"nonce,omitempty"`
}

// HandshakeAckPayload confirms a session. Granted capabilities are always
// a subset of what was requested.
type HandshakeAckPayload struct {
	SessionID           string       `json:"sessionId"`
	GrantedCapabilities []Capability `json:"grantedCapabilities"`
	ServerTime          int64        `json:"serverTime"`
}

// ExecutionGraph is the structural shape the bridge admits. Validation is
// structural only (nodes and edges present); semantic validation belongs
// to the kernel consumer.
type ExecutionGraph struct {
	ID    string         `json:"id"`
	Nodes []GraphNode    `json:"nodes"`
	Edges []GraphEdge    `json:"edges"`
	Meta  map[string]any `json:"meta,omitempty"`
}

// GraphNode is one step of a submitted execution graph.
type GraphNode struct {
	ID     string         `json:"id"`
	Kind   string         `json:"kind,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// GraphEdge connects two graph nodes.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GraphSubmissionPayload carries a graph plus the user's stated intent.
type GraphSubmissionPayload struct {
	Graph      *ExecutionGraph `json:"graph"`
	UserIntent string          `json:"userIntent,omitempty"`
	DryRun     bool            `json:"dryRun,omitempty"`
}

// GraphAcceptedPayload acknowledges a queued graph.
type GraphAcceptedPayload struct {
	GraphID string `json:"graphId"`
	Status  string `json:"status"`
}

// CancelExecutionPayload asks the kernel to stop a queued graph.
type CancelExecutionPayload struct {
	GraphID string `json:"graphId"`
}

// CancelAckPayload confirms a cancellation request was accepted.
type CancelAckPayload struct {
	GraphID string `json:"graphId"`
	Status  string `json:"status"`
}

// AuditLogRequestPayload asks for audit entries.
type AuditLogRequestPayload struct {
	GraphID string          `json:"graphId,omitempty"`
	Filter  *AuditLogFilter `json:"filter,omitempty"`
}

// AuditLogFilter narrows an audit-log read.
type AuditLogFilter struct {
	Level string `json:"level,omitempty"`
	Since int64  `json:"since,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// AuditLogEntry is the wire projection of a stored audit entry.
type AuditLogEntry struct {
	Time    int64  `json:"time"`
	Level   string `json:"level"`
	Subject string `json:"subject"`
	Action  string `json:"action"`
}

// AuditLogResponsePayload returns matching entries.
type AuditLogResponsePayload struct {
	Logs []AuditLogEntry `json:"logs"`
}

// ErrorPayload reports a protocol error back to the caller.
type ErrorPayload struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// GraphEvent is delivered to the registered handler when a graph passes
// authorization and structural validation.
type GraphEvent struct {
	SessionID  string
	ClientID   string
	Graph      *ExecutionGraph
	UserIntent string
	DryRun     bool
}

// GraphHandler consumes admitted graphs (typically the kernel facade's
// queue). Handlers must not block: transport delivery and persistence are
// external collaborators.
type GraphHandler func(GraphEvent)

func newMessage(id string, msgType MessageType, payload any) Message {
	raw, _ := json.Marshal(payload)
	return Message{
		ID:        id,
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Payload:   raw,
	}
}

func errorResponse(replyToID string, code ErrorCode, message string) Message {
	return newMessage(replyToID+"_err", TypeError, ErrorPayload{Code: code, Message: message})
}
