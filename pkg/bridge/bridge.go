package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jeantrail/kernel/pkg/audit"
	"github.com/jeantrail/kernel/pkg/crypto"
	"github.com/jeantrail/kernel/pkg/store"
)

// KernelBridge authenticates and authorizes bridge messages before any
// dispatch. One logical channel per transport connection; the session
// registry is shared across all connections on this bridge instance.
//
// Every non-handshake message must (a) verify against the sender's key
// and (b) carry a known session, checked in that order before dispatch.
type KernelBridge struct {
	security *SecurityContext
	verifier crypto.Verifier
	audits   *store.AuditStore
	logger   audit.Logger
	limiter  Limiter
	schema   *jsonschema.Schema
	minVer   *semver.Constraints
	handler  GraphHandler

	dispatches metric.Int64Counter
	rejections metric.Int64Counter
}

// Options configures optional bridge collaborators.
type Options struct {
	// Limiter throttles per-session dispatch; nil disables throttling.
	Limiter Limiter
	// MinClientVersion is a semver constraint (e.g. ">= 1.2.0") applied
	// to the handshake's clientVersion when both are present.
	MinClientVersion string
	// Logger receives security audit events; nil discards them.
	Logger audit.Logger
}

// NewKernelBridge wires a bridge with its injected collaborators. The
// audit store backs AUDIT_LOG_REQUEST reads and receives a record of
// every admitted graph.
func NewKernelBridge(security *SecurityContext, verifier crypto.Verifier, audits *store.AuditStore, opts Options) (*KernelBridge, error) {
	if security == nil || verifier == nil || audits == nil {
		return nil, fmt.Errorf("bridge requires security context, verifier and audit store")
	}
	schema, err := compileGraphSchema()
	if err != nil {
		return nil, err
	}

	var minVer *semver.Constraints
	if opts.MinClientVersion != "" {
		minVer, err = semver.NewConstraint(opts.MinClientVersion)
		if err != nil {
			return nil, fmt.Errorf("invalid client version constraint: %w", err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = audit.Nop()
	}

	meter := otel.Meter("jeantrail.bridge")
	dispatches, _ := meter.Int64Counter("bridge.dispatches",
		metric.WithDescription("messages dispatched by type"))
	rejections, _ := meter.Int64Counter("bridge.rejections",
		metric.WithDescription("messages rejected by error code"))

	return &KernelBridge{
		security:   security,
		verifier:   verifier,
		audits:     audits,
		logger:     logger,
		limiter:    opts.Limiter,
		schema:     schema,
		minVer:     minVer,
		dispatches: dispatches,
		rejections: rejections,
	}, nil
}

// OnGraph registers the consumer for admitted graphs. Only one handler is
// supported; registering again replaces it.
func (b *KernelBridge) OnGraph(h GraphHandler) {
	b.handler = h
}

// HandleMessage processes one inbound signed envelope and returns exactly
// one response message. Protocol errors are responses, never panics: the
// bridge process survives any adversarial input.
func (b *KernelBridge) HandleMessage(ctx context.Context, raw SignedMessage, sessionID string) Message {
	resp := b.handle(ctx, raw, sessionID)
	attrs := metric.WithAttributes(attribute.String("type", string(raw.Message.Type)))
	if resp.Type == TypeError {
		b.rejections.Add(ctx, 1, attrs)
	} else {
		b.dispatches.Add(ctx, 1, attrs)
	}
	return resp
}

func (b *KernelBridge) handle(ctx context.Context, raw SignedMessage, sessionID string) Message {
	msg := raw.Message

	// 1. Signature verification, before anything else is trusted.
	ok, err := b.verifier.Verify(msg, raw.Signature, raw.SenderPublicKey)
	if err != nil || !ok {
		b.logger.Record(audit.EventSecurity, sessionID, "", "auth_failed", map[string]any{
			"message_id": msg.ID, "type": string(msg.Type),
		})
		return errorResponse(msg.ID, CodeAuthFailed, "invalid signature")
	}

	// 2. Handshake needs no session yet.
	if msg.Type == TypeHandshakeInit {
		return b.handleHandshake(msg)
	}

	// 3. Session check.
	session := b.security.Lookup(sessionID)
	if sessionID == "" || session == nil {
		return errorResponse(msg.ID, CodeUnauthorized, "session required")
	}

	// 4. Throttle authenticated traffic. Limiter failures deny: an
	// unreachable limiter must not become an unlimited bridge.
	if b.limiter != nil {
		allowed, err := b.limiter.Allow(ctx, sessionID)
		if err != nil || !allowed {
			return errorResponse(msg.ID, CodeRateLimited, "rate limit exceeded")
		}
	}

	// 5. Dispatch by type.
	switch msg.Type {
	case TypeGraphSubmission:
		return b.handleGraphSubmission(msg, session)
	case TypeCancelExecution:
		return b.handleCancel(msg, session)
	case TypeAuditLogRequest:
		return b.handleAuditRequest(msg, session)
	default:
		return errorResponse(msg.ID, CodeUnknownType, fmt.Sprintf("unknown message type: %s", msg.Type))
	}
}

func (b *KernelBridge) handleHandshake(msg Message) Message {
	var payload HandshakePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.ClientID == "" {
		return errorResponse(msg.ID, CodeAuthFailed, "malformed handshake payload")
	}

	if b.minVer != nil && payload.ClientVersion != "" {
		v, err := semver.NewVersion(payload.ClientVersion)
		if err != nil || !b.minVer.Check(v) {
			return errorResponse(msg.ID, CodeAuthFailed,
				fmt.Sprintf("unsupported client version %q", payload.ClientVersion))
		}
	}

	sessionID, granted := b.security.CreateSession(payload.ClientID, payload.RequestedCapabilities)
	b.logger.Record(audit.EventAccess, sessionID, payload.ClientID, "session_created", map[string]any{
		"granted": granted,
	})
	_, _ = b.audits.Append(store.AuditInfo, sessionID, "session_created", map[string]any{
		"client_id": payload.ClientID,
	})

	return newMessage(msg.ID+"_ack", TypeHandshakeAck, HandshakeAckPayload{
		SessionID:           sessionID,
		GrantedCapabilities: granted,
		ServerTime:          time.Now().UnixMilli(),
	})
}

func (b *KernelBridge) handleGraphSubmission(msg Message, session *Session) Message {
	if !b.security.HasCapability(session.SessionID, CapSubmitGraph) {
		b.logger.Record(audit.EventSecurity, session.SessionID, session.ClientID, "forbidden", map[string]any{
			"capability": string(CapSubmitGraph),
		})
		return errorResponse(msg.ID, CodeForbidden, "missing capability: SUBMIT_GRAPH")
	}

	var payload GraphSubmissionPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Graph == nil {
		return errorResponse(msg.ID, CodeInvalidGraph, "partial or malformed graph")
	}
	if err := b.validateGraph(payload.Graph); err != nil {
		return errorResponse(msg.ID, CodeInvalidGraph, err.Error())
	}

	_, _ = b.audits.Append(store.AuditInfo, session.SessionID, "graph_received", map[string]any{
		"graph_id": payload.Graph.ID,
		"nodes":    len(payload.Graph.Nodes),
		"edges":    len(payload.Graph.Edges),
	})
	if b.handler != nil {
		b.handler(GraphEvent{
			SessionID:  session.SessionID,
			ClientID:   session.ClientID,
			Graph:      payload.Graph,
			UserIntent: payload.UserIntent,
			DryRun:     payload.DryRun,
		})
	}

	return newMessage(msg.ID+"_resp", TypeGraphAccepted, GraphAcceptedPayload{
		GraphID: payload.Graph.ID,
		Status:  "queued",
	})
}

// validateGraph checks the structural contract only: both nodes and edges
// must be present (empty arrays are fine, absent arrays are not).
func (b *KernelBridge) validateGraph(g *ExecutionGraph) error {
	if g.ID == "" || g.Nodes == nil || g.Edges == nil {
		return fmt.Errorf("graph must carry id, nodes and edges")
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("graph not serializable")
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("graph not serializable")
	}
	if err := b.schema.Validate(generic); err != nil {
		return fmt.Errorf("graph failed structural validation")
	}
	return nil
}

func (b *KernelBridge) handleCancel(msg Message, session *Session) Message {
	if !b.security.HasCapability(session.SessionID, CapCancelExecution) {
		return errorResponse(msg.ID, CodeForbidden, "missing capability: CANCEL_EXECUTION")
	}

	var payload CancelExecutionPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.GraphID == "" {
		return errorResponse(msg.ID, CodeInvalidGraph, "cancel payload must carry graphId")
	}

	_, _ = b.audits.Append(store.AuditWarn, session.SessionID, "cancel_requested", map[string]any{
		"graph_id": payload.GraphID,
	})
	return newMessage(msg.ID+"_resp", TypeCancelAck, CancelAckPayload{
		GraphID: payload.GraphID,
		Status:  "cancel_requested",
	})
}

func (b *KernelBridge) handleAuditRequest(msg Message, session *Session) Message {
	if !b.security.HasCapability(session.SessionID, CapReadLogs) {
		b.logger.Record(audit.EventSecurity, session.SessionID, session.ClientID, "forbidden", map[string]any{
			"capability": string(CapReadLogs),
		})
		return errorResponse(msg.ID, CodeForbidden, "missing capability: READ_LOGS")
	}

	var payload AuditLogRequestPayload
	_ = json.Unmarshal(msg.Payload, &payload)

	filter := store.QueryFilter{MaxResults: 100}
	if payload.Filter != nil {
		filter.Level = store.AuditLevel(payload.Filter.Level)
		if payload.Filter.Since > 0 {
			since := time.UnixMilli(payload.Filter.Since).UTC()
			filter.Since = &since
		}
		if payload.Filter.Limit > 0 {
			filter.MaxResults = payload.Filter.Limit
		}
	}

	entries := b.audits.Query(filter)
	logs := make([]AuditLogEntry, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, AuditLogEntry{
			Time:    e.Timestamp.UnixMilli(),
			Level:   string(e.Level),
			Subject: e.Subject,
			Action:  e.Action,
		})
	}
	return newMessage(msg.ID+"_resp", TypeAuditLogResponse, AuditLogResponsePayload{Logs: logs})
}
