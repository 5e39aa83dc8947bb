// Package relay mediates the credential exchange between the form and a
// secondary authentication surface. The two sides never share an object
// reference; everything flows through one typed message channel filtered by
// a sender-origin predicate.
package relay

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Wire discriminator values of the inbound message shape.
const (
	TypeAuthSuccess = "AUTH_SUCCESS"
	TypeAuthFailed  = "AUTH_FAILED"
)

// ErrAlreadyOpen is returned when the auth surface is opened twice.
var ErrAlreadyOpen = errors.New("auth surface already open")

// Message is the tagged union delivered by the auth surface.
type Message interface {
	authMessage()
}

// AuthSuccess carries the collected credential.
type AuthSuccess struct {
	Cookies string
}

// AuthFailed carries an optional human-readable reason; the surface stays
// open so the user may retry.
type AuthFailed struct {
	Message string
}

func (AuthSuccess) authMessage() {}
func (AuthFailed) authMessage()  {}

// ParseMessage decodes the wire shape into the typed union.
func ParseMessage(msgType, cookies, message string) (Message, error) {
	switch msgType {
	case TypeAuthSuccess:
		return AuthSuccess{Cookies: cookies}, nil
	case TypeAuthFailed:
		return AuthFailed{Message: message}, nil
	default:
		return nil, fmt.Errorf("unknown message type: %q", msgType)
	}
}

// Session is the process-wide credential state, set by a successful
// handshake and cleared by explicit user action or a failed handshake.
type Session struct {
	Credential    string
	StatusMessage string
}

// Relay owns the session state and the single inbound subscription. The
// subscription is registered once for the relay's lifetime and deregistered
// by Close; repeated open/close cycles of the surface never accumulate
// handlers.
type Relay struct {
	origin string
	logger *zap.Logger

	mu      sync.Mutex
	open    bool
	closed  bool
	session Session

	messages  chan Message
	closeOnce sync.Once
}

// New creates a relay that accepts messages only from its own origin.
func New(origin string, logger *zap.Logger) *Relay {
	return &Relay{
		origin:   origin,
		logger:   logger,
		messages: make(chan Message, 1),
	}
}

// Origin returns the relay's own origin, the only one it accepts from.
func (r *Relay) Origin() string {
	return r.origin
}

// Open reveals the auth surface. Re-triggering while open is rejected.
func (r *Relay) Open() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open {
		return ErrAlreadyOpen
	}
	r.open = true
	return nil
}

// IsOpen reports whether the auth surface is currently revealed.
func (r *Relay) IsOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open
}

// Deliver hands an inbound message to the relay together with its declared
// origin. Messages from any other origin are silently discarded, even when
// well-formed. Accepted messages update the session and are forwarded to the
// subscription channel.
func (r *Relay) Deliver(origin string, msg Message) {
	if origin != r.origin {
		r.logger.Debug("Discarding message from foreign origin",
			zap.String("origin", origin),
			zap.String("expected", r.origin))
		return
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	switch m := msg.(type) {
	case AuthSuccess:
		if m.Cookies == "" {
			// An empty credential authorizes nothing; treat it as a failed
			// attempt so the surface stays open for a retry.
			r.failSession("")
			msg = AuthFailed{}
			break
		}
		r.session.Credential = m.Cookies
		r.session.StatusMessage = "Authorization successful"
		r.open = false
	case AuthFailed:
		r.failSession(m.Message)
	}

	// Forward under the lock so Close cannot slip in between the closed
	// check and the send.
	select {
	case r.messages <- msg:
	default:
		r.logger.Warn("Dropping auth message, subscriber not keeping up")
	}
	r.mu.Unlock()
}

// failSession records a failed handshake: any stored credential is dropped
// and the surface stays open for a retry. Callers hold r.mu.
func (r *Relay) failSession(reason string) {
	if reason == "" {
		reason = "Authorization failed"
	}
	r.session.Credential = ""
	r.session.StatusMessage = reason
}

// Messages returns the single subscription channel.
func (r *Relay) Messages() <-chan Message {
	return r.messages
}

// Session returns a snapshot of the current auth session.
func (r *Relay) Session() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// ClearCredential drops the stored credential on explicit user action.
func (r *Relay) ClearCredential() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session.Credential = ""
	r.session.StatusMessage = ""
}

// Close deregisters the subscription. Safe to call more than once; messages
// delivered afterwards are dropped.
func (r *Relay) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
		close(r.messages)
	})
}
