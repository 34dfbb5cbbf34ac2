// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller orchestrates conversation exchanges between the UI,
// the stream accumulator and the session store.
package controller

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jeranaias/coach-tui/internal/genai"
	"github.com/jeranaias/coach-tui/internal/model"
	"github.com/jeranaias/coach-tui/internal/stream"
)

// ErrorMessageContent is the fixed, user-visible reply appended when a
// stream fails. The in-progress draft is abandoned, never committed.
const ErrorMessageContent = "**Error:** Could not generate response. Please try again."

// Store is the persistence contract the controller needs.
type Store interface {
	Load() []model.Session
	SaveAll(sessions []model.Session) error
}

// =============================================================================
// EXCHANGE
// =============================================================================

// Exchange is one in-flight send. Snapshots must be fed back into
// ApplySnapshot together with the exchange's epoch; the epoch lets the
// controller discard late snapshots from a stream orphaned by a session
// switch.
type Exchange struct {
	Epoch     uint64
	Snapshots <-chan stream.Snapshot
	cancel    context.CancelFunc
}

// Cancel aborts the exchange's stream. The snapshot channel still closes
// normally, so the usual ApplySnapshot/FinishExchange path runs.
func (e *Exchange) Cancel() {
	if e.cancel != nil {
		e.cancel()
	}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the session list, the current-session selection and the
// in-flight guard for one exchange at a time.
//
// It is not safe for concurrent use: every method must be called from the
// same goroutine (the Bubble Tea update loop). The only concurrency is the
// accumulator goroutine behind an Exchange, which communicates exclusively
// through its snapshot channel.
type Controller struct {
	store     Store
	transport stream.Transport

	sessions  []model.Session // most-recent-first
	currentID string
	messages  []model.Message // working copy of the current session's list
	history   genai.History   // transport context, rebuilt wholesale on switch

	inFlight bool
	epoch    uint64
	cancel   context.CancelFunc

	placeholderID string // streaming placeholder of the active exchange
}

// New creates a controller, loads persisted sessions and selects the most
// recent one, or starts a fresh session when the store is empty.
func New(store Store, transport stream.Transport) *Controller {
	c := &Controller{
		store:     store,
		transport: transport,
	}

	c.sessions = store.Load()
	if len(c.sessions) == 0 {
		c.NewSession()
	} else {
		c.SelectSession(c.sessions[0].ID)
	}

	return c
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Sessions returns the session list, most recent first.
func (c *Controller) Sessions() []model.Session {
	return c.sessions
}

// CurrentID returns the selected session's ID.
func (c *Controller) CurrentID() string {
	return c.currentID
}

// Messages returns the visible message list for the current session.
func (c *Controller) Messages() []model.Message {
	return c.messages
}

// InFlight reports whether an exchange is currently running.
func (c *Controller) InFlight() bool {
	return c.inFlight
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// NewSession creates a new empty session, prepends it to the list (most
// recent first), makes it current, clears the visible messages and resets
// the transport context to empty history. Any outstanding exchange is
// orphaned: its context is cancelled and its remaining snapshots will be
// dropped as stale.
func (c *Controller) NewSession() {
	c.orphanExchange()

	sess := model.NewSession()
	c.sessions = append([]model.Session{sess}, c.sessions...)
	c.currentID = sess.ID
	c.messages = []model.Message{}
	c.history = genai.History{}

	c.persist()
}

// SelectSession switches the current session and rehydrates the transport
// context by replaying every stored message as alternating user/model turns
// in original order. Unknown ids are ignored.
func (c *Controller) SelectSession(id string) {
	idx := c.indexOf(id)
	if idx < 0 {
		return
	}

	c.orphanExchange()

	c.currentID = id
	c.messages = c.sessions[idx].CloneMessages()
	c.history = genai.HistoryFromMessages(c.messages)
}

// DeleteSession removes a session. Deleting the current session selects the
// most recent remaining one, or creates a fresh session when none remain.
func (c *Controller) DeleteSession(id string) {
	idx := c.indexOf(id)
	if idx < 0 {
		return
	}

	wasCurrent := c.currentID == id
	c.sessions = append(c.sessions[:idx], c.sessions[idx+1:]...)

	if wasCurrent {
		c.orphanExchange()
		if len(c.sessions) > 0 {
			c.SelectSession(c.sessions[0].ID)
		} else {
			c.NewSession()
			return // NewSession already persisted
		}
	}

	c.persist()
}

// =============================================================================
// SEND
// =============================================================================

// SendMessage starts one exchange: it appends the user message to the
// visible list and persists it immediately (so it survives a failed AI
// turn), installs a streaming placeholder, and opens the accumulator.
//
// Returns nil when there is no current session or an exchange is already in
// flight; both are no-ops by design, not errors.
//
// The caller must forward every snapshot from Exchange.Snapshots to
// ApplySnapshot and call FinishExchange when the channel closes.
func (c *Controller) SendMessage(text string) *Exchange {
	if c.currentID == "" || c.inFlight {
		return nil
	}

	userMsg := model.NewUserMessage(text)
	c.messages = append(c.messages, userMsg)
	c.commitCurrent()

	placeholder := model.NewModelMessage()
	c.placeholderID = placeholder.ID
	c.messages = append(c.messages, placeholder)

	c.epoch++
	c.inFlight = true

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	// History was rebuilt at selection time and extended after each
	// completed exchange; the new user text rides alongside it.
	acc := stream.New(c.transport)
	snapshots := acc.Run(ctx, c.history, text)

	log.Debug().Str("session", c.currentID).Uint64("epoch", c.epoch).Msg("exchange started")

	return &Exchange{Epoch: c.epoch, Snapshots: snapshots, cancel: cancel}
}

// ApplySnapshot folds one accumulator snapshot into the visible list.
// Snapshots from a stale epoch are discarded wholesale. Returns true when
// the visible list changed and the UI should re-render.
func (c *Controller) ApplySnapshot(epoch uint64, snap stream.Snapshot) bool {
	if epoch != c.epoch {
		log.Debug().Uint64("stale", epoch).Uint64("current", c.epoch).Msg("dropping stale snapshot")
		return false
	}

	switch {
	case snap.Err != nil:
		// The draft is abandoned; a fixed, non-streaming error message
		// replaces the placeholder and the result is committed.
		log.Warn().Err(snap.Err).Str("session", c.currentID).Msg("exchange failed")
		c.replacePlaceholder(model.NewMessage(model.RoleModel, ErrorMessageContent))
		c.commitCurrent()
		c.endExchange()

	case !snap.Message.IsStreaming:
		// Normal completion: final message replaces the placeholder, the
		// whole list is committed, and the transport context grows by
		// this exchange's two turns.
		final := snap.Message
		c.replacePlaceholder(final)
		c.commitCurrent()
		c.extendHistory(final)
		c.endExchange()

	default:
		// Intermediate snapshot: swap the placeholder's current state.
		snap.Message.ID = c.placeholderID
		c.updatePlaceholder(snap.Message)
	}

	return true
}

// FinishExchange guarantees the in-flight flag is cleared once an
// exchange's snapshot channel closes, whatever happened inside it. Stale
// epochs are ignored.
func (c *Controller) FinishExchange(epoch uint64) {
	if epoch != c.epoch || !c.inFlight {
		return
	}

	// Terminal snapshot never arrived (cancellation race): drop the
	// placeholder so no dangling streaming message survives.
	c.removePlaceholder()
	c.endExchange()
}

// =============================================================================
// INTERNAL
// =============================================================================

// orphanExchange cancels any outstanding stream and bumps the epoch so its
// late snapshots are recognized as stale. The in-flight flag is cleared
// here rather than waiting for the orphaned channel to drain.
func (c *Controller) orphanExchange() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.inFlight {
		c.epoch++
		c.inFlight = false
		c.placeholderID = ""
	}
}

// endExchange clears the in-flight state after a terminal event.
func (c *Controller) endExchange() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.inFlight = false
	c.placeholderID = ""
}

// replacePlaceholder swaps the streaming placeholder for its final form.
func (c *Controller) replacePlaceholder(final model.Message) {
	for i := range c.messages {
		if c.messages[i].ID == c.placeholderID {
			final.ID = c.placeholderID
			c.messages[i] = final
			return
		}
	}
}

// updatePlaceholder overwrites the placeholder's streaming state in place.
func (c *Controller) updatePlaceholder(msg model.Message) {
	for i := range c.messages {
		if c.messages[i].ID == c.placeholderID {
			c.messages[i] = msg
			return
		}
	}
}

// removePlaceholder drops the placeholder from the visible list.
func (c *Controller) removePlaceholder() {
	for i := range c.messages {
		if c.messages[i].ID == c.placeholderID {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			return
		}
	}
}

// extendHistory appends the completed exchange's turns to the transport
// context, keeping it equivalent to a rebuilt one.
func (c *Controller) extendHistory(final model.Message) {
	if n := len(c.messages); n >= 2 {
		user := c.messages[n-2]
		c.history = append(c.history, genai.Turn{Role: user.Role, Text: user.Content})
	}
	c.history = append(c.history, genai.Turn{Role: final.Role, Text: final.Content})
}

// commitCurrent replaces the current session's message list with a clone of
// the visible list (excluding any still-streaming placeholder) and persists
// the whole collection.
func (c *Controller) commitCurrent() {
	idx := c.indexOf(c.currentID)
	if idx < 0 {
		return
	}

	committed := make([]model.Message, 0, len(c.messages))
	for _, msg := range c.messages {
		if msg.IsStreaming {
			continue
		}
		committed = append(committed, msg.Clone())
	}

	c.sessions[idx].ReplaceMessages(committed)
	c.persist()
}

// persist writes the whole collection; persistence failures are logged and
// otherwise swallowed so a full disk can't take down the conversation.
func (c *Controller) persist() {
	if err := c.store.SaveAll(c.sessions); err != nil {
		log.Error().Err(err).Msg("failed to persist sessions")
	}
}

// indexOf finds a session by id, -1 when absent.
func (c *Controller) indexOf(id string) int {
	for i := range c.sessions {
		if c.sessions[i].ID == id {
			return i
		}
	}
	return -1
}
