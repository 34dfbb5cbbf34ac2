// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides session persistence for coach-tui.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/jeranaias/coach-tui/internal/model"
	"github.com/jeranaias/coach-tui/internal/util"
)

// FileName is the single named entry holding the JSON-serialized session
// list. There is no schema versioning and no per-session file; the whole
// collection is one snapshot.
const FileName = "sessions.json"

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore persists the full session collection as one JSON document.
//
// Semantics are whole-collection snapshot only: SaveAll replaces the entire
// persisted state atomically, and Load either returns the last complete
// snapshot or nothing. A reader can never observe a partial commit.
type SessionStore struct {
	// Dir is the data directory, default ~/.coach
	Dir string
}

// New creates a session store rooted at the default data directory.
func New() (*SessionStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewWithDir(filepath.Join(homeDir, ".coach"))
}

// NewWithDir creates a store with a custom data directory.
func NewWithDir(dir string) (*SessionStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &SessionStore{Dir: dir}, nil
}

// path returns the snapshot file path.
func (s *SessionStore) path() string {
	return filepath.Join(s.Dir, FileName)
}

// =============================================================================
// LOAD
// =============================================================================

// Load returns the persisted session list, most recent first.
//
// Load fails soft: a missing file, unreadable file, or corrupt JSON all
// yield an empty list, never an error the user has to deal with. The caller
// is expected to start a fresh session when the list comes back empty.
func (s *SessionStore) Load() []model.Session {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.path()).Msg("failed to read session snapshot, starting fresh")
		}
		return []model.Session{}
	}

	var sessions []model.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.Warn().Err(err).Str("path", s.path()).Msg("corrupt session snapshot, starting fresh")
		return []model.Session{}
	}

	// Persisted messages are final by definition; scrub any streaming flag
	// that a crash mid-exchange could have left behind.
	for i := range sessions {
		for j := range sessions[i].Messages {
			sessions[i].Messages[j].IsStreaming = false
		}
	}

	return sessions
}

// =============================================================================
// SAVE
// =============================================================================

// SaveAll replaces the entire persisted collection. The write is atomic
// (temp file + fsync + rename), so a crash leaves either the previous
// snapshot or this one, never a torn file.
func (s *SessionStore) SaveAll(sessions []model.Session) error {
	if sessions == nil {
		sessions = []model.Session{}
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return err
	}

	return util.AtomicWriteFile(s.path(), data, 0644)
}
