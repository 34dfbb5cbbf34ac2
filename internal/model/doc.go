// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the core data types shared across the application:
// roles, citation sources, messages and sessions.
//
// Invariants maintained by the owners of these values:
//   - At most one message per session has IsStreaming = true.
//   - A message's content is append-only while streaming, immutable after.
//   - A message's sources never contain two entries with the same URI and
//     never shrink while streaming.
//   - A session's title is derived once, from the first user message, and
//     never changed afterwards.
package model
