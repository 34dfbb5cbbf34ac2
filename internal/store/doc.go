// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists the session collection to local disk as a single
// JSON snapshot with atomic replace semantics and soft-failing loads.
package store
