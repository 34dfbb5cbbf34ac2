// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genai implements the transport to the hosted Coach chat API.
//
// The contract is deliberately narrow: the caller supplies an explicit
// History value (prior user/model turns) plus one new user message, and
// receives a lazy, finite channel of Fragment values. Each fragment carries
// a text delta and optionally the citation sources first reported with it;
// fragments are never cumulative. A stream terminates exactly once, either
// with a Done fragment or with a single Err fragment.
//
// The client holds no per-conversation state. Rebuilding History from a
// stored session (see HistoryFromMessages) reconstructs a context
// equivalent to a continuous conversation.
package genai
