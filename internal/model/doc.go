// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the API client,
// the session manager, and the UI: chats, messages, retrieval sources, and
// the client-local query turns built from them.
package model
