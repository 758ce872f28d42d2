// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the localrag backend.
//
// The client is the single point of contact with the server: chat CRUD,
// document CRUD, history search, and retrieval-augmented answer generation.
// Credentials are injected from a SettingsSource read at call time and travel
// as request headers, never in bodies.
//
// # Error Taxonomy
//
// Every failure is one of four kinds:
//
//   - ErrMissingCredential: a required key is absent (pre-flight, no network)
//   - RequestError: the server answered with a non-2xx status
//   - MalformedResponseError: a 2xx body that is not the expected JSON
//   - NetworkError: transport failure before any response
//
// There is no automatic retry; failures surface to the caller.
//
// # Usage
//
//	client := api.NewClient("http://127.0.0.1:8000", settings)
//	resp, err := client.Search(ctx, api.SearchRequest{Query: "drilling mud"})
//	if api.IsMissingCredential(err) {
//	    // prompt for a key
//	}
package api
