// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genai provides the HTTP client for the hosted Coach chat API.
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jeranaias/coach-tui/internal/model"
)

// newTestClient points a client at a test server with throttling disabled.
func newTestClient(url string) *Client {
	return NewClient(&ClientConfig{
		BaseURL:           url,
		Model:             "coach-test",
		System:            "test system",
		ConnectTimeout:    2 * time.Second,
		RequestsPerMinute: 0,
	})
}

// collect drains a fragment channel into a slice.
func collect(ch <-chan Fragment) []Fragment {
	var out []Fragment
	for frag := range ch {
		out = append(out, frag)
	}
	return out
}

// =============================================================================
// HISTORY TESTS
// =============================================================================

func TestHistoryFromMessages(t *testing.T) {
	messages := []model.Message{
		model.NewUserMessage("question"),
		model.NewMessage(model.RoleModel, "answer"),
		model.NewUserMessage("follow-up"),
	}

	h := HistoryFromMessages(messages)

	if len(h) != 3 {
		t.Fatalf("History length = %d, want 3", len(h))
	}
	if h[0].Role != model.RoleUser || h[0].Text != "question" {
		t.Errorf("turn 0 = %+v", h[0])
	}
	if h[1].Role != model.RoleModel || h[1].Text != "answer" {
		t.Errorf("turn 1 = %+v", h[1])
	}
	if h[2].Role != model.RoleUser || h[2].Text != "follow-up" {
		t.Errorf("turn 2 = %+v", h[2])
	}
}

// =============================================================================
// STREAMING TESTS
// =============================================================================

func TestStreamChatDeliversFragmentsInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/stream" {
			t.Errorf("path = %q, want /v1/chat/stream", r.URL.Path)
		}
		w.Write([]byte(`{"text":"Hi"}` + "\n"))
		w.Write([]byte(`{"text":" there"}` + "\n"))
		w.Write([]byte(`{"text":"","done":true}` + "\n"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	frags := collect(client.StreamChat(context.Background(), nil, "Hello"))

	if len(frags) != 3 {
		t.Fatalf("got %d fragments, want 3", len(frags))
	}
	if frags[0].TextDelta != "Hi" || frags[1].TextDelta != " there" {
		t.Errorf("deltas = %q, %q", frags[0].TextDelta, frags[1].TextDelta)
	}
	if !frags[2].Done {
		t.Error("last fragment should be Done")
	}
	for _, f := range frags {
		if f.Err != nil {
			t.Errorf("unexpected fragment error: %v", f.Err)
		}
	}
}

func TestStreamChatCarriesSources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"Result:","sources":[{"title":"A","uri":"u1"}]}` + "\n"))
		w.Write([]byte(`{"text":" ok","done":true}` + "\n"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	frags := collect(client.StreamChat(context.Background(), nil, "q"))

	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}
	if len(frags[0].Sources) != 1 || frags[0].Sources[0].URI != "u1" {
		t.Errorf("sources = %+v", frags[0].Sources)
	}
	if frags[1].Sources != nil {
		t.Errorf("second fragment should carry no sources, got %+v", frags[1].Sources)
	}
}

func TestStreamChatSendsHistoryAndSystem(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"text":"ok","done":true}` + "\n"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	history := History{
		{Role: model.RoleUser, Text: "first"},
		{Role: model.RoleModel, Text: "reply"},
	}
	collect(client.StreamChat(context.Background(), history, "second"))

	if got.Model != "coach-test" {
		t.Errorf("Model = %q", got.Model)
	}
	if got.System != "test system" {
		t.Errorf("System = %q", got.System)
	}
	if !got.Stream {
		t.Error("Stream should be true")
	}
	if len(got.Messages) != 3 {
		t.Fatalf("Messages length = %d, want 3 (history + new)", len(got.Messages))
	}
	if got.Messages[2].Role != model.RoleUser || got.Messages[2].Text != "second" {
		t.Errorf("last turn = %+v", got.Messages[2])
	}
}

func TestStreamChatInBandError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"partial"}` + "\n"))
		w.Write([]byte(`{"error":"model overloaded"}` + "\n"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	frags := collect(client.StreamChat(context.Background(), nil, "q"))

	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}
	if frags[0].TextDelta != "partial" {
		t.Errorf("first delta = %q", frags[0].TextDelta)
	}
	last := frags[len(frags)-1]
	if last.Err == nil {
		t.Fatal("final fragment should carry the stream error")
	}
	var clientErr *ClientError
	if !errors.As(last.Err, &clientErr) || clientErr.Type != ErrTypeInvalidResponse {
		t.Errorf("error = %v, want invalid-response ClientError", last.Err)
	}
}

func TestStreamChatHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	frags := collect(client.StreamChat(context.Background(), nil, "q"))

	if len(frags) != 1 || frags[0].Err == nil {
		t.Fatalf("want a single error fragment, got %+v", frags)
	}
}

func TestStreamChatUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	frags := collect(client.StreamChat(context.Background(), nil, "q"))

	if len(frags) != 1 || !errors.Is(frags[0].Err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized fragment, got %+v", frags)
	}
}

func TestStreamChatUnreachable(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	frags := collect(client.StreamChat(context.Background(), nil, "q"))

	if len(frags) != 1 || frags[0].Err == nil {
		t.Fatalf("want a single error fragment, got %+v", frags)
	}
}

func TestStreamChatEOFWithoutDoneMarker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"all"}` + "\n"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	frags := collect(client.StreamChat(context.Background(), nil, "q"))

	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}
	if !frags[1].Done {
		t.Error("EOF should synthesize a Done fragment")
	}
}

func TestStreamChatSkipsBlankAndMalformedLines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\n"))
		w.Write([]byte("not json\n"))
		w.Write([]byte(`{"text":"ok","done":true}` + "\n"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	frags := collect(client.StreamChat(context.Background(), nil, "q"))

	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(frags))
	}
	if frags[0].TextDelta != "ok" || !frags[0].Done {
		t.Errorf("fragment = %+v", frags[0])
	}
}

func TestStreamChatSendsBearerToken(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{"done":true}` + "\n"))
	}))
	defer server.Close()

	client := NewClient(&ClientConfig{BaseURL: server.URL, APIKey: "sk-test"})
	collect(client.StreamChat(context.Background(), nil, "q"))

	if auth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want bearer token", auth)
	}
}

func TestStreamChatContextCancel(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"first"}` + "\n"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	client := newTestClient(server.URL)
	ch := client.StreamChat(ctx, nil, "q")

	first := <-ch
	if first.TextDelta != "first" {
		t.Fatalf("first delta = %q", first.TextDelta)
	}

	cancel()

	// The channel must close promptly after cancellation.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after context cancel")
		}
	}
}

// =============================================================================
// LINE DECODING TESTS
// =============================================================================

func TestDecodeLine(t *testing.T) {
	frag, ok, err := decodeLine([]byte(`{"text":"hi","sources":[{"title":"T","uri":"u"}]}`))
	if err != nil || !ok {
		t.Fatalf("decodeLine failed: ok=%v err=%v", ok, err)
	}
	if frag.TextDelta != "hi" || len(frag.Sources) != 1 {
		t.Errorf("fragment = %+v", frag)
	}

	if _, ok, _ := decodeLine([]byte("   \n")); ok {
		t.Error("blank line should not produce a fragment")
	}

	if _, _, err := decodeLine([]byte(`{"error":"nope"}`)); err == nil {
		t.Error("error line should fail the stream")
	}
}
