package sse_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ultrapreps/visionqa/internal/infrastructure/sse"
	"github.com/ultrapreps/visionqa/pkg/domain/events"
)

func waitForClients(t *testing.T, h *sse.SSEHandler, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() < n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", n, h.Clients())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSSEHandler_StreamsFilteredEvents(t *testing.T) {
	dispatcher := events.NewEventDispatcher()
	handler := sse.NewSSEHandler(dispatcher)

	server := httptest.NewServer(handler)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", server.URL+"?types=batch.completed", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Type") != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %s", resp.Header.Get("Content-Type"))
	}

	waitForClients(t, handler, 1)
	_ = dispatcher.Dispatch(context.Background(), events.NewFallbackUsed("a.png", "openai:gpt-4o", nil))
	_ = dispatcher.Dispatch(context.Background(), events.NewBatchCompleted("run-42", 3, 2))

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	var got []string
	timeout := time.After(2 * time.Second)
	for len(got) < 3 {
		select {
		case l, ok := <-lines:
			if !ok {
				t.Fatalf("stream closed early: %v", got)
			}
			if l != "" {
				got = append(got, l)
			}
		case <-timeout:
			t.Fatalf("timed out, got %v", got)
		}
	}

	if got[1] != "event: batch.completed" {
		t.Errorf("expected batch event first, got %v", got)
	}
	if !strings.Contains(got[2], `"subject":"run-42"`) {
		t.Errorf("unexpected data line %q", got[2])
	}
}

func TestSSEHandler_RemovesClientOnDisconnect(t *testing.T) {
	dispatcher := events.NewEventDispatcher()
	handler := sse.NewSSEHandler(dispatcher)
	server := httptest.NewServer(handler)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, "GET", server.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	waitForClients(t, handler, 1)

	cancel()
	resp.Body.Close()

	deadline := time.Now().Add(2 * time.Second)
	for handler.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client not removed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
