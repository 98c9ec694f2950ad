package services

import (
	"fmt"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestConversationStore_OpenAndGet(t *testing.T) {
	store := NewConversationStore(testLogger(t))
	store.Open("conv-1", "Class 1", []uint{3, 7})

	rec, ok := store.Get("conv-1")
	if !ok {
		t.Fatalf("expected record for opened conversation")
	}
	if rec.ID != "conv-1" || rec.Grade != "Class 1" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(rec.BookIDs) != 2 || rec.BookIDs[0] != 3 {
		t.Fatalf("unexpected book ids: %v", rec.BookIDs)
	}
	if len(rec.Messages) != 0 {
		t.Fatalf("expected empty transcript, got %d messages", len(rec.Messages))
	}
}

func TestConversationStore_GetUnknown(t *testing.T) {
	store := NewConversationStore(testLogger(t))
	if _, ok := store.Get("missing"); ok {
		t.Fatalf("expected no record for unknown id")
	}
	if msgs := store.Messages("missing"); len(msgs) != 0 {
		t.Fatalf("expected empty transcript for unknown id, got %d", len(msgs))
	}
}

func TestConversationStore_ReopenOverwrites(t *testing.T) {
	store := NewConversationStore(testLogger(t))
	store.Open("conv-1", "Class 1", []uint{3})
	store.AppendMessage("conv-1", openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: "hi"})

	store.Open("conv-1", "Class 2", []uint{9})
	rec, _ := store.Get("conv-1")
	if rec.Grade != "Class 2" {
		t.Fatalf("expected reopened grade, got %q", rec.Grade)
	}
	if len(rec.Messages) != 0 {
		t.Fatalf("expected transcript reset on reopen, got %d messages", len(rec.Messages))
	}
}

func TestConversationStore_AttachSystemPrompt(t *testing.T) {
	store := NewConversationStore(testLogger(t))
	store.Open("conv-1", "Class 1", nil)

	store.AttachSystemPrompt("conv-1", "instructions")
	rec, _ := store.Get("conv-1")
	if rec.SystemPrompt != "instructions" {
		t.Fatalf("expected cached prompt, got %q", rec.SystemPrompt)
	}

	// Unknown ids are a silent no-op.
	store.AttachSystemPrompt("missing", "instructions")
	if _, ok := store.Get("missing"); ok {
		t.Fatalf("expected attach on unknown id to not create a record")
	}
}

func TestConversationStore_AppendPreservesOrder(t *testing.T) {
	store := NewConversationStore(testLogger(t))
	store.Open("conv-1", "Class 1", nil)

	for i := 0; i < 5; i++ {
		store.AppendMessage("conv-1", openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf("turn %d", i),
		})
	}
	msgs := store.Messages("conv-1")
	if len(msgs) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(msgs))
	}
	for i, msg := range msgs {
		if msg.Content != fmt.Sprintf("turn %d", i) {
			t.Fatalf("expected transcript order preserved, got %q at %d", msg.Content, i)
		}
	}
}

func TestConversationStore_SnapshotIsIsolated(t *testing.T) {
	store := NewConversationStore(testLogger(t))
	store.Open("conv-1", "Class 1", []uint{1})
	store.AppendMessage("conv-1", openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: "hi"})

	rec, _ := store.Get("conv-1")
	rec.Messages[0].Content = "mutated"
	rec.BookIDs[0] = 99

	fresh, _ := store.Get("conv-1")
	if fresh.Messages[0].Content != "hi" || fresh.BookIDs[0] != 1 {
		t.Fatalf("expected snapshot mutation to not leak into the store: %+v", fresh)
	}
}

func TestConversationStore_ConcurrentAppends(t *testing.T) {
	store := NewConversationStore(testLogger(t))
	store.Open("conv-1", "Class 1", nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AppendMessage("conv-1", openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: "x"})
		}()
	}
	wg.Wait()

	if msgs := store.Messages("conv-1"); len(msgs) != 20 {
		t.Fatalf("expected all concurrent appends recorded, got %d", len(msgs))
	}
}
