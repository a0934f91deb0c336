package storage

import (
	"strings"
	"testing"
)

func TestStoreNewAndSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	conv := store.New()
	if conv.ID == "" {
		t.Fatal("new conversation has no ID")
	}
	if conv.Title != "New Conversation" {
		t.Errorf("title = %q", conv.Title)
	}
	if len(conv.Messages) != 1 || conv.Messages[0].Role != "system" {
		t.Fatalf("expected a single system message, got %+v", conv.Messages)
	}
	if conv.Messages[0].Content != DefaultSystemMessage {
		t.Errorf("system message = %q", conv.Messages[0].Content)
	}

	conv.Messages = append(conv.Messages,
		Message{Role: "user", Content: "What is the capital of France and its population?"},
		Message{Role: "assistant", Content: "Paris."},
	)
	if err := store.Save(conv); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Auto-title comes from the first user message, capped at 30 chars.
	wantTitle := "What is the capital of France " + "..."
	if conv.Title != wantTitle {
		t.Errorf("auto title = %q, want %q", conv.Title, wantTitle)
	}

	// A fresh store should reload the same data from disk.
	reloaded, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore reload: %v", err)
	}
	got, err := reloaded.Get(conv.ID)
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if got.Title != wantTitle || len(got.Messages) != 3 {
		t.Errorf("reloaded conversation = %+v", got)
	}
	if got.Messages[2].Content != "Paris." {
		t.Errorf("assistant message = %q", got.Messages[2].Content)
	}
}

func TestStoreSaveKeepsCustomTitle(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	conv := store.New()
	conv.Title = "Pinned title"
	conv.Messages = append(conv.Messages, Message{Role: "user", Content: "hello"})
	if err := store.Save(conv); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if conv.Title != "Pinned title" {
		t.Errorf("custom title was overwritten: %q", conv.Title)
	}
}

func TestStoreListOrdering(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	a := store.New()
	b := store.New()
	a.Timestamp = "2026-08-27 10:00:00"
	b.Timestamp = "2026-08-28 10:00:00"
	a.Title = "older"
	b.Title = "newer"

	list := store.List()
	if len(list) != 2 {
		t.Fatalf("List returned %d entries", len(list))
	}
	if list[0].Title != "newer" || list[1].Title != "older" {
		t.Errorf("list order = [%s, %s]", list[0].Title, list[1].Title)
	}
	if list[0].MessageCount != 1 {
		t.Errorf("message count = %d", list[0].MessageCount)
	}
}

func TestStoreDeleteAndRename(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	conv := store.New()
	if err := store.Save(conv); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Rename(conv.ID, "Renamed"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	got, err := store.Get(conv.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Renamed" {
		t.Errorf("title after rename = %q", got.Title)
	}

	if err := store.Delete(conv.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(conv.ID); err == nil {
		t.Error("Get succeeded after Delete")
	}
	if err := store.Delete(conv.ID); err == nil {
		t.Error("deleting a missing conversation should fail")
	}
}

func TestStoreCurrentID(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, err := store.LoadCurrentID(); err == nil {
		t.Error("LoadCurrentID should fail before any save")
	}
	if err := store.SaveCurrentID("abc-123"); err != nil {
		t.Fatalf("SaveCurrentID: %v", err)
	}
	id, err := store.LoadCurrentID()
	if err != nil {
		t.Fatalf("LoadCurrentID: %v", err)
	}
	if id != "abc-123" {
		t.Errorf("current ID = %q", id)
	}
}

func TestTitleFromFirstMessage(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		want     string
	}{
		{
			name: "skips system message",
			messages: []Message{
				{Role: "system", Content: DefaultSystemMessage},
				{Role: "user", Content: "short question"},
			},
			want: "short question",
		},
		{
			name: "newlines collapse to spaces",
			messages: []Message{
				{Role: "user", Content: "line one\nline two"},
			},
			want: "line one line two",
		},
		{
			name: "long content is truncated",
			messages: []Message{
				{Role: "user", Content: strings.Repeat("a", 40)},
			},
			want: strings.Repeat("a", 30) + "...",
		},
		{
			name:     "no user message",
			messages: []Message{{Role: "assistant", Content: "hi"}},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleFromFirstMessage(tt.messages); got != tt.want {
				t.Errorf("TitleFromFirstMessage = %q, want %q", got, tt.want)
			}
		})
	}
}
