// Package storage persists conversations to the data directory and keeps a
// SQLite index for message search across conversations.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"grokchat/tools"
)

// TimestampFormat is the on-disk timestamp layout.
const TimestampFormat = "2006-01-02 15:04:05"

// DefaultSystemMessage seeds every new conversation.
const DefaultSystemMessage = "You are a highly intelligent AI assistant powered by the Grok model from xAI."

// Message is one conversation entry. Reasoning and the tool fields are only
// present on assistant messages from turns that used them.
type Message struct {
	Role        string                 `json:"role"`
	Content     string                 `json:"content"`
	Reasoning   string                 `json:"reasoning,omitempty"`
	ToolsUsed   []string               `json:"tools_used,omitempty"`
	ToolResults []tools.ResultEnvelope `json:"tool_results,omitempty"`
}

// Conversation is one persisted chat thread.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Timestamp string    `json:"timestamp"`
	Messages  []Message `json:"messages"`
}

// Metadata is a lightweight view for listing conversations.
type Metadata struct {
	ID           string
	Title        string
	Timestamp    string
	MessageCount int
}

// Store holds all conversations in memory and rewrites conversations.json
// as a whole on every save.
type Store struct {
	path          string
	currentIDPath string
	conversations map[string]*Conversation
}

// NewStore opens (or creates) the conversation store under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		path:          filepath.Join(dataDir, "conversations.json"),
		currentIDPath: filepath.Join(dataDir, "current_conversation.id"),
		conversations: make(map[string]*Conversation),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read conversations file: %w", err)
	}

	if err := json.Unmarshal(data, &s.conversations); err != nil {
		return fmt.Errorf("failed to unmarshal conversations: %w", err)
	}
	return nil
}

// flush rewrites the whole collection. Conversation files contain private
// chat history, hence 0600.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.conversations, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversations: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write conversations file: %w", err)
	}
	return nil
}

// New creates a conversation seeded with the default system message. The
// caller still needs Save to persist it.
func (s *Store) New() *Conversation {
	conv := &Conversation{
		ID:        uuid.New().String(),
		Title:     "New Conversation",
		Timestamp: time.Now().Format(TimestampFormat),
		Messages: []Message{
			{Role: "system", Content: DefaultSystemMessage},
		},
	}
	s.conversations[conv.ID] = conv
	return conv
}

// Save updates the conversation's timestamp and auto-title, then rewrites
// the collection.
func (s *Store) Save(conv *Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}
	conv.Timestamp = time.Now().Format(TimestampFormat)
	if conv.Title == "" || conv.Title == "New Conversation" {
		if title := TitleFromFirstMessage(conv.Messages); title != "" {
			conv.Title = title
		}
	}

	s.conversations[conv.ID] = conv
	return s.flush()
}

// Get returns the conversation with the given ID, or an error.
func (s *Store) Get(id string) (*Conversation, error) {
	conv, ok := s.conversations[id]
	if !ok {
		return nil, fmt.Errorf("conversation %s not found", id)
	}
	return conv, nil
}

// List returns metadata for all conversations, newest first.
func (s *Store) List() []Metadata {
	list := make([]Metadata, 0, len(s.conversations))
	for _, conv := range s.conversations {
		list = append(list, Metadata{
			ID:           conv.ID,
			Title:        conv.Title,
			Timestamp:    conv.Timestamp,
			MessageCount: len(conv.Messages),
		})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Timestamp != list[j].Timestamp {
			return list[i].Timestamp > list[j].Timestamp
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// Delete removes a conversation and rewrites the collection.
func (s *Store) Delete(id string) error {
	if _, ok := s.conversations[id]; !ok {
		return fmt.Errorf("conversation %s not found", id)
	}
	delete(s.conversations, id)
	return s.flush()
}

// Rename sets a new title and rewrites the collection.
func (s *Store) Rename(id, title string) error {
	conv, err := s.Get(id)
	if err != nil {
		return err
	}
	conv.Title = title
	return s.flush()
}

// SaveCurrentID records the active conversation so the next start can
// restore it.
func (s *Store) SaveCurrentID(id string) error {
	return os.WriteFile(s.currentIDPath, []byte(id), 0600)
}

// LoadCurrentID returns the last active conversation ID.
func (s *Store) LoadCurrentID() (string, error) {
	data, err := os.ReadFile(s.currentIDPath)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// TitleFromFirstMessage derives a conversation title from the first user
// message, truncated to 30 characters.
func TitleFromFirstMessage(messages []Message) string {
	for _, msg := range messages {
		if msg.Role != "user" {
			continue
		}
		title := strings.ReplaceAll(msg.Content, "\n", " ")
		title = strings.TrimSpace(title)
		if len(title) > 30 {
			title = title[:30] + "..."
		}
		return title
	}
	return ""
}
