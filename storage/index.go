package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// MessageMatch is one search hit across all conversations.
type MessageMatch struct {
	ConversationID    string
	ConversationTitle string
	MessageIndex      int
	Role              string
	Content           string
	Preview           string
	Timestamp         string
}

// SearchIndex mirrors conversation messages into SQLite so the UI can
// search across conversations without loading everything into memory.
type SearchIndex struct {
	db *sql.DB
}

// NewSearchIndex opens (or creates) the index database under dataDir.
func NewSearchIndex(dataDir string) (*SearchIndex, error) {
	dbPath := filepath.Join(dataDir, "messages.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping index database: %w", err)
	}

	idx := &SearchIndex{db: db}
	if err := idx.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize index database: %w", err)
	}
	return idx, nil
}

func (idx *SearchIndex) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS messages (
		conversation_id TEXT NOT NULL,
		conversation_title TEXT NOT NULL,
		message_index INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		PRIMARY KEY (conversation_id, message_index)
	);
	CREATE INDEX IF NOT EXISTS idx_messages_content ON messages(content);
	`
	_, err := idx.db.Exec(schema)
	return err
}

// Reindex replaces the index rows for one conversation. System messages are
// not searchable.
func (idx *SearchIndex) Reindex(conv *Conversation) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin index transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conv.ID); err != nil {
		return fmt.Errorf("failed to clear index rows: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO messages
		(conversation_id, conversation_title, message_index, role, content, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare index insert: %w", err)
	}
	defer stmt.Close()

	for i, msg := range conv.Messages {
		if msg.Role == "system" {
			continue
		}
		if _, err := stmt.Exec(conv.ID, conv.Title, i, msg.Role, msg.Content, conv.Timestamp); err != nil {
			return fmt.Errorf("failed to index message: %w", err)
		}
	}

	return tx.Commit()
}

// Remove drops all index rows for a deleted conversation.
func (idx *SearchIndex) Remove(conversationID string) error {
	_, err := idx.db.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conversationID)
	if err != nil {
		return fmt.Errorf("failed to remove index rows: %w", err)
	}
	return nil
}

// Search returns messages containing the query, newest conversations first.
func (idx *SearchIndex) Search(query string) ([]MessageMatch, error) {
	if strings.TrimSpace(query) == "" {
		return []MessageMatch{}, nil
	}

	rows, err := idx.db.Query(`SELECT
		conversation_id, conversation_title, message_index, role, content, timestamp
		FROM messages
		WHERE content LIKE ? COLLATE NOCASE
		ORDER BY timestamp DESC, message_index ASC`,
		"%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}
	defer rows.Close()

	var matches []MessageMatch
	for rows.Next() {
		var m MessageMatch
		if err := rows.Scan(&m.ConversationID, &m.ConversationTitle, &m.MessageIndex, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan index row: %w", err)
		}
		m.Preview = previewOf(m.Content)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Close releases the database handle.
func (idx *SearchIndex) Close() error {
	return idx.db.Close()
}

func previewOf(content string) string {
	content = strings.ReplaceAll(content, "\n", " ")
	if len(content) > 100 {
		return content[:100] + "..."
	}
	return content
}
