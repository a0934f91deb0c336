package ui

import "grokchat/storage"

type markdownRenderedMsg struct {
	MessageIndex int
	Rendered     string
}

type conversationsListMsg struct {
	Conversations []storage.Metadata
	Err           error
}

type conversationSavedMsg struct {
	Err error
}

type searchResultsMsg struct {
	Matches []storage.MessageMatch
	Err     error
}

type clipboardCopiedMsg struct {
	Err error
}
