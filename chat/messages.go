package chat

// TurnStatusMsg reports a phase transition while a turn runs.
type TurnStatusMsg struct {
	State  TurnState
	Detail string
}

// TurnCompleteMsg carries the finished turn back to the UI. Result.Err is
// set when the turn ended in StateFailed.
type TurnCompleteMsg struct {
	Result TurnResult
}

// ModelsListMsg carries the provider's model catalog. When the fetch
// failed, Models holds the defaults and Err the cause.
type ModelsListMsg struct {
	Models []string
	Err    error
}
