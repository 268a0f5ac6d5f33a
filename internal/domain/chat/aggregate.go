package chat

// ConversationSummary is the per-counterpart rollup of the most recent
// message exchanged with the current user. Derived on every pass, never
// persisted or patched incrementally.
type ConversationSummary struct {
	Counterpart     string `json:"counterpart"`
	LastMessageText string `json:"lastMessageText"`
	LastMessageTime string `json:"lastMessageTimestamp"`
}

// Aggregate scans the full message collection once and folds it into one
// summary per counterpart of the current user. Summaries come back in
// first-seen counterpart order, not recency order; callers wanting recency
// must sort. Within a counterpart the chronologically latest message wins,
// with ties keeping the earlier-seen value. A user with no messages yields
// an empty slice.
func Aggregate(messages []Message, current string) []ConversationSummary {
	summaries := make([]ConversationSummary, 0)
	index := make(map[string]int)

	for _, msg := range messages {
		if !msg.Involves(current) {
			continue
		}
		counterpart := msg.Counterpart(current)
		at, ok := index[counterpart]
		if !ok {
			index[counterpart] = len(summaries)
			summaries = append(summaries, ConversationSummary{
				Counterpart:     counterpart,
				LastMessageText: msg.Text,
				LastMessageTime: msg.Timestamp,
			})
			continue
		}
		stored := Message{Timestamp: summaries[at].LastMessageTime}
		if msg.Time().After(stored.Time()) {
			summaries[at].LastMessageText = msg.Text
			summaries[at].LastMessageTime = msg.Timestamp
		}
	}
	return summaries
}

// History filters the collection down to the exchange between the current
// user and one counterpart, preserving the source order. Chronological
// display therefore depends on the store returning messages time-ordered,
// which it does for append-only collections.
func History(messages []Message, current, counterpart string) []Message {
	history := make([]Message, 0)
	for _, msg := range messages {
		if (msg.Sender == current && msg.Receiver == counterpart) ||
			(msg.Sender == counterpart && msg.Receiver == current) {
			history = append(history, msg)
		}
	}
	return history
}
