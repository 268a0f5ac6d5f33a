package chat

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func msg(sender, receiver, text, ts string) Message {
	return Message{Sender: sender, Receiver: receiver, Text: text, Timestamp: ts}
}

func TestAggregateOneCounterpartOneSummary(t *testing.T) {
	messages := []Message{
		msg("+998901110000", "+998902220000", "one", "2024-12-01T10:00:00Z"),
		msg("+998902220000", "+998901110000", "two", "2024-12-01T11:00:00Z"),
		msg("+998901110000", "+998902220000", "three", "2024-12-01T12:00:00Z"),
	}
	summaries := Aggregate(messages, "+998901110000")
	assert.Equal(t, len(summaries), 1)
	assert.Equal(t, summaries[0].Counterpart, "+998902220000")
}

func TestAggregateLatestWinsRegardlessOfOrder(t *testing.T) {
	t1 := msg("+998902220000", "+998901110000", "first", "2024-12-01T08:00:00Z")
	t2 := msg("+998901110000", "+998902220000", "second", "2024-12-01T09:00:00Z")
	t3 := msg("+998902220000", "+998901110000", "third", "2024-12-01T10:00:00Z")

	orders := [][]Message{
		{t1, t2, t3},
		{t3, t2, t1},
		{t2, t3, t1},
	}
	for _, messages := range orders {
		summaries := Aggregate(messages, "+998901110000")
		assert.Equal(t, len(summaries), 1)
		assert.Equal(t, summaries[0].LastMessageText, "third")
		assert.Equal(t, summaries[0].LastMessageTime, "2024-12-01T10:00:00Z")
	}
}

func TestAggregateFirstSeenOrder(t *testing.T) {
	// A talks to B, then B replies later, then A talks to C: B stays first.
	messages := []Message{
		msg("+998901110000", "+998902220000", "hi", "2024-12-01T10:00:00Z"),
		msg("+998902220000", "+998901110000", "hey", "2024-12-01T11:00:00Z"),
		msg("+998901110000", "+998903330000", "yo", "2024-12-01T12:00:00Z"),
	}
	summaries := Aggregate(messages, "+998901110000")
	assert.Equal(t, len(summaries), 2)
	assert.Equal(t, summaries[0].Counterpart, "+998902220000")
	assert.Equal(t, summaries[0].LastMessageText, "hey")
	assert.Equal(t, summaries[0].LastMessageTime, "2024-12-01T11:00:00Z")
	assert.Equal(t, summaries[1].Counterpart, "+998903330000")
	assert.Equal(t, summaries[1].LastMessageText, "yo")
}

func TestAggregateTieKeepsEarlierSeen(t *testing.T) {
	messages := []Message{
		msg("+998901110000", "+998902220000", "first seen", "2024-12-01T10:00:00Z"),
		msg("+998902220000", "+998901110000", "same instant", "2024-12-01T10:00:00Z"),
	}
	summaries := Aggregate(messages, "+998901110000")
	assert.Equal(t, len(summaries), 1)
	assert.Equal(t, summaries[0].LastMessageText, "first seen")
}

func TestAggregateIgnoresUnrelatedMessages(t *testing.T) {
	messages := []Message{
		msg("+998904440000", "+998905550000", "not ours", "2024-12-01T10:00:00Z"),
	}
	summaries := Aggregate(messages, "+998901110000")
	assert.Equal(t, len(summaries), 0)
}

func TestAggregateEmptyInput(t *testing.T) {
	summaries := Aggregate(nil, "+998901110000")
	assert.Equal(t, len(summaries), 0)
}

func TestAggregateIdempotent(t *testing.T) {
	messages := []Message{
		msg("+998901110000", "+998902220000", "hi", "2024-12-01T10:00:00Z"),
		msg("+998902220000", "+998901110000", "hey", "2024-12-01T11:00:00Z"),
		msg("+998901110000", "+998903330000", "yo", "2024-12-01T12:00:00Z"),
	}
	first := Aggregate(messages, "+998901110000")
	second := Aggregate(messages, "+998901110000")
	assert.Equal(t, first, second)
}

func TestAggregateMalformedTimestampSortsFirst(t *testing.T) {
	// A malformed timestamp maps to the zero time, so a well-formed message
	// always beats it.
	messages := []Message{
		msg("+998902220000", "+998901110000", "broken", "not-a-time"),
		msg("+998902220000", "+998901110000", "good", "2024-12-01T10:00:00Z"),
	}
	summaries := Aggregate(messages, "+998901110000")
	assert.Equal(t, len(summaries), 1)
	assert.Equal(t, summaries[0].LastMessageText, "good")

	// Reversed input: the malformed message never overwrites the good one.
	summaries = Aggregate([]Message{messages[1], messages[0]}, "+998901110000")
	assert.Equal(t, summaries[0].LastMessageText, "good")
}

func TestHistoryFiltersToPairInSourceOrder(t *testing.T) {
	messages := []Message{
		msg("+998901110000", "+998902220000", "one", "2024-12-01T10:00:00Z"),
		msg("+998901110000", "+998903330000", "other pair", "2024-12-01T10:30:00Z"),
		msg("+998902220000", "+998901110000", "two", "2024-12-01T11:00:00Z"),
		msg("+998904440000", "+998905550000", "unrelated", "2024-12-01T11:30:00Z"),
		msg("+998901110000", "+998902220000", "three", "2024-12-01T12:00:00Z"),
	}
	history := History(messages, "+998901110000", "+998902220000")
	assert.Equal(t, len(history), 3)
	assert.Equal(t, history[0].Text, "one")
	assert.Equal(t, history[1].Text, "two")
	assert.Equal(t, history[2].Text, "three")
}

func TestHistoryEmptyForStranger(t *testing.T) {
	messages := []Message{
		msg("+998901110000", "+998902220000", "one", "2024-12-01T10:00:00Z"),
	}
	history := History(messages, "+998901110000", "+998909990000")
	assert.Equal(t, len(history), 0)
}

func TestCounterpart(t *testing.T) {
	m := msg("+998901110000", "+998902220000", "hi", "2024-12-01T10:00:00Z")
	assert.Equal(t, m.Counterpart("+998901110000"), "+998902220000")
	assert.Equal(t, m.Counterpart("+998902220000"), "+998901110000")
}
