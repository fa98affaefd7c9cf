package domain

// Batch is an ordered run of trade events plus the stream-position handles of
// every message that produced it, including messages that failed to decode.
// Handles are acknowledged as a unit after the whole batch has been processed.
type Batch struct {
	Trades  []*TradeEvent
	Handles []string
	// Skipped counts messages whose payload could not be decoded. Their
	// handles remain in Handles so their positions are still committed.
	Skipped int
}

// Empty reports whether the batch carries no processable trades.
func (b *Batch) Empty() bool {
	return len(b.Trades) == 0
}
