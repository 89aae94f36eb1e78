package model

import "time"

// Account is a funding identity the bot trades from. Key material stays in
// the wallet package; the rest of the core only sees the stable ID.
type Account struct {
	ID             string
	LastUsedAt     time.Time
	ConsecutiveUse int
	TotalUsage     int
}

// Endpoint is an RPC node the bot spreads its requests over.
type Endpoint struct {
	URL        string
	LastUsedAt time.Time
}
