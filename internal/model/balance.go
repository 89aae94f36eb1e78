package model

// BalanceSnapshot captures an account's balances at a point in time.
// Sol is in lamports, Token in raw units; fractional base units do not
// exist on-chain, so both are integers.
type BalanceSnapshot struct {
	Sol   int64
	Token int64
}

// Sub returns the delta from an earlier snapshot to this one.
func (s BalanceSnapshot) Sub(earlier BalanceSnapshot) BalanceSnapshot {
	return BalanceSnapshot{
		Sol:   s.Sol - earlier.Sol,
		Token: s.Token - earlier.Token,
	}
}
