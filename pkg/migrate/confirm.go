package migrate

// Confirmation is the capability token required by every mutating entry
// point. The zero value is not confirmed, so a caller that never asked
// the operator (or was never given an explicit affirmative) is structurally
// unable to reach the mutating path: previews need no token, commits do.
type Confirmation struct {
	confirmed bool
}

// Confirm converts an explicit affirmative into a usable token.
// Confirm(false) yields a token that fails closed.
func Confirm(affirmative bool) Confirmation {
	return Confirmation{confirmed: affirmative}
}

// OK reports whether the token carries an explicit affirmative
func (c Confirmation) OK() bool {
	return c.confirmed
}
