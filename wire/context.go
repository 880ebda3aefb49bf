package wire

// DefaultRecursionLimit is the nesting budget used when none is configured.
const DefaultRecursionLimit = 100

// DecodeContext carries the remaining nesting budget of a decode. It is passed
// by value, so each nested message sees the budget of its parent minus one.
type DecodeContext struct {
	remaining int
	// set distinguishes the zero value, which means "use the default".
	set bool
}

// NewDecodeContext returns a context allowing limit levels of nesting. A
// non-positive limit selects DefaultRecursionLimit.
func NewDecodeContext(limit int) DecodeContext {
	if limit <= 0 {
		limit = DefaultRecursionLimit
	}
	return DecodeContext{remaining: limit, set: true}
}

// Remaining returns the number of nesting levels still available.
func (c DecodeContext) Remaining() int {
	if !c.set {
		return DefaultRecursionLimit
	}
	return c.remaining
}

// Enter charges one level for a nested message or group.
func (c DecodeContext) Enter() (DecodeContext, error) {
	remaining := c.Remaining()
	if remaining <= 0 {
		return c, &DecodeError{Kind: ErrRecursionLimit}
	}
	return DecodeContext{remaining: remaining - 1, set: true}, nil
}
