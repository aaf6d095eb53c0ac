package conversation

// Log is an ordered sequence of conversation items. Ordering is insertion
// order; a log is owned by exactly one persona at a time and is never
// shared between goroutines.
type Log []Item

// Append adds an item after validating it.
func (l *Log) Append(item Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	*l = append(*l, item)
	return nil
}

// Contains reports whether the log already holds an item with the given id.
func (l Log) Contains(id string) bool {
	for _, item := range l {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the log.
func (l Log) Clone() Log {
	if l == nil {
		return nil
	}
	out := make(Log, len(l))
	copy(out, l)
	return out
}

// Validate checks every item in the log. The index of the first malformed
// item is reported through the wrapped InvalidItemError.
func (l Log) Validate() error {
	for _, item := range l {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// LastAssistantText returns the content of the most recent assistant
// message, or an empty string when there is none.
func (l Log) LastAssistantText() string {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].Kind == KindMessage && l[i].Role == RoleAssistant {
			return l[i].Content
		}
	}
	return ""
}
