package conversation

// DefaultKeepLastN bounds how many prior turns a newly activated persona
// inherits when no explicit limit is configured.
const DefaultKeepLastN = 6

// TruncateOptions control which items survive truncation.
type TruncateOptions struct {
	// KeepLastN is the maximum number of retained items. Zero or negative
	// falls back to DefaultKeepLastN.
	KeepLastN int
	// KeepSystem retains system-role messages.
	KeepSystem bool
	// KeepFunctionCalls retains function_call / function_call_output items.
	KeepFunctionCalls bool
}

func (o TruncateOptions) limit() int {
	if o.KeepLastN <= 0 {
		return DefaultKeepLastN
	}
	return o.KeepLastN
}

// Truncate bounds a conversation log to the most recent items that pass the
// retention filter. The result is chronological, never starts with a
// function_call or function_call_output item, and depends only on the input
// log and options. Re-applying Truncate to its own output with the same
// options is a no-op once the result fits within the quota.
func Truncate(log Log, opts TruncateOptions) Log {
	limit := opts.limit()

	// Walk newest to oldest, collecting up to limit items that pass the filter.
	collected := make(Log, 0, limit)
	for i := len(log) - 1; i >= 0 && len(collected) < limit; i-- {
		item := log[i]
		if item.Kind == KindMessage && item.Role == RoleSystem && !opts.KeepSystem {
			continue
		}
		if item.IsCall() && !opts.KeepFunctionCalls {
			continue
		}
		collected = append(collected, item)
	}

	// Back to chronological order.
	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}

	// A truncated window must not open mid tool invocation: drop any leading
	// run of call/call-output items.
	start := 0
	for start < len(collected) && collected[start].IsCall() {
		start++
	}
	collected = collected[start:]

	if len(collected) == 0 {
		return Log{}
	}
	return collected
}
