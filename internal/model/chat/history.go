package chat

// PromptWindow is the number of most recent turns injected into a prompt.
const PromptWindow = 5

// Recent returns the last n messages in insertion order. Older turns are dropped.
func Recent(messages []Message, n int) []Message {
	if n <= 0 || len(messages) == 0 {
		return nil
	}
	start := 0
	if len(messages) > n {
		start = len(messages) - n
	}
	out := make([]Message, len(messages)-start)
	copy(out, messages[start:])
	return out
}
