package turn

import "github.com/termchat/termchat/llm"

// framingText steers the response style of every completion call. It is
// sent with role=user rather than a true system message, which bills at a
// premium on some providers.
const framingText = "Answer concisely and directly. Prefer plain language and short examples."

// Frame returns a new payload with the fixed framing message at position 0
// followed by msgs. The input slice is never modified, and the framing
// message is never part of the stored transcript.
func Frame(msgs []llm.Message) []llm.Message {
	framed := make([]llm.Message, 0, len(msgs)+1)
	framed = append(framed, llm.Message{Role: llm.RoleUser, Content: framingText})
	return append(framed, msgs...)
}
