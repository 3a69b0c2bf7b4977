package turn

import (
	"fmt"
	"io"
	"strings"

	"github.com/termchat/termchat/llm"
)

// Collect folds a fragment stream into a single assistant Message, mirroring
// every fragment to w the moment it arrives. Fragments are never reordered,
// dropped, or buffered: perceived latency is the provider's, not ours.
//
// On a stream error the partial text is not returned as a Message; whatever
// was already echoed stays on screen.
func Collect(s llm.Stream, w io.Writer) (llm.Message, error) {
	defer s.Close()

	var b strings.Builder
	for s.Next() {
		frag := s.Text()
		if _, err := io.WriteString(w, frag); err != nil {
			return llm.Message{}, fmt.Errorf("echoing fragment: %w", err)
		}
		b.WriteString(frag)
	}
	if err := s.Err(); err != nil {
		return llm.Message{}, fmt.Errorf("collecting stream: %w", err)
	}
	return llm.Message{Role: llm.RoleAssistant, Content: b.String()}, nil
}
