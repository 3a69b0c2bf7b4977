// Package turn runs one conversation turn: a primary completion plus an
// optional fixed reflect/extend self-refinement pass.
package turn

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/termchat/termchat/llm"
)

// The refinement prompts are part of the contract, not tunables: the
// reflect prompt is spoken in the assistant's voice, the extend prompt in
// the user's.
const (
	reflectPrompt = "Checking the answer for internal consistency, criticizing it, and providing an improved answer if needed:"
	extendPrompt  = "Any other ideas? Provide examples and keep it short."

	reflectBanner = "\n----- reflect -----"
	extendBanner  = "\n----- extend -----"

	// temperature is fixed for every request and not user-tunable.
	temperature = 0.7
)

// Settings carries the per-process generation parameters. Set once at
// startup, immutable afterwards.
type Settings struct {
	Model     string
	MaxTokens int
	// Critique enables the reflect and extend calls after the primary one.
	Critique bool
}

// Composer sequences the transport calls that make up a single turn.
type Composer struct {
	client   llm.Client
	out      io.Writer
	logger   zerolog.Logger
	settings Settings
}

// NewComposer creates a composer that streams replies to out.
func NewComposer(client llm.Client, out io.Writer, logger zerolog.Logger, settings Settings) *Composer {
	return &Composer{client: client, out: out, logger: logger, settings: settings}
}

// Run executes one turn against the transcript: primary, then, if critique
// is enabled, reflect and extend. The calls are strictly sequential; each
// payload depends on the full text of the previous reply.
//
// Messages produced before a transport failure are returned alongside the
// error. They are not rolled back; the caller appends them to the
// transcript either way.
func (c *Composer) Run(ctx context.Context, transcript []llm.Message) ([]llm.Message, error) {
	var produced []llm.Message

	send := func(state string) (llm.Message, error) {
		payload := make([]llm.Message, 0, len(transcript)+len(produced))
		payload = append(payload, transcript...)
		payload = append(payload, produced...)

		c.logger.Debug().Str("state", state).Int("messages", len(payload)).Msg("requesting completion")
		stream, err := c.client.StreamChat(ctx, llm.Request{
			Model:       c.settings.Model,
			Messages:    Frame(payload),
			MaxTokens:   c.settings.MaxTokens,
			Temperature: temperature,
		})
		if err != nil {
			return llm.Message{}, err
		}
		return Collect(stream, c.out)
	}

	reply, err := send("primary")
	if err != nil {
		return produced, fmt.Errorf("primary: %w", err)
	}
	produced = append(produced, reply)

	if !c.settings.Critique {
		return produced, nil
	}

	fmt.Fprintln(c.out, reflectBanner)
	produced = append(produced, llm.Message{Role: llm.RoleAssistant, Content: reflectPrompt})
	reply, err = send("reflect")
	if err != nil {
		return produced, fmt.Errorf("reflect: %w", err)
	}
	produced = append(produced, reply)

	fmt.Fprintln(c.out, extendBanner)
	produced = append(produced, llm.Message{Role: llm.RoleUser, Content: extendPrompt})
	reply, err = send("extend")
	if err != nil {
		return produced, fmt.Errorf("extend: %w", err)
	}
	produced = append(produced, reply)

	return produced, nil
}
