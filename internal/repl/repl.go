// Package repl implements the interactive prompt loop: read one input,
// run one turn, extend the transcript, repeat until quit.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"github.com/termchat/termchat/llm"
)

// quitTokens end the session on an exact match of the trimmed input.
// Matching is case-sensitive: "Q" or "quit now" keep the loop running.
var quitTokens = map[string]struct{}{
	"q":    {},
	"quit": {},
	"exit": {},
	"bye":  {},
}

// LineReader is the blocking line-edited input source. Satisfied by
// *readline.Instance.
type LineReader interface {
	Readline() (string, error)
}

// TurnRunner runs one conversation turn. Satisfied by *turn.Composer.
type TurnRunner interface {
	Run(ctx context.Context, transcript []llm.Message) ([]llm.Message, error)
}

// Loop owns the per-session transcript and drives turns until an
// end-of-session condition. The transcript lives in memory only and is
// discarded when the loop returns.
type Loop struct {
	reader LineReader
	runner TurnRunner
	out    io.Writer
	errOut io.Writer
	logger zerolog.Logger

	transcript []llm.Message
}

// New creates a loop reading inputs from reader and streaming replies to out.
func New(reader LineReader, runner TurnRunner, out, errOut io.Writer, logger zerolog.Logger) *Loop {
	return &Loop{reader: reader, runner: runner, out: out, errOut: errOut, logger: logger}
}

// Run iterates until a quit token, end of input, or interrupt, all of which
// end the session cleanly. A failed turn is reported inline and the loop
// resumes at the next prompt; whatever the turn produced before failing is
// kept in the transcript.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := l.reader.Readline()
		switch {
		case err == nil:
		case errors.Is(err, readline.ErrInterrupt), errors.Is(err, io.EOF):
			return nil
		default:
			return fmt.Errorf("reading input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if _, quit := quitTokens[input]; quit {
			return nil
		}

		l.transcript = append(l.transcript, llm.Message{Role: llm.RoleUser, Content: input})
		produced, err := l.runner.Run(ctx, l.transcript)
		l.transcript = append(l.transcript, produced...)
		fmt.Fprintln(l.out)
		if err != nil {
			if ctx.Err() != nil {
				// Interrupted mid-stream; nothing to report.
				return nil
			}
			l.logger.Debug().Err(err).Msg("turn aborted")
			fmt.Fprintf(l.errOut, "error: %v\n", err)
		}
	}
}
