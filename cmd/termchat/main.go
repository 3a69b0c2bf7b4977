// termchat
//
// A single-user terminal chat client for an OpenAI-compatible completion
// endpoint. Replies stream to stdout as they arrive; by default every
// answer is followed by a fixed reflect/extend self-refinement pass.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/termchat/termchat/internal/config"
	"github.com/termchat/termchat/internal/repl"
	"github.com/termchat/termchat/llm"
	"github.com/termchat/termchat/llm/openai"
	"github.com/termchat/termchat/turn"
)

var (
	versionKey string
	maxTokens  int
	// The --criticise flag DISABLES the reflect/extend pass. The inverted
	// name is a documented contract, kept as-is.
	noCritique bool
	altFraming bool
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "termchat [prompt...]",
	Short: "termchat - streaming terminal chat",
	Long: `termchat forwards your text to a chat-completion endpoint and streams the
reply back to the terminal.

  termchat                          Interactive session (q, quit, exit, bye to leave)
  termchat what is a monad          One turn, then exit
  termchat -v 3 --criticise hello   gpt-3.5-turbo, no reflect/extend pass

The API credential is read from ~/.termchat/api_key.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&versionKey, "version", "v", config.DefaultModelKey, `model version key ("3", "4", "4o")`)
	rootCmd.Flags().IntVar(&maxTokens, "max_tokens", config.DefaultMaxTokens, "maximum generated tokens per request")
	rootCmd.Flags().BoolVar(&noCritique, "criticise", false, "disable the reflect/extend pass")
	rootCmd.Flags().BoolVar(&altFraming, "system", false, "use the alternate framing message (not implemented)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := newLogger(debug)

	if altFraming {
		return &llm.Error{
			Kind: llm.KindConfiguration,
			Op:   "flags",
			Err:  errors.New("--system: alternate framing is not implemented"),
		}
	}

	cfg, err := config.Load(versionKey, maxTokens, !noCritique)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client := openai.New(cfg.APIKey, logger)
	composer := turn.NewComposer(client, os.Stdout, logger, turn.Settings{
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Critique:  cfg.Critique,
	})

	if len(args) > 0 {
		return runOnce(ctx, composer, strings.Join(args, " "))
	}
	return runInteractive(ctx, cfg, composer, logger)
}

// runOnce executes a single non-interactive turn with the given prompt.
func runOnce(ctx context.Context, composer *turn.Composer, prompt string) error {
	_, err := composer.Run(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	fmt.Println()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("turn failed: %w", err)
	}
	return nil
}

// runInteractive builds the line-editor session and hands it to the loop.
// The readline history file keeps raw user inputs across runs; assistant
// output is never persisted.
func runInteractive(ctx context.Context, cfg *config.Config, composer *turn.Composer, logger zerolog.Logger) error {
	if err := config.EnsureDataDir(); err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     cfg.HistoryPath,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return fmt.Errorf("initializing prompt: %w", err)
	}
	defer rl.Close()

	loop := repl.New(rl, composer, os.Stdout, os.Stderr, logger)
	return loop.Run(ctx)
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
