package main

import (
	"testing"

	"github.com/termchat/termchat/llm"
)

func TestSystemFlagRejectedAtStartup(t *testing.T) {
	altFraming = true
	defer func() { altFraming = false }()

	// Point HOME at an empty temp dir: if the flag check ever ran after
	// credential loading, the error kind would be authentication instead.
	t.Setenv("HOME", t.TempDir())

	err := run(rootCmd, nil)
	if err == nil {
		t.Fatal("expected error for --system")
	}
	if llm.KindOf(err) != llm.KindConfiguration {
		t.Errorf("KindOf(err) = %v, want configuration", llm.KindOf(err))
	}
}
