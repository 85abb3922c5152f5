// Package base carries the pieces shared by all CLI commands.
package base

import (
	"bytes"
	"flag"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded in every CLI command.
type Command struct {
	// Log is the logger for the command.
	Log hclog.Logger

	// UI is the terminal UI for the command.
	UI cli.Ui
}

// FlagSet wraps flag.FlagSet with help rendering.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet returns a FlagSet for the named command.
func (c *Command) NewFlagSet(name string) *FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	return &FlagSet{FlagSet: f}
}

// Help renders the flag defaults as a help string.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	f.SetOutput(&buf)
	f.PrintDefaults()
	f.SetOutput(io.Discard)
	return buf.String()
}
