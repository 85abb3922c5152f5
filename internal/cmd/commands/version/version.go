// Package version implements the command to print the scribe version.
package version

import (
	"github.com/hashicorp-forge/scribe/internal/cmd/base"
	"github.com/hashicorp-forge/scribe/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: scribe version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
