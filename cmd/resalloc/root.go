package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/exp/slog"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

// NewRootCommand initializes the tree of commands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "resalloc",
		Short:         "Allocate Internet number resources to a tree of resource holders",
		Long:          "Allocate IPv4, IPv6 and AS number resources from a root holder to a tree of children described by a plan file.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the resalloc version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
	}
}

// logLevelValue is a pflag.Value that parses slog level names such as "debug" or "warn"
type logLevelValue struct {
	level slog.Level
}

var _ pflag.Value = &logLevelValue{}

func (v *logLevelValue) String() string { return v.level.String() }

func (v *logLevelValue) Set(text string) error {
	return v.level.UnmarshalText([]byte(text))
}

func (v *logLevelValue) Type() string { return "level" }
