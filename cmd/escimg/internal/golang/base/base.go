// Package base defines shared basic pieces of the escimg command, in the
// manner of the go command.
package base

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rusq/escimg/cmd/escimg/internal/cfg"
)

// A Command is an implementation of an escimg command.
type Command struct {
	// Run runs the command.
	// The args are the arguments after the command name.
	Run func(ctx context.Context, cmd *Command, args []string) error

	// UsageLine is the one-line usage message.
	// The words between "escimg" and the first flag or argument in the line
	// are taken to be the command name.
	UsageLine string

	// Short is the short description shown in the 'escimg help' output.
	Short string

	// Long is the long message shown in the 'escimg help <this-command>'
	// output.
	Long string

	// Flag is a set of flags specific to this command.
	Flag flag.FlagSet

	// CustomFlags indicates that the command will do its own flag parsing.
	CustomFlags bool

	// FlagMask selects the common flags that are not applicable to the
	// command.
	FlagMask cfg.FlagMask

	// PrintFlags tells the help to print the flag defaults.
	PrintFlags bool

	// Commands lists the available commands and help topics.
	// The order here is the order in which they are printed by 'escimg help'.
	Commands []*Command
}

// EscimgCommand is the root command.
var EscimgCommand = &Command{
	UsageLine: "escimg",
	Long:      `Escimg converts images and documents to monochrome bitmaps for receipt printers.`,
}

// LongName returns the command's long name: all the words in the usage line
// between "escimg" and a flag or argument.
func (c *Command) LongName() string {
	name := c.UsageLine
	if i := strings.Index(name, " ["); i >= 0 {
		name = name[:i]
	}
	if i := strings.Index(name, " <"); i >= 0 {
		name = name[:i]
	}
	if name == "escimg" {
		return ""
	}
	return strings.TrimPrefix(name, "escimg ")
}

// Name returns the command's short name: the last word in the usage line
// before a flag or argument.
func (c *Command) Name() string {
	name := c.LongName()
	if i := strings.LastIndex(name, " "); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (c *Command) Usage() {
	fmt.Fprintf(os.Stderr, "usage: %s\n", c.UsageLine)
	fmt.Fprintf(os.Stderr, "Run 'escimg help %s' for details.\n", c.LongName())
	SetExitStatus(SHelpRequested)
	Exit()
}

// Runnable reports whether the command can be run; otherwise it is a
// documentation pseudo-command.
func (c *Command) Runnable() bool {
	return c.Run != nil
}

// Usage is the usage function of the root command.
var Usage func()

// CmdName is the name of the running command, i.e. "pdf".
var CmdName string

// Status is the exit status.
type Status uint8

const (
	SNoError Status = iota
	SGenericError
	SInvalidParameters
	SHelpRequested
	SApplicationError
	SCancelled
)

func (s Status) String() string {
	switch s {
	case SNoError:
		return "no error"
	case SGenericError:
		return "generic error"
	case SInvalidParameters:
		return "invalid parameters"
	case SHelpRequested:
		return "help requested"
	case SApplicationError:
		return "application error"
	case SCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status %d", uint8(s))
	}
}

var (
	exitStatus Status = SNoError
	exitMu     sync.Mutex

	atExitFuncs []func()
)

// SetExitStatus sets the exit status, the highest status wins.
func SetExitStatus(s Status) {
	exitMu.Lock()
	if exitStatus < s {
		exitStatus = s
	}
	exitMu.Unlock()
}

func ExitStatus() Status {
	exitMu.Lock()
	defer exitMu.Unlock()
	return exitStatus
}

// AtExit registers the function to be called on Exit.
func AtExit(f func()) {
	atExitFuncs = append(atExitFuncs, f)
}

// Exit runs the registered functions in reverse order and exits with the
// exit status.
func Exit() {
	for i := len(atExitFuncs) - 1; i >= 0; i-- {
		atExitFuncs[i]()
	}
	os.Exit(int(ExitStatus()))
}
