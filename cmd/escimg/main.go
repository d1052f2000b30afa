package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime/trace"

	"github.com/google/uuid"

	"github.com/rusq/escimg"
	"github.com/rusq/escimg/cmd/escimg/internal/cfg"
	"github.com/rusq/escimg/cmd/escimg/internal/cmdimage"
	"github.com/rusq/escimg/cmd/escimg/internal/cmdpdf"
	"github.com/rusq/escimg/cmd/escimg/internal/cmdsolve"
	"github.com/rusq/escimg/cmd/escimg/internal/golang/base"
	"github.com/rusq/escimg/cmd/escimg/internal/golang/help"
)

func init() {
	base.EscimgCommand.Commands = []*base.Command{
		cmdimage.CmdImage,
		cmdpdf.CmdPDF,
		cmdsolve.CmdSolve,
	}
}

func main() {
	flag.Usage = base.Usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		base.Usage()
		// Usage terminates the program.
		return
	}
	base.CmdName = args[0]
	if args[0] == "help" {
		help.Help(os.Stdout, args[1:])
		return
	}

	cmd := lookupCommand(base.EscimgCommand, args[0])
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "escimg %s: unknown command\nRun 'escimg help' for usage.\n", base.CmdName)
		base.SetExitStatus(base.SInvalidParameters)
		base.Exit()
		return
	}
	if err := invoke(cmd, args); err != nil {
		base.SetExitStatus(statusOf(err))
		slog.Error(fmt.Sprintf("%03[1]d (%[1]s): %[2]s.", base.ExitStatus(), err))
	}
	base.Exit()
}

// lookupCommand returns the runnable subcommand of parent with the given
// name, or nil.
func lookupCommand(parent *base.Command, name string) *base.Command {
	for _, cmd := range parent.Commands {
		if cmd.Name() == name && cmd.Runnable() {
			return cmd
		}
	}
	return nil
}

// statusOf returns the exit status for the error returned by a command.
func statusOf(err error) base.Status {
	switch {
	case err == nil:
		return base.SNoError
	case errors.Is(err, context.Canceled):
		return base.SCancelled
	case errors.Is(err, escimg.ErrCapabilityUnavailable),
		errors.Is(err, escimg.ErrImageLoad),
		errors.Is(err, escimg.ErrDocumentMeasurement),
		errors.Is(err, escimg.ErrDocumentRender),
		errors.Is(err, escimg.ErrDecode):
		return base.SApplicationError
	default:
		return base.SGenericError
	}
}

func init() {
	base.Usage = mainUsage
}

func mainUsage() {
	help.PrintUsage(os.Stderr, base.EscimgCommand)
	os.Exit(2)
}

func invoke(cmd *base.Command, args []string) error {
	if cmd.CustomFlags {
		args = args[1:]
	} else {
		var err error
		args, err = parseFlags(cmd, args)
		if err != nil {
			base.SetExitStatus(base.SInvalidParameters)
			return err
		}
	}

	// maybe start trace
	if err := initTrace(cfg.TraceFile); err != nil {
		base.SetExitStatus(base.SGenericError)
		return fmt.Errorf("failed to start trace: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	trapSigInfo()

	ctx, task := trace.NewTask(ctx, "command")
	defer task.End()

	// initialise default logging.
	lg, err := initLog(cfg.LogFile, cfg.JSONHandler, cfg.Verbose)
	if err != nil {
		return err
	}
	cfg.Log = lg.With("command", cmd.Name(), "run_id", uuid.NewString())
	slog.SetDefault(cfg.Log)

	trace.Log(ctx, "command", fmt.Sprint("Running ", cmd.Name(), " command"))
	return cmd.Run(ctx, cmd, args)
}

func parseFlags(cmd *base.Command, args []string) ([]string, error) {
	cfg.SetBaseFlags(&cmd.Flag, cmd.FlagMask)
	cmd.Flag.Usage = func() { cmd.Usage() }
	if err := cmd.Flag.Parse(args[1:]); err != nil {
		return nil, err
	}
	return cmd.Flag.Args(), nil
}

// initTrace initialises the tracing.  If the filename is not empty, the file
// will be opened, trace will write to that file.  The trace is stopped on
// exit.
func initTrace(filename string) error {
	if filename == "" {
		return nil
	}

	slog.Debug("trace will be written to", "filename", filename)

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := trace.Start(f); err != nil {
		f.Close()
		slog.Warn("failed to start trace", "err", err)
		return nil
	}

	stop := func() {
		trace.Stop()
		if err := f.Close(); err != nil {
			slog.Warn("failed to close trace file", "filename", filename, "error", err)
		}
	}
	base.AtExit(stop)
	return nil
}

// initLog initialises the logging and returns the Logger. If the filename is
// not empty, the file will be opened, and the logger output will be switched
// to that file.  The file is closed on exit.
func initLog(filename string, jsonHandler bool, verbose bool) (*slog.Logger, error) {
	if verbose {
		cfg.SetDebugLevel()
	}
	var opts = &slog.HandlerOptions{
		Level: iftrue(verbose, slog.LevelDebug, slog.LevelInfo),
	}
	if jsonHandler {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
	}
	if filename != "" {
		slog.Debug("log messages will be written to file", "filename", filename)
		lf, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
		if err != nil {
			return slog.Default(), fmt.Errorf("failed to create the log file: %w", err)
		}
		log.SetOutput(lf) // redirect the standard log to the file just in case, panics will be logged there.

		var h slog.Handler = slog.NewTextHandler(lf, opts)
		if jsonHandler {
			h = slog.NewJSONHandler(lf, opts)
		}

		sl := slog.New(h)
		slog.SetDefault(sl)
		base.AtExit(func() {
			if err := lf.Close(); err != nil {
				slog.Warn("failed to close the log file", "err", err)
			}
		})
	}

	return slog.Default(), nil
}

func iftrue[T any](cond bool, t T, f T) T {
	if cond {
		return t
	}
	return f
}
