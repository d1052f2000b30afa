// Package cmdsolve provides the subcommand that prints the rendering
// resolution of a document.
package cmdsolve

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rusq/escimg/cmd/escimg/internal/bootstrap"
	"github.com/rusq/escimg/cmd/escimg/internal/cfg"
	"github.com/rusq/escimg/cmd/escimg/internal/golang/base"
)

var CmdSolve = &base.Command{
	Run:        runSolve,
	UsageLine:  "escimg solve [flags] <document>",
	Short:      "prints the resolution for the page width",
	FlagMask:   cfg.OmitCommonImageFlags | cfg.OmitOutputFlags,
	PrintFlags: true,
	Long: `
Measures the first page of the document and prints the resolution, in dots
per inch, at which the page renders exactly -width dots wide, and the number
of pages.
`,
}

func runSolve(ctx context.Context, cmd *base.Command, args []string) error {
	if len(args) != 1 {
		base.SetExitStatus(base.SInvalidParameters)
		return errors.New("expected only one document")
	}
	conv, err := bootstrap.Converter()
	if err != nil {
		base.SetExitStatus(base.SInvalidParameters)
		return err
	}
	res, err := conv.Solve(ctx, args[0], cfg.Width)
	if err != nil {
		base.SetExitStatus(base.SApplicationError)
		return err
	}
	fmt.Fprintf(os.Stdout, "dpi:\t%.4f\npages:\t%d\n", res.DPI, res.Pages)
	return nil
}
