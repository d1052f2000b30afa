// Package cmdpdf provides document conversion subcommand.
package cmdpdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/rusq/escimg/bitmap"
	"github.com/rusq/escimg/cmd/escimg/internal/bootstrap"
	"github.com/rusq/escimg/cmd/escimg/internal/cfg"
	"github.com/rusq/escimg/cmd/escimg/internal/golang/base"
)

var CmdPDF = &base.Command{
	Run:        runPDF,
	UsageLine:  "escimg pdf [flags] <document>",
	Short:      "converts every page of a document to monochrome",
	PrintFlags: true,
	Long: `
Renders every page of the document so that the pages are -width dots wide,
and converts them to black and white bitmaps.  Each page is written to a
separate file, unless -join is given.

Documents are rendered with ImageMagick (requires Ghostscript for PDF) or
MuPDF, see -backend.
`,
}

var (
	join    bool
	feed    int
	summary bool
)

func init() {
	CmdPDF.Flag.BoolVar(&join, "join", false, "join all pages into one bitmap")
	CmdPDF.Flag.IntVar(&feed, "feed", 0, "number of white `rows` between the joined pages")
	CmdPDF.Flag.BoolVar(&summary, "summary", true, "print the summary table")
}

func runPDF(ctx context.Context, cmd *base.Command, args []string) error {
	if len(args) != 1 {
		base.SetExitStatus(base.SInvalidParameters)
		return errors.New("expected only one document")
	}
	input := args[0]

	conv, err := bootstrap.Converter()
	if err != nil {
		base.SetExitStatus(base.SInvalidParameters)
		return err
	}
	start := time.Now()
	cfg.RegisterSigInfoReporter(func(w io.Writer) {
		fmt.Fprintf(w, "converting %s for %s\n", input, time.Since(start).Round(time.Millisecond))
	})
	pages, err := conv.LoadPDF(ctx, input, cfg.Width)
	if err != nil {
		base.SetExitStatus(base.SApplicationError)
		return err
	}
	took := time.Since(start)

	var rows [][]string
	if join {
		m := joinPages(pages, feed)
		out := bootstrap.OutputName(input, -1)
		if err := bootstrap.WriteBitmap(out, m); err != nil {
			base.SetExitStatus(base.SGenericError)
			return err
		}
		rows = append(rows, row("1-"+strconv.Itoa(len(pages)), m, out))
	} else {
		for i, m := range pages {
			out := bootstrap.OutputName(input, i)
			if err := bootstrap.WriteBitmap(out, m); err != nil {
				base.SetExitStatus(base.SGenericError)
				return err
			}
			rows = append(rows, row(strconv.Itoa(i+1), m, out))
		}
	}
	cfg.Log.InfoContext(ctx, "document converted", "input", input, "pages", len(pages), "took", took)
	if summary {
		return printSummary(os.Stdout, rows)
	}
	return nil
}

func joinPages(pages []*bitmap.Image, feed int) *bitmap.Image {
	c := bitmap.NewComposer()
	for i, m := range pages {
		if i > 0 {
			c.Feed(feed)
		}
		c.Append(m)
	}
	return c.Image()
}

func row(page string, m *bitmap.Image, out string) []string {
	return []string{page, strconv.Itoa(m.Width), strconv.Itoa(m.Height), out}
}

func printSummary(w io.Writer, rows [][]string) error {
	data := pterm.TableData{{"Page", "Width", "Height", "Output"}}
	data = append(data, rows...)
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}
