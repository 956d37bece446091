package cli

import (
	"fmt"
	"io"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// display prints user-facing output for a command.
type display struct {
	out     io.Writer
	verbose bool
}

func newDisplay(cmd *cobra.Command) *display {
	return &display{out: cmd.OutOrStdout(), verbose: isVerbose(cmd)}
}

func (d *display) Success(format string, args ...interface{}) {
	pterm.Success.WithWriter(d.out).Println(fmt.Sprintf(format, args...))
}

func (d *display) Error(format string, args ...interface{}) {
	pterm.Error.WithWriter(d.out).Println(fmt.Sprintf(format, args...))
}

// Failure reports err after what. With --verbose a coded error is shown with
// its code, context and cause.
func (d *display) Failure(what string, err error) {
	if d.verbose && errors.IsCoded(err) {
		d.Error("%s\n%s", what, errors.FormatError(err))
		return
	}
	d.Error("%s: %v", what, err)
}

func (d *display) Info(format string, args ...interface{}) {
	pterm.Info.WithWriter(d.out).Println(fmt.Sprintf(format, args...))
}

func (d *display) Warning(format string, args ...interface{}) {
	pterm.Warning.WithWriter(d.out).Println(fmt.Sprintf(format, args...))
}

func (d *display) Section(title string) {
	pterm.DefaultSection.WithWriter(d.out).Println(title)
}

// Table renders rows under header.
func (d *display) Table(header []string, rows [][]string) error {
	data := pterm.TableData{header}
	data = append(data, rows...)
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(d.out).Render()
}

// KeyValues renders two-column rows without a header.
func (d *display) KeyValues(rows [][]string) error {
	return pterm.DefaultTable.WithData(pterm.TableData(rows)).WithWriter(d.out).Render()
}
