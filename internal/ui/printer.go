package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muurk/contactform/internal/formerr"
)

// Printer writes styled components to a writer. Commands use it instead of
// printing boxes themselves.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer. A nil writer means os.Stdout.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// WithWidth overrides the detected terminal width.
func (p *Printer) WithWidth(width int) *Printer {
	p.width = width
	return p
}

// Width returns the width used for rendering.
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline.
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line.
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command banner.
func (p *Printer) PrintHeader(title, command string, params ...Detail) {
	p.Println(RenderHeader(title, command, params, p.width))
}

// PrintSuccess prints a success box.
func (p *Printer) PrintSuccess(title string, details ...Detail) {
	p.Println(RenderSuccessBox(title, details, p.width))
}

// PrintWarning prints a warning box.
func (p *Printer) PrintWarning(title string, details ...Detail) {
	p.Println(RenderWarningBox(title, details, p.width))
}

// PrintError prints an error box. Typed form errors get their
// troubleshooting hint automatically.
func (p *Printer) PrintError(title string, err error) {
	var tips []string
	if err != nil {
		tips = SplitHint(formerr.TroubleshootingHint(err))
	}
	p.Println(RenderErrorBox(title, err, tips, p.width))
}

// PrintReport prints a validation report.
func (p *Printer) PrintReport(r Report) {
	p.Println(RenderReport(r, p.width))
}
