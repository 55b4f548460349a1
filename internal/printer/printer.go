// Package printer writes styled command output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hay-kot/overlay/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines prefixed with a colored marker.
type Printer struct {
	out io.Writer
}

// New returns a Printer writing to out.
func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stdout.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.SuccessStyle.Render("✓"), format, args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.CommandStyle.Render("•"), format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.WarningStyle.Render("!"), format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.ErrorStyle.Render("✗"), format, args...)
}

func (p *Printer) line(marker, format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, "%s %s\n", marker, fmt.Sprintf(format, args...))
}
