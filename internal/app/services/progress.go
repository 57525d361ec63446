package services

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/terratensor/altnames/internal/config"
)

// ProgressReporter is told about every inserted row.
type ProgressReporter interface {
	Inserted(id int64)
	Done()
}

// NewProgressReporter picks a reporter for the configured mode.
// total is an upper bound for the bar; pass -1 when unknown.
func NewProgressReporter(mode string, out io.Writer, total int64) ProgressReporter {
	switch mode {
	case config.ProgressBar:
		return &barReporter{bar: progressbar.NewOptions64(
			total,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("Populating alternate names"),
			progressbar.OptionSetWidth(50),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionFullWidth(),
		), out: out}
	case config.ProgressNone:
		return nopReporter{}
	default:
		return &lineReporter{out: out}
	}
}

// lineReporter prints one line per row.
type lineReporter struct {
	out io.Writer
}

func (r *lineReporter) Inserted(id int64) {
	fmt.Fprintf(r.out, "Alternate Name ID: %d\n", id)
}

func (r *lineReporter) Done() {
	fmt.Fprintln(r.out)
}

type barReporter struct {
	bar *progressbar.ProgressBar
	out io.Writer
}

func (r *barReporter) Inserted(int64) {
	_ = r.bar.Add(1)
}

func (r *barReporter) Done() {
	// Фильтр отбрасывает часть строк, поэтому до total бар может не дойти
	_ = r.bar.Exit()
	fmt.Fprintln(r.out)
}

type nopReporter struct{}

func (nopReporter) Inserted(int64) {}
func (nopReporter) Done()          {}
