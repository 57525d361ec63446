package pipeline

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
)

// periodLayouts are the shapes the from/to columns take in alternateNamesV2.
var periodLayouts = []string{"2006-01-02", "2006-01", "2006"}

// BaseParser contains common functionality for GeoNames dump parsers
type BaseParser struct {
	out io.Writer
}

func NewBaseParser(out io.Writer) *BaseParser {
	if out == nil {
		out = os.Stdout
	}
	return &BaseParser{out: out}
}

// ProgressBar creates a progress bar for file processing
func (p *BaseParser) ProgressBar(file *os.File, description string) (*progressbar.ProgressBar, error) {
	stat, err := file.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "get file stats")
	}

	return progressbar.NewOptions64(
		stat.Size(),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.out)
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
	), nil
}

// ParseID parses a mandatory integer identifier.
func (p *BaseParser) ParseID(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// ParseFlag reads a 0/1 column; anything but "1" is false.
func (p *BaseParser) ParseFlag(s string) bool {
	return strings.TrimSpace(s) == "1"
}

// ParsePeriod parses an optional from/to column.
// ok is false when the value is present but in no known layout.
func (p *BaseParser) ParsePeriod(s string) (t *time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "\\N" {
		return nil, true
	}
	for _, layout := range periodLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			return &v, true
		}
	}
	return nil, false
}

// safeField returns fields[index] as is, or "" when the line is short.
func safeField(fields []string, index int) string {
	if index < len(fields) {
		return fields[index]
	}
	return ""
}
