// Package render writes built reports to their output files. Only the
// logical content is produced here; typography beyond line order and page
// breaks is out of scope.
package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/timeclock/internal/application"
)

// WriteReport renders the report's line sequence to w. Page breaks become
// form feeds so printers and pagers start a fresh page.
func WriteReport(w io.Writer, report application.Report) error {
	buffered := bufio.NewWriter(w)
	for _, line := range report.Lines {
		var err error
		switch line.Kind {
		case application.ReportPageBreak:
			_, err = buffered.WriteString("\f")
		default:
			_, err = buffered.WriteString(line.Text + "\n")
		}
		if err != nil {
			return fmt.Errorf("write report line: %w", err)
		}
	}
	return buffered.Flush()
}

// WriteFile renders the report into dir under its canonical extract name and
// returns the written path.
func WriteFile(dir string, report application.Report) (string, error) {
	path := filepath.Join(dir, report.FileName("txt"))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}

	if err := WriteReport(file, report); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close report file: %w", err)
	}
	return path, nil
}
