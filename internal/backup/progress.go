package backup

import (
	"fmt"
	"io"
	"os"

	"doksutils/internal/models"
)

// ProgressObserver receives a notification each time a download unit reaches
// a terminal state. Implementations need not be safe for concurrent use; the
// fetcher serializes calls.
type ProgressObserver interface {
	UnitCompleted(unit models.DownloadUnit, completed, total int)
}

// ConsoleProgress renders a single-line counter on the terminal, rewriting
// it in place as objects complete.
type ConsoleProgress struct {
	Output io.Writer
}

func NewConsoleProgress() *ConsoleProgress {
	return &ConsoleProgress{Output: os.Stdout}
}

func (p *ConsoleProgress) UnitCompleted(unit models.DownloadUnit, completed, total int) {
	fmt.Fprintf(p.Output, "\rDownloading from %s: %d/%d", unit.BucketName, completed, total)
	if unit.Status == models.UnitFailed {
		fmt.Fprintf(p.Output, "\nFailed to download %s: %s\n", unit.Key, unit.Reason)
	}
	if completed == total {
		fmt.Fprintln(p.Output)
	}
}
