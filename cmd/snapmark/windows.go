package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/snapmark/internal/capture"
)

// windowsCmd lists capturable windows so users can build selectors for the
// snapshot and edit commands.
type windowsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseWindowsCmd(args []string, r *root) (*windowsCmd, error) {
	fs := flag.NewFlagSet("windows", flag.ExitOnError)
	cmd := &windowsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *windowsCmd) Run() error {
	windows, err := capture.ListWindows()
	if err != nil {
		return err
	}
	if len(windows) == 0 {
		fmt.Fprintln(os.Stdout, "no windows available")
		return nil
	}
	fmt.Fprintln(os.Stdout, "available windows (* marks the active window):")
	for _, win := range windows {
		marker := " "
		if win.Active {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %s\n", marker, formatWindowLabel(win))
	}
	fmt.Fprintln(os.Stdout, "selectors: index:<n>, id:<hex>, pid:<pid>, exec:<name>, class:<name>, title:<text>, substring match")
	return nil
}

func formatWindowLabel(win capture.WindowInfo) string {
	parts := []string{fmt.Sprintf("%2d: 0x%08x", win.Index, win.ID)}
	if title := strings.TrimSpace(win.Title); title != "" {
		parts = append(parts, title)
	}
	if class := strings.TrimSpace(win.Class); class != "" {
		parts = append(parts, fmt.Sprintf("[%s]", class))
	}
	if win.PID != 0 {
		parts = append(parts, fmt.Sprintf("pid %d", win.PID))
	}
	if exec := strings.TrimSpace(win.Executable); exec != "" {
		parts = append(parts, exec)
	}
	parts = append(parts, fmt.Sprintf("%dx%d", win.Rect.Dx(), win.Rect.Dy()))
	return strings.Join(parts, " ")
}

func (c *windowsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *windowsCmd) Template() string {
	return "windows.txt"
}
