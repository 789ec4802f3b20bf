package cli

import (
	"fmt"
	"strconv"
	"strings"
)

func (a *App) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// prompt prints a label and reads one trimmed line.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	return a.readLine()
}

// promptFloat reads a number; empty input returns the fallback.
func (a *App) promptFloat(label string, fallback float64) (float64, error) {
	raw, err := a.prompt(label)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return v, nil
}

// promptYesNo reads a y/n answer; empty input returns the fallback.
func (a *App) promptYesNo(label string, fallback bool) (bool, error) {
	raw, err := a.prompt(label)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(raw) {
	case "":
		return fallback, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// showErr renders a failed operation without leaving the menu.
func (a *App) showErr(err error) {
	fmt.Fprintf(a.out, "Error: %v\n", err)
}

func (a *App) showf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}
