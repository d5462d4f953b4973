package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	rdebug "runtime/debug"
	"strings"

	"golang.org/x/term"

	"github.com/oakwood-commons/redkv/pkg/settings"
)

// Exit codes returned by ExitCode.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError carries the process exit code for err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: ExitUsage, Err: err}
}

// ExitCode maps an error returned by Execute to a process exit code.
// Errors without an explicit code are fatal runtime errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitFailure
}

// readPassword prompts on out and reads one line from in without echo when
// in is a terminal. Piped input is read as a plain line.
func readPassword(in *os.File, out io.Writer) (string, error) {
	fmt.Fprint(out, "password: ")
	if term.IsTerminal(int(in.Fd())) {
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// versionString builds the line printed by the version command and --version.
func versionString() string {
	info := settings.VersionInformation
	goVersion := runtime.Version()
	if bi, ok := rdebug.ReadBuildInfo(); ok {
		if bi.Main.Version != "" && bi.Main.Version != "(devel)" && info.BuildVersion == "v0.0.0-nightly" {
			info.BuildVersion = bi.Main.Version
		}
		if bi.GoVersion != "" {
			goVersion = bi.GoVersion
		}
	}
	return fmt.Sprintf("%s (go %s)", info.String(), strings.TrimPrefix(goVersion, "go"))
}
