package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brack-io/brack/tape"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

func isTerminalIO() bool {
	stdin := os.Stdin.Fd()
	stdout := os.Stdout.Fd()
	inTerm := isatty.IsTerminal(stdin) || isatty.IsCygwinTerminal(stdin)
	outTerm := isatty.IsTerminal(stdout) || isatty.IsCygwinTerminal(stdout)
	return inTerm && outTerm
}

func shouldRunRepl(cmd *cobra.Command, args []string) bool {
	if viper.GetBool("interactive") {
		return true
	}
	if viper.GetBool("stdin") {
		return false
	}
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		return false
	}
	if len(args) > 0 {
		return false
	}
	return isTerminalIO()
}

func getSource(cmd *cobra.Command, args []string) (string, error) {
	// The program comes from one of three places:
	// 1. --code <program>
	// 2. --stdin
	// 3. a file path as args[0]
	var codeFlagSet bool
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeFlagSet = true
	}
	stdinFlagSet := viper.GetBool("stdin")
	pathSupplied := len(args) > 0

	if pathSupplied && (codeFlagSet || stdinFlagSet) {
		return "", errors.New("multiple input sources specified")
	} else if codeFlagSet && stdinFlagSet {
		return "", errors.New("multiple input sources specified")
	}
	if stdinFlagSet {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	} else if pathSupplied {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if !codeFlagSet {
		return "", errors.New("no program specified")
	}
	return viper.GetString("code"), nil
}

// boundsFromFlags maps --size and --wrap onto a tape bounds policy. A size
// without --wrap means strict bounds, matching the batch-mode contract that
// walking off a limited tape is an error.
func boundsFromFlags() tape.Bounds {
	size := viper.GetInt("size")
	if size <= 0 {
		return tape.Unbounded()
	}
	if viper.GetBool("wrap") {
		return tape.FixedWrap(size)
	}
	return tape.FixedStrict(size)
}

// hexDump renders tape cells two hex digits each, with the pointer's cell
// bracketed: "00 [07] 2a". Cells past the end of the snapshot render as 00
// so the pointer is always visible.
func hexDump(cells []byte, pointer int) string {
	n := len(cells)
	if pointer+1 > n {
		n = pointer + 1
	}
	var b strings.Builder
	if pointer == 0 {
		b.WriteString("[")
	}
	for i := 0; i < n; i++ {
		var v byte
		if i < len(cells) {
			v = cells[i]
		}
		fmt.Fprintf(&b, "%02x", v)
		switch {
		case i == pointer:
			b.WriteString("]")
		case i+1 == pointer:
			b.WriteString("[")
		default:
			b.WriteString(" ")
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if viper.GetBool("debug") {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: viper.GetBool("no-color")}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
}
