package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/brack-io/brack/errz"
	"github.com/brack-io/brack/interp"
	"github.com/brack-io/brack/tape"
	"github.com/fatih/color"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
)

const historyFileName = ".brack_history"

// replSession owns the interpreter that persists across shell lines. The
// mutex exists only because the signal goroutine reaches in to fire the stop
// handle while a program runs.
type replSession struct {
	mu     sync.Mutex
	in     *interp.Interpreter
	port   *interp.Port
	bounds tape.Bounds
}

func newReplSession(bounds tape.Bounds, port *interp.Port) *replSession {
	s := &replSession{bounds: bounds, port: port}
	s.reset()
	return s
}

// reset discards tape state and any partially buffered loop.
func (s *replSession) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.in = interp.New(interp.WithBounds(s.bounds), interp.WithPort(s.port))
}

func (s *replSession) interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.in.Stopper().Stop()
}

func (s *replSession) interpreter() *interp.Interpreter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in
}

func runRepl(ctx context.Context, log zerolog.Logger) error {
	// Shell lines and the input instruction read from the same buffered
	// reader, so bytes typed for "," are not lost to a second buffer.
	stdin := bufio.NewReader(os.Stdin)
	session := newReplSession(boundsFromFlags(), interp.NewPort(os.Stdout, stdin))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)
	go func() {
		for range sig {
			session.interrupt()
		}
	}()

	historyPath := historyFile()

	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Printf("%s %s\n", bold("brack"), version)
	fmt.Println("Type $exit to exit, $reset to clear the tape")

	prompt := cyan("$> ")
	for {
		fmt.Print(prompt)
		line, err := stdin.ReadString('\n')
		if err != nil {
			fmt.Println()
			return finalize(session)
		}
		line = strings.TrimRight(line, "\r\n")
		switch strings.TrimSpace(line) {
		case "":
			continue
		case "$exit":
			return finalize(session)
		case "$reset":
			session.reset()
			continue
		}
		appendHistory(historyPath, line)

		in := session.interpreter()
		start := time.Now()
		if err := in.RunString(ctx, line); err != nil {
			switch {
			case errz.IsStopped(err):
				// Deliberate abort; keep the tape as of the last
				// completed iteration and say nothing.
			case errz.IsIOFault(err):
				return err
			default:
				fmt.Fprintln(os.Stderr, red(err.Error()))
			}
			continue
		}
		log.Debug().Dur("elapsed", time.Since(start)).Msg("line complete")
		fmt.Println(hexDump(in.Snapshot(true), in.Pos()))
	}
}

// finalize reports a loop left open when the shell exits.
func finalize(session *replSession) error {
	if _, err := session.interpreter().Evaluate(); err != nil {
		return err
	}
	return nil
}

func historyFile() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFileName)
}

func appendHistory(path, line string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	f.WriteString(line + "\n")
}
