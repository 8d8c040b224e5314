package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/brack-io/brack/errz"
	"github.com/brack-io/brack/interp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "brack [file]",
	Short: "Run brack programs",
	Long: `brack is an interpreter for an 8-instruction tape language.
With no input on a terminal it starts an interactive shell that keeps
tape state across lines and prints a hex dump of the tape after each.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		processGlobalFlags()
		log := newLogger()

		if viper.GetBool("wrap") && viper.GetInt("size") <= 0 {
			return errors.New("--wrap requires --size")
		}

		if shouldRunRepl(cmd, args) {
			return runRepl(cmd.Context(), log)
		}

		source, err := getSource(cmd, args)
		if err != nil {
			return err
		}

		in := interp.New(
			interp.WithBounds(boundsFromFlags()),
			interp.WithPort(interp.NewPort(os.Stdout, os.Stdin)),
		)

		// An interrupt fires the engine's stop handle; the run unwinds
		// with a stopped error at its next poll point.
		stop := in.Stopper()
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		defer signal.Stop(sig)
		go func() {
			for range sig {
				stop.Stop()
			}
		}()

		start := time.Now()
		if err := in.RunString(cmd.Context(), source); err != nil {
			return err
		}
		cells, err := in.Evaluate()
		if err != nil {
			return err
		}
		log.Debug().
			Dur("elapsed", time.Since(start)).
			Int("cells", len(cells)).
			Int("pointer", in.Pos()).
			Msg("run complete")

		output, err := getOutput(cells, in.Pos(), viper.GetString("output"))
		if err != nil {
			return err
		}
		if output != "" {
			fmt.Println(output)
		}
		if viper.GetBool("timing") {
			fmt.Printf("%v\n", time.Since(start))
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")
		if format == "json" {
			info, err := json.MarshalIndent(map[string]any{
				"version": version,
				"commit":  commit,
				"date":    date,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(info))
		} else {
			fmt.Println(version)
		}
		return nil
	},
}

func init() {
	root := rootCmd.Flags()
	root.StringP("code", "c", "", "Program to run")
	root.Bool("stdin", false, "Read the program from stdin")
	root.BoolP("interactive", "i", false, "Start the interactive shell")
	root.IntP("size", "s", 0, "Limit the tape to this many cells")
	root.BoolP("wrap", "w", false, "Wrap the pointer at the cell limit (requires --size)")
	root.StringP("output", "o", "", "Print the final tape (json or text)")
	root.Bool("timing", false, "Show execution time")

	pers := rootCmd.PersistentFlags()
	pers.Bool("no-color", false, "Disable colored output")
	pers.Bool("debug", false, "Enable debug logging")

	versionCmd.Flags().StringP("output", "o", "", "Output format (json or text)")

	viper.BindPFlags(root)
	viper.BindPFlags(pers)

	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// A stopped run is a deliberate abort: fail silently, the way a
		// shell interrupt does.
		if !errz.IsStopped(err) {
			if errz.IsIOFault(err) {
				fatal(fmt.Sprintf("unexpected error: %s", err))
			}
			fatal(err)
		}
		os.Exit(1)
	}
}
