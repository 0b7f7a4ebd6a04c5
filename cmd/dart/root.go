package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	verbose bool

	errorColor = color.New(color.FgRed, color.Bold)
	infoColor  = color.New(color.FgCyan)
	okColor    = color.New(color.FgGreen)
)

var rootCmd = &cobra.Command{
	Use:   "dart",
	Short: "fit, query and certifiably prune a deletion-capable decision forest",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print colored diagnostic output")
	rootCmd.AddCommand(fitCmd, predictCmd, deleteCmd, shellCmd)
}

// Execute runs the root command, printing errors in red.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func logVerbose(format string, args ...interface{}) {
	if verbose {
		infoColor.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func logOK(format string, args ...interface{}) {
	if verbose {
		okColor.Fprintf(os.Stderr, format+"\n", args...)
	}
}
