package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/wlattner/dart/internal/deletequeue"
	"github.com/wlattner/dart/tree"
)

var shellFlags struct {
	treeFile   string
	modelFile  string
	deleteRate float64
	burst      int
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "interactive session against a single loaded tree: predict, delete, stats, dot",
	RunE:  runShell,
}

func init() {
	f := shellCmd.Flags()
	f.StringVar(&shellFlags.treeFile, "tree", "", "saved single tree to load (required)")
	f.Float64Var(&shellFlags.deleteRate, "delete-rate", 5, "max delete batches admitted per second")
	f.IntVar(&shellFlags.burst, "delete-burst", 1, "delete batches admitted in a burst")
	_ = shellCmd.MarkFlagRequired("tree")
}

func runShell(cmd *cobra.Command, args []string) error {
	f, err := os.Open(shellFlags.treeFile)
	if err != nil {
		return fmt.Errorf("opening %s: %w", shellFlags.treeFile, err)
	}
	t := &tree.Tree{}
	loadErr := t.Load(f)
	f.Close()
	if loadErr != nil {
		return fmt.Errorf("loading %s: %w", shellFlags.treeFile, loadErr)
	}

	q := deletequeue.New(t, rate.Limit(shellFlags.deleteRate), shellFlags.burst)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)
	defer q.Wait()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          okColor.Sprint("dart> "),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "exit", "quit":
			return nil
		case "stats":
			fmt.Fprintf(rl.Stderr(), "rows: %d, features: %d\n", t.NSamples(), t.NFeatures())
		case "dot":
			if err := t.WriteDOT(rl.Stdout()); err != nil {
				errorColor.Fprintln(rl.Stderr(), "dot:", err)
			}
		case "predict":
			if err := shellPredict(rl, t, fields[1:]); err != nil {
				errorColor.Fprintln(rl.Stderr(), "predict:", err)
			}
		case "delete":
			shellDelete(ctx, rl, q, fields[1:])
		default:
			errorColor.Fprintf(rl.Stderr(), "unknown command %q (try: predict, delete, stats, dot, exit)\n", fields[0])
		}
	}
}

// shellPredict parses "predict 1 0 1 ..." as one row of binary feature
// values and prints the tree's leaf prediction for it.
func shellPredict(rl *readline.Instance, t *tree.Tree, args []string) error {
	row := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}
		row[i] = v
	}
	pred, err := t.Predict([][]float64{row})
	if err != nil {
		return err
	}
	fmt.Fprintf(rl.Stdout(), "%d\n", pred[0])
	return nil
}

// shellDelete parses "delete <key> [<key> ...]" as row-store keys and
// submits them through the queue, printing the returned trace.
func shellDelete(ctx context.Context, rl *readline.Instance, q *deletequeue.Queue, args []string) {
	if len(args) == 0 {
		errorColor.Fprintln(rl.Stderr(), "delete: need at least one row key")
		return
	}
	keys := make([]int, len(args))
	for i, a := range args {
		k, err := strconv.Atoi(a)
		if err != nil {
			errorColor.Fprintf(rl.Stderr(), "delete: key %q is not an integer\n", a)
			return
		}
		keys[i] = k
	}

	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	id, trace, err := q.Submit(reqCtx, keys)
	if err != nil {
		errorColor.Fprintln(rl.Stderr(), "delete:", err)
		return
	}
	infoColor.Fprintf(rl.Stderr(), "request %s trace: %v\n", id, trace)
}
