package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wayfarer-dev/wayfarer/internal/config"
	"github.com/wayfarer-dev/wayfarer/pkg/browser"
	"github.com/wayfarer-dev/wayfarer/pkg/history"
	"github.com/wayfarer-dev/wayfarer/pkg/route"
)

func simCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sim [script]",
		Short: "Replay a navigation script against a simulated browser",
		Long: `Sim replays a navigation script without a real browser, printing
each committed action as JSON and the final history stack.

Script commands, one per line ("#" starts a comment):

  push <url>      navigate to a URL
  replace <url>   replace the current entry
  back            press the back button
  forward         press the forward button
  go <n>          jump by a relative delta

Reads the script from the file argument, or stdin when omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runSim(configPath, in, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to wayfarer.json (default: search upward)")

	return cmd
}

func runSim(configPath string, in io.Reader, out io.Writer) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		configPath, err = config.Find(wd)
		if err != nil {
			return err
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	tbl, err := cfg.Table()
	if err != nil {
		return err
	}
	opts := cfg.Options()

	mem := browser.NewMemory(cfg.DefaultURL)
	defer mem.Close()
	engine := history.NewEngine(history.Entry{
		Action:   route.Translate(cfg.DefaultURL, tbl, opts),
		Location: route.ParseLocation(cfg.DefaultURL, opts),
	})
	enc := json.NewEncoder(out)
	sync := browser.NewSynchronizer(mem, engine, tbl, opts,
		browser.WithActionSink(func(a route.Action) { enc.Encode(a) }),
	)
	defer sync.Close()

	ctx := context.Background()
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := runSimCommand(ctx, sync, mem, tbl, opts, line); err != nil {
			return fmt.Errorf("line %d (%q): %w", lineNo, line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	mem.Settled()

	fmt.Fprintln(out, "---")
	for i, e := range engine.Entries() {
		marker := " "
		if i == engine.Index() {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %d %s %s\n", marker, i, e.Action.Type, e.Location.URL)
	}
	return nil
}

func runSimCommand(ctx context.Context, sync *browser.Synchronizer, mem *browser.Memory, tbl *route.Table, opts *route.Options, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "push":
		if len(args) != 1 {
			return fmt.Errorf("push wants a URL")
		}
		_, err := sync.NavigateURL(ctx, args[0])
		return err
	case "replace":
		if len(args) != 1 {
			return fmt.Errorf("replace wants a URL")
		}
		return sync.Replace(ctx, route.Translate(args[0], tbl, opts))
	case "back":
		if err := mem.Back(); err != nil {
			return err
		}
		return waitIdle(sync, mem)
	case "forward":
		if err := mem.Forward(); err != nil {
			return err
		}
		return waitIdle(sync, mem)
	case "go":
		if len(args) != 1 {
			return fmt.Errorf("go wants a delta")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad delta %q", args[0])
		}
		return sync.Jump(ctx, n)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// waitIdle lets an in-flight pop resolve before the next script line,
// so replays are deterministic.
func waitIdle(sync *browser.Synchronizer, mem *browser.Memory) error {
	mem.Settled()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sync.State() == "idle" && sync.Engine().Index() == mem.Index() {
			return nil
		}
		time.Sleep(2 * time.Millisecond)
	}
	return fmt.Errorf("pop never resolved")
}
