package app

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/talkgraph/internal/ctxlog"
	"github.com/vk/talkgraph/internal/script"
	"github.com/vk/talkgraph/internal/talk"
)

// Run executes the main application logic based on the provided configuration:
// it loads the script, builds the dialogue graph and plays it on the terminal.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	raw, err := script.Load(ctx, a.config.ScriptPath)
	if err != nil {
		return fmt.Errorf("failed to load script: %w", err)
	}
	a.logger.Debug("Script loaded.", "actors", len(raw.Actors), "actions", len(raw.Script))

	graph, err := talk.Build(ctx, raw, talk.BuildOptions{
		AllowSelfLoops:     a.config.AllowSelfLoops,
		StrictReachability: a.config.Strict,
	})
	if err != nil {
		return fmt.Errorf("failed to build dialogue graph: %w", err)
	}
	a.logger.Debug("Dialogue graph built.", "node_count", graph.Len())

	for _, w := range graph.Warnings() {
		a.logger.Warn(w)
	}

	if graph.Len() == 0 {
		a.logger.Warn("Script is empty, nothing to play.")
		return nil
	}

	if err := a.play(graph); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// play walks the graph from its start node, printing each event and
// prompting for a pick whenever the cursor lands on a choice node.
func (a *App) play(graph *talk.Graph) error {
	cursor, err := graph.Cursor()
	if err != nil {
		return err
	}
	scanner := bufio.NewScanner(a.inR)

	for {
		switch ev := cursor.Event().(type) {
		case talk.TalkEvent:
			a.printLine(cursor.ActorNames(), ev.Text, cursor.SoundEffect())
		case talk.JoinEvent:
			fmt.Fprintf(a.outW, "-- %s joined --\n", strings.Join(cursor.ActorNames(), ", "))
		case talk.LeaveEvent:
			fmt.Fprintf(a.outW, "-- %s left --\n", strings.Join(cursor.ActorNames(), ", "))
		case talk.ChoiceEvent:
			target, err := a.promptChoice(scanner, ev.Choices)
			if err != nil {
				return err
			}
			if err := cursor.JumpTo(target); err != nil {
				return err
			}
			continue
		}

		if cursor.IsTerminal() {
			fmt.Fprintln(a.outW, "-- the end --")
			return nil
		}
		if err := cursor.Advance(); err != nil {
			return err
		}
	}
}

// printLine renders a single spoken line, prefixed with the speaker names
// when the node has any.
func (a *App) printLine(names []string, text, soundEffect string) {
	if soundEffect != "" {
		fmt.Fprintf(a.outW, "*%s*\n", soundEffect)
	}
	if len(names) > 0 {
		fmt.Fprintf(a.outW, "%s: %s\n", strings.Join(names, ", "), text)
	} else {
		fmt.Fprintln(a.outW, text)
	}
}

// promptChoice lists the available choices and reads picks from the input
// stream until one is valid, then returns its target node.
func (a *App) promptChoice(scanner *bufio.Scanner, choices []talk.Choice) (talk.NodeID, error) {
	for i, c := range choices {
		fmt.Fprintf(a.outW, "  %d) %s\n", i+1, c.Text)
	}
	for {
		fmt.Fprint(a.outW, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, fmt.Errorf("failed to read choice: %w", err)
			}
			return 0, fmt.Errorf("input closed while waiting for a choice")
		}
		pick, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || pick < 1 || pick > len(choices) {
			fmt.Fprintf(a.outW, "enter a number between 1 and %d\n", len(choices))
			continue
		}
		return choices[pick-1].Next, nil
	}
}
