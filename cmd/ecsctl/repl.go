package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parallex/ecsrt/pkg/ecs"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Step a demo world one tick at a time from an interactive prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		workers, _ := cmd.Flags().GetInt("workers")
		entities, _ := cmd.Flags().GetInt("entities")

		r := &replState{workers: workers, entities: entities}
		r.reset()
		return r.run()
	},
}

func init() {
	replCmd.Flags().Int("workers", 4, "Worker pool size")
	replCmd.Flags().Int("entities", 10, "Number of demo entities")
}

// replState holds the demo world the REPL steps, plus the liner instance
// providing history and line editing.
type replState struct {
	workers, entities int
	world             *ecs.World
	sched             *ecs.Scheduler
	alloc             *ecs.EntityAllocator
	tickCount         int
	liner             *liner.State
}

func (r *replState) reset() {
	if r.sched != nil {
		r.sched.Close()
	}
	r.world, r.sched, r.alloc = buildDemoWorld(r.workers, r.entities)
	r.tickCount = 0
}

func replHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ecsctl_history")
}

func (r *replState) run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()
	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(replHistoryFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("ecsctl repl (workers=%d, entities=%d)\n", r.workers, r.entities)
	fmt.Println("Type 'help' for available commands.")

	for {
		line, err := r.liner.Prompt("ecsctl> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()
			r.sched.Close()
			return nil
		case "help", "?":
			r.printHelp()
		case "tick", "step":
			r.cmdTick(args)
		case "state", "show":
			printWorldState(r.world, r.alloc)
		case "reset":
			r.reset()
			fmt.Println("world reset")
		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()
	r.sched.Close()
	return nil
}

func (r *replState) cmdTick(args []string) {
	n := 1
	if len(args) >= 1 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			fmt.Println("Usage: tick [count]")
			return
		}
		n = parsed
	}
	for i := 0; i < n; i++ {
		r.sched.Run(r.world)
		r.tickCount++
	}
	fmt.Printf("ran %d tick(s), total %d\n", n, r.tickCount)
}

func (r *replState) saveHistory() {
	if path := replHistoryFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *replState) completer(line string) []string {
	commands := []string{"tick", "step", "state", "show", "reset", "help", "exit", "quit", "q"}
	var completions []string
	lower := strings.ToLower(line)
	for _, c := range commands {
		if strings.HasPrefix(c, lower) {
			completions = append(completions, c)
		}
	}
	return completions
}

func (r *replState) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  tick [count]   Run one or more ticks")
	fmt.Println("  state          Show current entity positions/velocities")
	fmt.Println("  reset          Rebuild the demo world from scratch")
	fmt.Println("  help           Show this help")
	fmt.Println("  exit / quit / q")
}
