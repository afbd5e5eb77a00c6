// overlay-demo drives the overlay through a scripted task from the agent
// side. Run the overlay binary in another terminal first, then this.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/BSchoolland/excalibur-v3/pkg/controller"
	"github.com/BSchoolland/excalibur-v3/pkg/diag"
	"github.com/BSchoolland/excalibur-v3/pkg/paths"
	"github.com/BSchoolland/excalibur-v3/pkg/protocol"
)

var (
	withInput = flag.Bool("input", false, "prompt for a task name through the overlay before running")
	stateFile = flag.String("state", "", "state file path (default: standard location)")
	cmdFile   = flag.String("command", "", "command file path (default: standard location)")
)

func main() {
	flag.Parse()

	diag.InitCrashLog("demo")
	defer diag.RecoverAndLog("main")

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "overlay-demo: stdout is not a terminal, progress output may interleave")
	}

	statePath := *stateFile
	commandPath := *cmdFile
	if statePath == "" || commandPath == "" {
		if _, err := paths.EnsureStateDir(); err != nil {
			fmt.Fprintf(os.Stderr, "overlay-demo: %v\n", err)
			os.Exit(1)
		}
		if statePath == "" {
			statePath = paths.StatePath()
		}
		if commandPath == "" {
			commandPath = paths.CommandPath()
		}
	}

	c, err := controller.New(statePath, commandPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "overlay-demo: %v\n", err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	c.SetCloseHandler(func() {
		fmt.Println("close requested, stopping demo")
		c.Stop()
		os.Exit(0)
	})

	task := "building application"
	if *withInput {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		text, err := c.RequestTextInput(ctx, "Enter task")
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "overlay-demo: input request: %v\n", err)
			os.Exit(1)
		}
		if text == "" {
			fmt.Println("input cancelled, using default task")
		} else {
			task = "building " + text
		}
	}

	steps := []string{
		"analyzing requirements",
		"generating code",
		"testing application",
		"deploying to server",
	}

	must(c.ShowTask("Create", task, len(steps)))
	fmt.Printf("started: Create - %s (%d steps)\n", task, len(steps))
	time.Sleep(1 * time.Second)

	for i, step := range steps {
		must(c.UpdateStep(i+1, step))
		fmt.Printf("  step %d/%d: %s\n", i+1, len(steps), step)
		time.Sleep(2 * time.Second)
	}

	must(c.PlaySound(protocol.SoundTaskComplete))
	must(c.CompleteTask())
	fmt.Println("task completed")

	// Let the overlay run its completion cycle before tearing down.
	time.Sleep(3 * time.Second)
	must(c.Hide())
	time.Sleep(200 * time.Millisecond)
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "overlay-demo: %v\n", err)
		os.Exit(1)
	}
}
