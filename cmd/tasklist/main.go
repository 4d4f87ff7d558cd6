package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"tasklist/internal/client"
	"tasklist/internal/model"
	"tasklist/internal/ui"
)

type Globals struct {
	API string `help:"Base URL of the tasks API." env:"TASKLIST_API" default:"http://localhost:3000/api" name:"api"`

	ctx context.Context
	out io.Writer
}

func (g *Globals) client() *client.Client {
	return client.New(g.API)
}

type CLI struct {
	Globals `embed:""`

	UI   UICmd   `cmd:"" default:"1" help:"Open the interactive task board."`
	List ListCmd `cmd:"" help:"Print all tasks."`
	Add  AddCmd  `cmd:"" help:"Create a task."`
	Done DoneCmd `cmd:"" help:"Mark a task completed."`
	Edit EditCmd `cmd:"" help:"Replace the content of a task."`
	Rm   RmCmd   `cmd:"" help:"Delete a task."`
}

type UICmd struct{}

func (c *UICmd) Run(g *Globals) error {
	return ui.Run(g.ctx, g.client())
}

type ListCmd struct{}

func (c *ListCmd) Run(g *Globals) error {
	tasks, err := g.client().List(g.ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(g.out, "No tasks found. Add your first task!")
		return nil
	}
	for _, t := range tasks {
		printTask(g.out, t)
	}
	return nil
}

type AddCmd struct {
	Content []string `arg:"" help:"Task content."`
	Done    bool     `help:"Create the task already completed."`
}

func (c *AddCmd) Run(g *Globals) error {
	req := client.CreateRequest{Content: strings.Join(c.Content, " ")}
	if c.Done {
		req.Completed = &c.Done
	}
	t, err := g.client().Create(g.ctx, req)
	if err != nil {
		return err
	}
	printTask(g.out, t)
	return nil
}

type DoneCmd struct {
	ID   string `arg:"" help:"Task id."`
	Undo bool   `help:"Mark the task not completed instead."`
}

func (c *DoneCmd) Run(g *Globals) error {
	completed := !c.Undo
	t, err := g.client().Update(g.ctx, c.ID, model.TaskPatch{Completed: &completed})
	if err != nil {
		return err
	}
	printTask(g.out, t)
	return nil
}

type EditCmd struct {
	ID      string   `arg:"" help:"Task id."`
	Content []string `arg:"" help:"New task content."`
}

func (c *EditCmd) Run(g *Globals) error {
	content := strings.Join(c.Content, " ")
	t, err := g.client().Update(g.ctx, c.ID, model.TaskPatch{Content: &content})
	if err != nil {
		return err
	}
	printTask(g.out, t)
	return nil
}

type RmCmd struct {
	ID string `arg:"" help:"Task id."`
}

func (c *RmCmd) Run(g *Globals) error {
	t, err := g.client().Delete(g.ctx, c.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.out, "deleted %s\n", t.ID)
	return nil
}

func printTask(w io.Writer, t model.Task) {
	check := " "
	if t.Completed {
		check = "x"
	}
	fmt.Fprintf(w, "[%s] %s  %s\n", check, t.ID, t.Content)
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("tasklist"),
		kong.Description("Manage tasks on a tasklist API server."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cli.Globals.ctx = ctx
	cli.Globals.out = os.Stdout

	err := kctx.Run(&cli.Globals)
	kctx.FatalIfErrorf(err)
}
