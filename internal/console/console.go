// Package console implements the numbered text menu front end.
package console

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/report"
	"github.com/nibzard/todo-go/internal/task"
	"github.com/nibzard/todo-go/internal/todo"
)

const menuBanner = "========== TODO APPLICATION =========="

// Menu choices.
const (
	choiceAdd = iota + 1
	choiceView
	choiceUpdate
	choiceDelete
	choiceStatus
	choiceExit
)

// errInputClosed is returned by prompts once the input reaches EOF.
var errInputClosed = errors.New("input closed")

// Options configures a Console.
type Options struct {
	DescriptionWidth int
	ConfirmDelete    bool
	Logger           *log.Logger
}

// Console drives a todo.Service from line-oriented input.
type Console struct {
	svc    *todo.Service
	in     io.Reader
	out    io.Writer
	opts   Options
	logger *log.Logger
	lines  <-chan string
}

// New creates a console reading from in and writing to out.
func New(svc *todo.Service, in io.Reader, out io.Writer, opts Options) *Console {
	if opts.DescriptionWidth < report.MinDescriptionWidth {
		opts.DescriptionWidth = report.DefaultDescriptionWidth
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Console{
		svc:    svc,
		in:     in,
		out:    out,
		opts:   opts,
		logger: logger,
	}
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
// Reaching the end of input is a clean exit.
func (c *Console) Run(ctx context.Context) error {
	// Cancelling on return releases the reader goroutine.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.lines = readLines(ctx, c.in)

	c.println("\n" + menuBanner)
	c.println("Welcome to your Todo application!")
	c.println()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.showMenu()
		choice, err := c.menuChoice(ctx)
		if err != nil {
			return c.finish(err)
		}
		if choice == choiceExit {
			c.println("\nGoodbye!")
			return nil
		}

		if err := c.execute(ctx, choice); err != nil {
			switch {
			case errors.Is(err, errInputClosed), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return c.finish(err)
			case errors.Is(err, todo.ErrValidation), errors.Is(err, todo.ErrNotFound):
				c.printf("\nError: %s\n", err)
			default:
				c.logger.Error("menu action failed", "choice", choice, "error", err)
				c.printf("\nUnexpected error: %s\n", err)
			}
		}

		c.println()
	}
}

func (c *Console) finish(err error) error {
	if errors.Is(err, errInputClosed) {
		c.logger.Debug("input closed, leaving menu")
		c.println("\nGoodbye!")
		return nil
	}
	return err
}

func (c *Console) showMenu() {
	c.println(menuBanner)
	c.println("1. Add Task")
	c.println("2. View Tasks")
	c.println("3. Update Task")
	c.println("4. Delete Task")
	c.println("5. Mark Task Complete/Incomplete")
	c.println("6. Exit")
	c.println()
}

func (c *Console) execute(ctx context.Context, choice int) error {
	switch choice {
	case choiceAdd:
		return c.addTask(ctx)
	case choiceView:
		c.viewTasks()
		return nil
	case choiceUpdate:
		return c.updateTask(ctx)
	case choiceDelete:
		return c.deleteTask(ctx)
	case choiceStatus:
		return c.changeStatus(ctx)
	}
	return nil
}

func (c *Console) addTask(ctx context.Context) error {
	c.println("\n--- Add Task ---")
	title, err := c.textInput(ctx, "Enter task title: ", true)
	if err != nil {
		return err
	}
	description, err := c.textInput(ctx, "Enter task description (press Enter to skip): ", false)
	if err != nil {
		return err
	}

	t, err := c.svc.Add(title, description)
	if err != nil {
		return err
	}
	c.printf("✓ Task created with ID: %d\n", t.ID)
	c.printf("Task: \"%s\" [%s]\n", t.Title, t.Status)
	return nil
}

func (c *Console) viewTasks() {
	c.println("\n--- Your Tasks ---")
	tasks := c.svc.List()
	if len(tasks) == 0 {
		c.println("No tasks yet")
		return
	}
	c.println()
	report.WriteTable(c.out, tasks, c.opts.DescriptionWidth)
}

func (c *Console) updateTask(ctx context.Context) error {
	c.println("\n--- Update Task ---")
	id, err := c.numericInput(ctx, "Enter task ID to update: ")
	if err != nil {
		return err
	}

	current, err := c.svc.Get(id)
	if err != nil {
		return err
	}
	c.printf("Current task: \"%s\" %s\n", current.Title, parenthesized(current.Description))
	c.println()

	newTitle, err := c.textInput(ctx, "Enter new title (press Enter to keep current): ", false)
	if err != nil {
		return err
	}
	newDescription, err := c.textInput(ctx, "Enter new description (press Enter to keep current): ", false)
	if err != nil {
		return err
	}

	var titlePtr, descPtr *string
	if newTitle != "" {
		titlePtr = &newTitle
	}
	if newDescription != "" {
		descPtr = &newDescription
	}

	updated, changed, err := c.svc.Update(id, titlePtr, descPtr)
	if err != nil {
		return err
	}
	if !changed {
		c.println("No changes made. Task remains unchanged")
		return nil
	}
	c.printf("✓ Task %d updated successfully\n", id)
	c.printf("Updated task: \"%s\" %s\n", updated.Title, parenthesized(updated.Description))
	return nil
}

func parenthesized(description string) string {
	if description == "" {
		return "(no description)"
	}
	return "(" + description + ")"
}

func (c *Console) deleteTask(ctx context.Context) error {
	c.println("\n--- Delete Task ---")
	id, err := c.numericInput(ctx, "Enter task ID to delete: ")
	if err != nil {
		return err
	}

	current, err := c.svc.Get(id)
	if err != nil {
		return err
	}

	if c.opts.ConfirmDelete {
		if current.Description != "" {
			c.printf("Delete task? \"%s\" (%s)\n", current.Title, current.Description)
		} else {
			c.printf("Delete task? \"%s\"\n", current.Title)
		}
		ok, err := c.confirm(ctx)
		if err != nil {
			return err
		}
		if !ok {
			c.println("Deletion cancelled. Task remains")
			return nil
		}
	}

	if _, err := c.svc.Delete(id); err != nil {
		return err
	}
	c.printf("✓ Task %d deleted successfully\n", id)
	return nil
}

func (c *Console) changeStatus(ctx context.Context) error {
	c.println("\n--- Mark Task Complete/Incomplete ---")
	id, err := c.numericInput(ctx, "Enter task ID: ")
	if err != nil {
		return err
	}

	current, err := c.svc.Get(id)
	if err != nil {
		return err
	}
	c.printf("Current status: %s %s\n", current.Status.Symbol(), current.Status)
	c.println()
	c.println("1. Mark Complete")
	c.println("2. Mark Incomplete")
	c.println()

	for {
		line, err := c.readLine(ctx, "Choose (1-2): ")
		if err != nil {
			return err
		}
		switch strings.TrimSpace(line) {
		case "1":
			if _, err := c.svc.MarkComplete(id); err != nil {
				return err
			}
			c.printf("✓ Task %d marked as complete\n", id)
			c.printf("New status: %s %s\n", task.StatusComplete.Symbol(), task.StatusComplete)
			return nil
		case "2":
			if _, err := c.svc.MarkIncomplete(id); err != nil {
				return err
			}
			c.printf("✓ Task %d marked as incomplete\n", id)
			c.printf("New status: %s %s\n", task.StatusIncomplete.Symbol(), task.StatusIncomplete)
			return nil
		default:
			c.println("Error: Please enter 1 or 2")
		}
	}
}
