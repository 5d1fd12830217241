package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readLines scans r in the background so prompts can also watch ctx.
// The channel is closed at EOF.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimRight(scanner.Text(), "\r"):
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func (c *Console) readLine(ctx context.Context, prompt string) (string, error) {
	c.printf("%s", prompt)
	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", errInputClosed
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Console) menuChoice(ctx context.Context) (int, error) {
	for {
		line, err := c.readLine(ctx, "Choose an option (1-6): ")
		if err != nil {
			return 0, err
		}
		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && choice >= choiceAdd && choice <= choiceExit {
			return choice, nil
		}
		c.println("Error: Please enter a number between 1 and 6")
	}
}

// textInput returns the raw line. Required input must contain a
// non-whitespace character; optional input may be empty.
func (c *Console) textInput(ctx context.Context, prompt string, required bool) (string, error) {
	for {
		value, err := c.readLine(ctx, prompt)
		if err != nil {
			return "", err
		}
		if required && strings.TrimSpace(value) == "" {
			c.println("Error: Input cannot be empty")
			continue
		}
		return value, nil
	}
}

func (c *Console) numericInput(ctx context.Context, prompt string) (int, error) {
	for {
		line, err := c.readLine(ctx, prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			return n, nil
		}
		c.println("Error: Task ID must be a number")
	}
}

func (c *Console) confirm(ctx context.Context) (bool, error) {
	for {
		line, err := c.readLine(ctx, "Confirm? (y/n): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.println("Error: Please enter 'y' or 'n'")
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(args ...any) {
	fmt.Fprintln(c.out, args...)
}
