// File: cmd/jenkinsctl/confirm.go
// Brief: Confirmation prompt for destructive commands.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// confirmExact prompts and requires the reply to match expected verbatim.
// The read runs in a goroutine so a SIGINT during the prompt still cancels.
func confirmExact(ctx context.Context, in io.Reader, out io.Writer, prompt, expected string) error {
	if strings.TrimSpace(expected) == "" {
		return errors.New("confirmation token missing")
	}
	fmt.Fprint(out, strings.TrimSpace(prompt)+" ")

	reader := bufio.NewReader(in)
	type result struct {
		line string
		err  error
	}
	readResult := make(chan result, 1)
	go func() {
		line, err := reader.ReadString('\n')
		readResult <- result{line: line, err: err}
	}()

	var line string
	var err error
	select {
	case <-ctx.Done():
		fmt.Fprintln(out)
		return ctx.Err()
	case res := <-readResult:
		line, err = res.line, res.err
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if strings.TrimSpace(line) != expected {
		return errors.New("aborted")
	}
	return nil
}
