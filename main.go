package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"charvideo/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, "charvideo:", err)
	}
	return exitCode(err)
}

// usageError marks bad flags, arguments or configuration.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usage(err error) error {
	if err == nil {
		return nil
	}
	return usageError{err: err}
}

func exitCode(err error) int {
	if err == nil {
		return pipeline.ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return pipeline.ExitInterrupted
	}
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		return stageErr.ExitCode()
	}
	var usageErr usageError
	if errors.As(err, &usageErr) {
		return pipeline.ExitUsage
	}
	return pipeline.ExitFailure
}
