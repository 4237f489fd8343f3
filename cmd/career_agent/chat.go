package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/jonathan/career-advisor/internal/agent"
)

const chatGreeting = `Career advisor ready. Tell me about your job search, point me at your
resume file, or paste a job posting. Type "new" to start over, "exit" to quit.`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive advisor session",
	Long:  "Start a terminal conversation with the career advisor. The session keeps your resume, job list, and generated documents until you exit or start over.",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	prompt := promptui.Prompt{Label: "you"}
	readLine := func() (string, error) {
		input, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", io.EOF
		}
		return input, err
	}

	return chatLoop(ctx, a.newLoop, readLine, os.Stdout)
}

// chatLoop drives the conversation until the reader stops or the user
// exits. "new" discards the current loop entirely and builds a fresh
// one, so the next turn starts with an empty session and an empty
// backend history.
func chatLoop(ctx context.Context, newLoop func() (*agent.Loop, error), readLine func() (string, error), out io.Writer) error {
	loop, err := newLoop()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, chatGreeting)

	for {
		input, err := readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out, "Bye.")
				return nil
			}
			return err
		}

		switch strings.ToLower(strings.TrimSpace(input)) {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Bye.")
			return nil
		case "new":
			loop, err = newLoop()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Started a new conversation.")
			continue
		}

		fmt.Fprintln(out, loop.Run(ctx, input))
	}
}
