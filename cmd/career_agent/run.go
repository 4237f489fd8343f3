package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [message]",
	Short: "Ask the advisor a single question",
	Long:  "Run one turn against a fresh session and print the reply. Useful for scripting; use chat for a persistent session.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	loop, err := a.newLoop()
	if err != nil {
		return err
	}

	fmt.Println(loop.Run(ctx, strings.Join(args, " ")))
	return nil
}
