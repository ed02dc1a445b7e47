package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/askme/internal/resolver"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question, or start an interactive session without one",
	Run: func(cmd *cobra.Command, args []string) {
		ask(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().Bool("show-tier", false, "print the tier that answered the question")
}

func ask(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger := newLogger()
	defer logger.Sync()

	a, err := newApplication(ctx, logger)
	if err != nil {
		logger.Fatal("preparing the application", zap.Error(err))
	}
	defer a.Close()

	showTier, _ := cmd.Flags().GetBool("show-tier")

	if len(args) > 0 {
		printResponse(a.resolver.Respond(ctx, strings.Join(args, " ")), showTier)
		return
	}

	prompt := promptui.Prompt{
		Label: "Ask me (exit to quit)",
	}

	for {
		question, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		switch strings.ToLower(strings.TrimSpace(question)) {
		case "exit", "quit":
			return
		}

		printResponse(a.resolver.Respond(ctx, question), showTier)
	}
}

func printResponse(resp resolver.Response, showTier bool) {
	if showTier {
		fmt.Printf("[%s] ", resp.Tier)
	}
	fmt.Println(resp.Message())
}
