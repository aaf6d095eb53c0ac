package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ganai-labs/voiceagents/internal/adapters"
	"github.com/ganai-labs/voiceagents/internal/agent"
	"github.com/ganai-labs/voiceagents/internal/agents"
	"github.com/ganai-labs/voiceagents/internal/config"
	"github.com/ganai-labs/voiceagents/internal/eventbus"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "chat [agent]",
		Short:         "Talk to an agent from the terminal",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.EnsureDataDir(); err != nil {
				return err
			}

			model, err := adapters.NewOpenAIModel(cfg.OpenAIAPIKey, adapters.WithModel(cfg.Model))
			if err != nil {
				return err
			}

			def, cleanup, err := agents.Build(args[0], agentConfig(cfg))
			if err != nil {
				return err
			}
			defer cleanup()

			bus := eventbus.New()
			defer bus.Shutdown()

			runner, err := agent.NewRunner(def, model,
				agent.WithBus(bus),
				agent.WithModel(cfg.Model))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return chatLoop(ctx, cmd, runner)
		},
	}
	return cmd
}

func chatLoop(ctx context.Context, cmd *cobra.Command, runner *agent.Runner) error {
	out := cmd.OutOrStdout()

	say := func(text string) {
		fmt.Fprintf(out, "[%s] %s\n", runner.State().CurrentKey(), text)
	}

	if greeting, err := runner.Greeting(ctx); err == nil && greeting != "" {
		say(greeting)
	} else if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		before := runner.State().CurrentKey()
		reply, err := runner.HandleUtterance(ctx, line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if after := runner.State().CurrentKey(); after != before {
			fmt.Fprintf(out, "-- handed off: %s -> %s --\n", before, after)
		}
		if reply != "" {
			say(reply)
		}
	}
}
