package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ganai-labs/voiceagents/internal/adapters"
	"github.com/ganai-labs/voiceagents/internal/agents"
	"github.com/ganai-labs/voiceagents/internal/config"
	"github.com/ganai-labs/voiceagents/internal/eventbus"
	"github.com/ganai-labs/voiceagents/internal/observability"
	"github.com/ganai-labs/voiceagents/internal/server"
	"github.com/ganai-labs/voiceagents/internal/session"
)

func newServeCmd() *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:           "serve",
		Short:         "Run the websocket server for all agents",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}
			if err := cfg.EnsureDataDir(); err != nil {
				return err
			}

			model, err := adapters.NewOpenAIModel(cfg.OpenAIAPIKey, adapters.WithModel(cfg.Model))
			if err != nil {
				return err
			}

			usage := observability.NewUsageCollector()
			bus := eventbus.New(eventbus.WithObserver(usage))
			defer bus.Shutdown()
			defer usage.LogSummary()

			sessions := session.NewManager(bus)
			srv, err := server.New(server.Options{
				ListenAddr: cfg.ListenAddr,
				AgentCfg:   agentConfig(cfg),
				Model:      model,
				ModelName:  cfg.Model,
				Bus:        bus,
				Sessions:   sessions,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Printf("[Serve] Agents available: %v", agents.Names())
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen", "", "Override the listen address")
	return cmd
}

func agentConfig(cfg config.Config) agents.Config {
	return agents.Config{
		DataDir:         cfg.OrdersDir(),
		LeadsDBPath:     cfg.LeadsDBPath(),
		WellnessLogPath: cfg.WellnessLogPath(),
		FraudDBPath:     cfg.FraudDBPath(),
	}
}
