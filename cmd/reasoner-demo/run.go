package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitrdm/kifreasoner/pkg/reasoner"
)

var settleDuration time.Duration

var runScenarioCmd = &cobra.Command{
	Use:   "run-scenario <name>",
	Short: "Run one worked scenario against a fresh engine and print its event log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, ok := findScenario(args[0])
		if !ok {
			return fmt.Errorf("unknown scenario %q (see list-scenarios)", args[0])
		}

		engine := buildEngine(s.Configure, os.Stdout)
		if err := engine.Start(); err != nil {
			return fmt.Errorf("starting engine: %w", err)
		}
		defer engine.Stop()

		if err := s.Run(engine); err != nil {
			return fmt.Errorf("running scenario %s: %w", s.Name, err)
		}

		time.Sleep(settleDuration)

		status := engine.Status()
		fmt.Printf("kb_size=%d rule_count=%d state=%s\n", status.KBSize, status.RuleCount, status.State)
		return nil
	},
}

var serveEventsCmd = &cobra.Command{
	Use:   "serve-events",
	Short: "Run every scenario in sequence, streaming events until interrupted or all scenarios complete",
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		for _, s := range scenarios {
			select {
			case <-sigCh:
				fmt.Println("\ninterrupted")
				return nil
			default:
			}

			fmt.Printf("--- %s: %s\n", s.Name, s.Description)
			engine := buildEngine(s.Configure, os.Stdout)
			if err := engine.Start(); err != nil {
				return fmt.Errorf("starting engine for %s: %w", s.Name, err)
			}
			if err := s.Run(engine); err != nil {
				engine.Stop()
				return fmt.Errorf("running scenario %s: %w", s.Name, err)
			}
			time.Sleep(settleDuration)
			engine.Stop()
		}
		return nil
	},
}

func init() {
	runScenarioCmd.Flags().DurationVar(&settleDuration, "settle", 500*time.Millisecond, "how long to wait for inference to settle before reporting status")
	serveEventsCmd.Flags().DurationVar(&settleDuration, "settle", 500*time.Millisecond, "how long to wait for each scenario's inference to settle")
}

func buildEngine(configure func(*reasoner.Config), out *os.File) *reasoner.Engine {
	cfg := reasoner.DefaultConfig()
	cfg.MaxKBSize = maxKBSize
	cfg.CommitQueueCapacity = queueCap
	if workers > 0 {
		cfg.InferenceWorkers = workers
	}
	if configure != nil {
		configure(&cfg)
	}

	sink := reasoner.NewTextEventSink(out)
	return reasoner.NewEngine(cfg, sink, logger)
}
