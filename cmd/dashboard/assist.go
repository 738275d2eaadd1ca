package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/supplynet-dashboard/internal/assistant"
	"github.com/angelmondragon/supplynet-dashboard/internal/upstream"
	"github.com/angelmondragon/supplynet-dashboard/internal/views"
)

func assistCmd() *cobra.Command {
	var maxIterations int
	cmd := &cobra.Command{
		Use:   "assist <store-id>",
		Short: "Run one assistant analysis for a store and print the live log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssist(cmd, args[0], maxIterations)
		},
	}
	cmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "override the configured iteration cap")
	return cmd
}

func runAssist(cmd *cobra.Command, storeID string, maxIterations int) error {
	cfg, logg, err := bootstrap("dashboard-assist")
	if err != nil {
		return err
	}
	if maxIterations <= 0 {
		maxIterations = cfg.Assistant.MaxIterations
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api, err := upstream.NewClient(cfg.Upstream.APIBaseURL, upstream.WithTimeout(cfg.Upstream.RequestTimeout))
	if err != nil {
		return err
	}
	registry, err := views.NewRegistry(views.Params{
		API:               api,
		Dialer:            assistant.NewWSDialer(cfg.Assistant.HandshakeTimeout, cfg.Assistant.StopWriteTimeout),
		StreamURL:         cfg.Upstream.StreamURL,
		MaxIterations:     maxIterations,
		FulfillingStoreID: cfg.Assistant.FulfillingStoreID,
		Logger:            logg,
	})
	if err != nil {
		return err
	}
	defer registry.CloseAll()

	view, err := registry.Create(ctx, storeID)
	if err != nil {
		return fmt.Errorf("loading store %s: %w", storeID, err)
	}

	_, events, cancel := view.Assistant.Log().Subscribe(0)
	defer cancel()

	if err := view.Assistant.Open(ctx); err != nil {
		return err
	}
	if err := view.StartAnalysis(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			view.Assistant.Stop(context.Background())
			drain(out, events)
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Entry == nil {
				continue
			}
			printEntry(out, *ev.Entry)
			snap := view.Assistant.Snapshot()
			if !snap.Submitting {
				drain(out, events)
				if snap.State == assistant.StateErrored {
					return fmt.Errorf("assistant stream failed")
				}
				return nil
			}
		}
	}
}

func drain(out io.Writer, events <-chan assistant.Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Entry != nil {
				printEntry(out, *ev.Entry)
			}
		default:
			return
		}
	}
}

func printEntry(out io.Writer, e assistant.Entry) {
	fmt.Fprintf(out, "%s [%s] %s\n", e.Timestamp.Format("15:04:05"), e.Kind, e.Message)
}
