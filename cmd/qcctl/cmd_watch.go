package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"qc-tracking-backend/internal/client"
	"qc-tracking-backend/internal/dashboard"
)

var (
	watchFilter   filterFlags
	watchSort     sortFlags
	watchInterval time.Duration
	watchClear    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard: re-fetch and redraw on an interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		sortSpec, err := watchSort.spec()
		if err != nil {
			return err
		}
		pageSize := watchSort.pageSize
		if pageSize <= 0 {
			pageSize = cfg.Client.PageSize
		}
		interval := watchInterval
		if interval <= 0 {
			interval = cfg.Client.PollInterval
		}

		session := dashboard.NewSession(pageSize, cfg.Client.ChartWindow)
		session.SetFilter(watchFilter.spec())
		session.SetSort(sortSpec)
		session.SetPage(watchSort.page)

		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		poller := dashboard.NewPoller(apiClient, interval, logger)
		poller.OnUpdate = func(snap client.Snapshot) {
			if watchClear {
				fmt.Fprint(out, "\033[H\033[2J")
			}
			renderDashboard(out, session.View(snap.Records), snap.FetchedAt)
		}
		poller.OnError = func(err error) {
			if last, ok := poller.Last(); ok {
				fmt.Fprintf(errOut, "refresh failed (%v), showing data from %s\n", err, last.FetchedAt.Format(time.TimeOnly))
				return
			}
			fmt.Fprintf(errOut, "refresh failed: %v\n", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		poller.Run(ctx)
		return nil
	},
}

func init() {
	watchFilter.register(watchCmd)
	watchSort.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "refresh interval (default from config)")
	watchCmd.Flags().BoolVar(&watchClear, "clear", true, "clear the screen before each redraw")
}
