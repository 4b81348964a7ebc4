package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"qc-tracking-backend/internal/dashboard"
	"qc-tracking-backend/internal/quality"
)

// filterFlags are shared by every command that scopes records.
type filterFlags struct {
	line, shift, status, from, to string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.line, "line", "", "only this line")
	cmd.Flags().StringVar(&f.shift, "shift", "", "only this shift")
	cmd.Flags().StringVar(&f.status, "status", "", `only this verdict ("OK" or "NOT OK")`)
	cmd.Flags().StringVar(&f.from, "from", "", "earliest date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "latest date, inclusive (YYYY-MM-DD)")
}

func (f *filterFlags) spec() quality.FilterSpec {
	return quality.NewFilterSpec(f.line, f.shift, f.status, f.from, f.to)
}

// sortFlags select ordering and paging.
type sortFlags struct {
	key      string
	dir      string
	page     int
	pageSize int
}

func (s *sortFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.key, "sort", "id", "sort key: id, date, group, shift, line, suhu, berat, kualitas")
	cmd.Flags().StringVar(&s.dir, "dir", "desc", "sort direction: asc or desc")
	cmd.Flags().IntVar(&s.page, "page", 1, "page number")
	cmd.Flags().IntVar(&s.pageSize, "page-size", 0, "records per page (default from config)")
}

func (s *sortFlags) spec() (quality.SortSpec, error) {
	key, ok := quality.ParseSortKey(s.key)
	if !ok {
		return quality.SortSpec{}, fmt.Errorf("unknown sort key %q", s.key)
	}
	dir := quality.Direction(s.dir)
	if dir != quality.Ascending && dir != quality.Descending {
		return quality.SortSpec{}, fmt.Errorf("unknown sort direction %q", s.dir)
	}
	return quality.SortSpec{Key: key, Direction: dir}, nil
}

var (
	listFilter filterFlags
	listSort   sortFlags
	listJSON   bool

	summaryFilter filterFlags
)

var masterCmd = &cobra.Command{
	Use:   "master",
	Short: "Show the groups, shifts and lines records are validated against",
	RunE: func(cmd *cobra.Command, args []string) error {
		master, err := apiClient.Master(cmd.Context())
		if err != nil {
			return err
		}
		renderMaster(cmd.OutOrStdout(), master)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records, filtered, sorted and paged",
	RunE: func(cmd *cobra.Command, args []string) error {
		sortSpec, err := listSort.spec()
		if err != nil {
			return err
		}
		pageSize := listSort.pageSize
		if pageSize <= 0 {
			pageSize = cfg.Client.PageSize
		}

		records, err := apiClient.List(cmd.Context())
		if err != nil {
			return err
		}

		session := dashboard.NewSession(pageSize, cfg.Client.ChartWindow)
		session.SetFilter(listFilter.spec())
		session.SetSort(sortSpec)
		session.SetPage(listSort.page)
		view := session.View(records)

		if listJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(view.Page)
		}
		renderTable(cmd.OutOrStdout(), view.Page.Items)
		fmt.Fprintf(cmd.OutOrStdout(), "\npage %d/%d, %d matching records\n", view.PageIndex, view.Page.TotalPages, view.Summary.Total)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show totals, reject rate and per-line breakdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := apiClient.Summary(cmd.Context(), summaryFilter.spec())
		if err != nil {
			return err
		}
		renderSummary(cmd.OutOrStdout(), sum.Summary, sum.Breakdown, sum.ByLine)
		return nil
	},
}

func init() {
	listFilter.register(listCmd)
	listSort.register(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print the page as JSON")

	summaryFilter.register(summaryCmd)
}
