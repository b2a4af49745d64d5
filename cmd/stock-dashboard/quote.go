package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arnet007/StockSentimentPro/internal/httpapi"
	"github.com/arnet007/StockSentimentPro/pkg/stockdash"
)

// newQuoteCmd prints a one-screen price and sentiment summary fetched from a
// running dashboard.
func newQuoteCmd() *cobra.Command {
	var (
		server    string
		mkt       string
		timeframe string
		days      int
	)
	cmd := &cobra.Command{
		Use:   "quote TICKER",
		Short: "Print a price and sentiment summary from a running dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := stockdash.NewClient(server)
			ctx := cmd.Context()

			bars, err := client.Bars(ctx, args[0], stockdash.BarsOptions{Market: mkt, Timeframe: timeframe, ChartType: "line"})
			if err != nil {
				return err
			}
			sent, err := client.Sentiment(ctx, args[0], stockdash.SentimentOptions{Market: mkt, Days: days})
			if err != nil {
				return err
			}
			printQuote(cmd.OutOrStdout(), bars, sent)
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://127.0.0.1:8501", "dashboard base URL")
	cmd.Flags().StringVar(&mkt, "market", "", "market (NSE, BSE, US, INDICES); inferred from the ticker when empty")
	cmd.Flags().StringVar(&timeframe, "timeframe", "", "price timeframe, e.g. 1M")
	cmd.Flags().IntVar(&days, "days", 0, "sentiment lookback in days")
	return cmd
}

func printQuote(w io.Writer, bars *httpapi.BarsResponse, sent *httpapi.SentimentResponse) {
	name := bars.Ticker
	if bars.Name != "" {
		name = fmt.Sprintf("%s (%s)", bars.Name, bars.Ticker)
	}
	fmt.Fprintf(w, "%s\n", name)
	fmt.Fprintf(w, "  last      %s %s\n", bars.Quote.Last, bars.Currency)
	fmt.Fprintf(w, "  change    %s\n", bars.Quote.Display)
	fmt.Fprintf(w, "  volume    %d\n", bars.Quote.Volume)

	s := sent.Summary
	fmt.Fprintf(w, "  sentiment %s (mean %+.3f over %d documents, %d days)\n", s.Primary, s.MeanPolarity, s.Total, sent.Days)
	fmt.Fprintf(w, "            %.1f%% positive, %.1f%% neutral, %.1f%% negative\n", s.PositivePct, s.NeutralPct, s.NegativePct)
	if len(sent.Errors) > 0 {
		fmt.Fprintf(w, "  unavailable: %s\n", strings.Join(sent.Errors, "; "))
	}
}
