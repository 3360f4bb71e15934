package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	poolDI "github.com/fd1az/pool-quoter/business/pool/di"
	quotingDI "github.com/fd1az/pool-quoter/business/quoting/di"
	"github.com/fd1az/pool-quoter/business/quoting/domain"
	"github.com/fd1az/pool-quoter/internal/apm"
	"github.com/fd1az/pool-quoter/pkg/ui"
)

var tracer = apm.NewTracer("github.com/fd1az/pool-quoter/cmd/quoter")

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pool-quoter %s (commit: %s, built: %s)\n", version, commit, buildDate)
		},
	}
}

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote an exact-input swap through one pool",
		Args:  cobra.NoArgs,
		RunE:  runQuote,
	}

	cmd.Flags().String("pool", "", "Uniswap V3 pool address")
	cmd.Flags().String("token-in", "", "address of the token being sold")
	cmd.Flags().String("amount", "", "amount of token-in in human units (default quote.default_amount)")
	cmd.Flags().Bool("json", false, "print the quote as JSON")
	_ = cmd.MarkFlagRequired("pool")
	_ = cmd.MarkFlagRequired("token-in")

	return cmd
}

func newPoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Show a pool's tokens, fee and live state",
		Args:  cobra.NoArgs,
		RunE:  runPool,
	}

	cmd.Flags().String("pool", "", "Uniswap V3 pool address")
	cmd.Flags().Bool("json", false, "print the snapshot as JSON")
	_ = cmd.MarkFlagRequired("pool")

	return cmd
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-quote a pool on an interval in a terminal dashboard",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}

	cmd.Flags().String("pool", "", "Uniswap V3 pool address")
	cmd.Flags().String("token-in", "", "address of the token being sold")
	cmd.Flags().String("amount", "", "amount of token-in in human units (default quote.default_amount)")
	cmd.Flags().Duration("interval", 0, "refresh interval (default quote.watch_interval)")
	_ = cmd.MarkFlagRequired("pool")
	_ = cmd.MarkFlagRequired("token-in")

	return cmd
}

// quoteView is the JSON shape of a quote. Exact amounts are base-unit integers.
type quoteView struct {
	Pool        string  `json:"pool"`
	Fee         uint32  `json:"fee"`
	TokenIn     string  `json:"token_in"`
	TokenOut    string  `json:"token_out"`
	SymbolIn    string  `json:"symbol_in"`
	SymbolOut   string  `json:"symbol_out"`
	DecimalsIn  uint8   `json:"decimals_in"`
	DecimalsOut uint8   `json:"decimals_out"`
	AmountIn    string  `json:"amount_in"`
	AmountOut   string  `json:"amount_out"`
	Qty         string  `json:"qty"`
	Price       string  `json:"price"`
	QtyFloat    float64 `json:"qty_float"`
	PriceFloat  float64 `json:"price_float"`
	Timestamp   string  `json:"timestamp"`
}

func newQuoteView(q *domain.Quote) quoteView {
	in, out := q.AmountIn.Asset(), q.AmountOut.Asset()
	pq := q.PriceQty()
	return quoteView{
		Pool:        q.Pool.Hex(),
		Fee:         uint32(q.Fee),
		TokenIn:     in.Address().Hex(),
		TokenOut:    out.Address().Hex(),
		AmountIn:    q.AmountIn.Raw().String(),
		AmountOut:   q.AmountOut.Raw().String(),
		Qty:         q.Qty.String(),
		Price:       q.Price.String(),
		QtyFloat:    pq.Qty,
		PriceFloat:  pq.Price,
		Timestamp:   q.Timestamp.UTC().Format(time.RFC3339),
		SymbolIn:    in.Symbol(),
		SymbolOut:   out.Symbol(),
		DecimalsIn:  in.Decimals(),
		DecimalsOut: out.Decimals(),
	}
}

func runQuote(cmd *cobra.Command, _ []string) error {
	ctx, span := tracer.StartSpanFromContext(cmd.Context(), "cli.quote")
	defer span.End()

	rt, err := bootstrap(ctx, cmd, os.Stderr)
	if err != nil {
		span.NoticeError(err)
		return err
	}
	defer rt.Close()

	poolAddr, _ := cmd.Flags().GetString("pool")
	tokenIn, _ := cmd.Flags().GetString("token-in")
	amount, _ := cmd.Flags().GetString("amount")
	if amount == "" {
		amount = rt.cfg.Quote.DefaultAmount
	}
	span.SetAttributes(
		attribute.String("pool", poolAddr),
		attribute.String("token_in", tokenIn),
		attribute.String("amount", amount),
	)

	svc := quotingDI.GetQuotingService(rt.mono.Services())
	q, err := svc.Quote(ctx, poolAddr, tokenIn, amount)
	if err != nil {
		span.NoticeError(err)
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), newQuoteView(q))
	}
	return printQuote(cmd.OutOrStdout(), q)
}

func printQuote(w io.Writer, q *domain.Quote) error {
	in, out := q.AmountIn.Asset(), q.AmountOut.Asset()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "pool\t%s (fee %s)\n", q.Pool.Hex(), q.Fee.Percent())
	fmt.Fprintf(tw, "direction\t%s → %s\n", in.Symbol(), out.Symbol())
	fmt.Fprintf(tw, "amount in\t%s\t(%s base units)\n", q.AmountIn, q.AmountIn.Raw())
	fmt.Fprintf(tw, "amount out\t%s\t(%s base units)\n", q.AmountOut, q.AmountOut.Raw())
	fmt.Fprintf(tw, "qty\t%s %s\n", q.Qty, out.Symbol())
	fmt.Fprintf(tw, "price\t%s %s per %s\n", q.Price, in.Symbol(), out.Symbol())
	return tw.Flush()
}

// poolView is the JSON shape of a pool snapshot.
type poolView struct {
	Pool         string `json:"pool"`
	Pair         string `json:"pair"`
	Fee          uint32 `json:"fee"`
	TickSpacing  int32  `json:"tick_spacing"`
	TokenA       string `json:"token_a"`
	TokenB       string `json:"token_b"`
	SqrtPriceX96 string `json:"sqrt_price_x96"`
	Tick         int32  `json:"tick"`
	Liquidity    string `json:"liquidity"`
	BlockNumber  uint64 `json:"block_number"`
}

func runPool(cmd *cobra.Command, _ []string) error {
	ctx, span := tracer.StartSpanFromContext(cmd.Context(), "cli.pool")
	defer span.End()

	rt, err := bootstrap(ctx, cmd, os.Stderr)
	if err != nil {
		span.NoticeError(err)
		return err
	}
	defer rt.Close()

	poolAddr, _ := cmd.Flags().GetString("pool")
	snap, err := poolDI.GetPoolService(rt.mono.Services()).Snapshot(ctx, poolAddr)
	if err != nil {
		span.NoticeError(err)
		return err
	}

	p, st := snap.Pool, snap.State
	view := poolView{
		Pool:         p.Address.Hex(),
		Pair:         p.String(),
		Fee:          uint32(p.Fee),
		TickSpacing:  p.TickSpacing,
		TokenA:       p.TokenA.Address().Hex(),
		TokenB:       p.TokenB.Address().Hex(),
		SqrtPriceX96: st.SqrtPriceX96.String(),
		Tick:         st.Tick,
		Liquidity:    st.Liquidity.String(),
		BlockNumber:  st.BlockNumber,
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), view)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "pool\t%s\n", view.Pool)
	fmt.Fprintf(tw, "pair\t%s\n", view.Pair)
	fmt.Fprintf(tw, "token A\t%s (%s, %d decimals)\n", view.TokenA, p.TokenA.Symbol(), p.TokenA.Decimals())
	fmt.Fprintf(tw, "token B\t%s (%s, %d decimals)\n", view.TokenB, p.TokenB.Symbol(), p.TokenB.Decimals())
	fmt.Fprintf(tw, "tick spacing\t%d\n", view.TickSpacing)
	fmt.Fprintf(tw, "sqrtPriceX96\t%s\n", view.SqrtPriceX96)
	fmt.Fprintf(tw, "tick\t%d\n", view.Tick)
	fmt.Fprintf(tw, "liquidity\t%s\n", view.Liquidity)
	fmt.Fprintf(tw, "block\t%d\n", view.BlockNumber)
	return tw.Flush()
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// In TUI mode, suppress logs (discard output)
	rt, err := bootstrap(ctx, cmd, io.Discard)
	if err != nil {
		return err
	}
	defer rt.Close()

	startHealth(ctx, rt)

	poolAddr, _ := cmd.Flags().GetString("pool")
	tokenIn, _ := cmd.Flags().GetString("token-in")
	amount, _ := cmd.Flags().GetString("amount")
	if amount == "" {
		amount = rt.cfg.Quote.DefaultAmount
	}
	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = rt.cfg.Quote.WatchInterval
	}

	svc := quotingDI.GetQuotingService(rt.mono.Services())
	engine, err := svc.Engine(ctx, poolAddr)
	if err != nil {
		return err
	}
	dir, err := domain.ResolveDirection(engine.Pool(), tokenIn)
	if err != nil {
		return err
	}

	return ui.Run(ctx, ui.Options{
		PoolLabel: engine.Pool().String(),
		TokenIn:   dir.In,
		TokenOut:  dir.Out,
		Amount:    amount,
		Interval:  interval,
		Quote: func(ctx context.Context, tokenIn, amount string) (*domain.Quote, error) {
			ctx, span := tracer.StartSpanFromContext(ctx, "watch.quote")
			defer span.End()
			q, err := engine.ComputeAmountOut(ctx, tokenIn, amount)
			span.NoticeError(err)
			return q, err
		},
		Block: rt.mono.ChainClient().BlockNumber,
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
