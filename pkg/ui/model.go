package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/pool-quoter/business/quoting/domain"
	"github.com/fd1az/pool-quoter/internal/apperror"
	"github.com/fd1az/pool-quoter/internal/asset"
	"github.com/fd1az/pool-quoter/pkg/ui/components"
)

// DefaultInterval is used when Options.Interval is not set.
const DefaultInterval = 12 * time.Second

const (
	historySize = 12
	connName    = "Ethereum"
)

// QuoteFunc quotes amount of tokenIn (hex address) through the watched pool.
type QuoteFunc func(ctx context.Context, tokenIn, amount string) (*domain.Quote, error)

// BlockFunc returns the node's latest block number.
type BlockFunc func(ctx context.Context) (uint64, error)

// Options configures the watch model.
type Options struct {
	PoolLabel string
	TokenIn   *asset.Asset
	TokenOut  *asset.Asset
	Amount    string
	Interval  time.Duration
	Quote     QuoteFunc
	Block     BlockFunc // optional
}

// Model is the Bubble Tea model for the watch screen.
type Model struct {
	ctx   context.Context
	quote QuoteFunc
	block BlockFunc

	poolLabel string
	in, out   *asset.Asset
	amount    string
	interval  time.Duration

	// seq identifies the latest request; older results and ticks are dropped.
	seq      uint64
	fetching bool
	paused   bool
	quitting bool

	last     *domain.Quote
	lastErr  string
	errCount int
	quotes   *components.QuotesComponent
	status   *components.StatusComponent
	spinner  spinner.Model
	help     help.Model
	keys     KeyMap
	width    int
	height   int
}

// New creates the watch model. The first quote is requested by Init.
func New(ctx context.Context, opts Options) Model {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorPrimary)),
	)

	return Model{
		ctx:       ctx,
		quote:     opts.Quote,
		block:     opts.Block,
		poolLabel: opts.PoolLabel,
		in:        opts.TokenIn,
		out:       opts.TokenOut,
		amount:    opts.Amount,
		interval:  interval,
		quotes:    components.NewQuotesComponent(historySize),
		status:    components.NewStatusComponent(),
		spinner:   sp,
		help:      help.New(),
		keys:      DefaultKeyMap(),
		seq:       1,
		fetching:  true,
	}
}

// Init requests the first quote and starts the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchCmd(m.ctx, m.quote, m.block, m.seq, m.in.Address().Hex(), m.amount))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.fetching {
				return m, nil
			}
			return m, m.startFetch()
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			if !m.paused && !m.fetching {
				return m, m.startFetch()
			}
			return m, nil
		case key.Matches(msg, m.keys.Flip):
			// Quote the last received quantity back the other way.
			if m.last == nil {
				return m, nil
			}
			m.in, m.out = m.out, m.in
			m.amount = m.last.Qty.String()
			m.last = nil
			return m, m.startFetch()
		case key.Matches(msg, m.keys.Clear):
			m.quotes.Clear()
			m.lastErr = ""
			m.errCount = 0
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if msg.Seq != m.seq || m.paused || m.fetching {
			return m, nil
		}
		return m, m.startFetch()

	case QuoteMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.fetching = false
		m.last = msg.Quote
		m.lastErr = ""
		m.quotes.Add(components.QuoteRow{
			Time:      msg.Quote.Timestamp,
			Pair:      m.in.Symbol() + " → " + m.out.Symbol(),
			AmountIn:  msg.Quote.AmountIn.String(),
			Qty:       msg.Quote.Qty,
			Price:     msg.Quote.Price,
			InSymbol:  m.in.Symbol(),
			OutSymbol: m.out.Symbol(),
		})
		m.status.Update(components.ConnectionStatus{
			Name:       connName,
			Connected:  true,
			Latency:    msg.Latency,
			LastBlock:  msg.Block,
			LastUpdate: time.Now(),
		})
		return m, m.scheduleTick()

	case QuoteErrMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.fetching = false
		m.lastErr = msg.Error.Error()
		m.errCount++
		prev, _ := m.status.Get(connName)
		prev.Name = connName
		prev.Connected = !isTransportError(msg.Error)
		prev.LastUpdate = time.Now()
		m.status.Update(prev)
		return m, m.scheduleTick()
	}

	return m, nil
}

// startFetch supersedes any in-flight request.
func (m *Model) startFetch() tea.Cmd {
	m.seq++
	m.fetching = true
	return fetchCmd(m.ctx, m.quote, m.block, m.seq, m.in.Address().Hex(), m.amount)
}

func (m *Model) scheduleTick() tea.Cmd {
	if m.paused {
		return nil
	}
	seq := m.seq
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return TickMsg{Seq: seq}
	})
}

func fetchCmd(ctx context.Context, quote QuoteFunc, block BlockFunc, seq uint64, tokenIn, amount string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		q, err := quote(ctx, tokenIn, amount)
		if err != nil {
			return QuoteErrMsg{Seq: seq, Error: err}
		}
		latency := time.Since(start)

		var n uint64
		if block != nil {
			// Best effort; the quote stands without a block number.
			n, _ = block(ctx)
		}
		return QuoteMsg{Seq: seq, Quote: q, Block: n, Latency: latency}
	}
}

// isTransportError reports failures that say nothing about the pool itself.
func isTransportError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		apperror.IsCode(err, apperror.CodeCircuitOpen) ||
		apperror.IsCode(err, apperror.CodeEthereumConnectionFailed) ||
		apperror.IsCode(err, apperror.CodeEthereumRPCError)
}

// View renders the watch screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("POOL QUOTER"))
	b.WriteString(" ")
	b.WriteString(HeaderStyle.Render(m.poolLabel))
	b.WriteString("\n\n")

	b.WriteString(m.status.View())
	b.WriteString("\n")

	state := fmt.Sprintf("%s quoting %s %s → %s every %s",
		m.spinner.View(), m.amount, m.in.Symbol(), m.out.Symbol(), m.interval)
	if m.paused {
		state = WarningValue.Render("⏸ paused")
	} else if !m.fetching {
		state = MutedValue.Render(fmt.Sprintf("next refresh in %s", m.interval))
	}
	b.WriteString(state)
	b.WriteString("\n\n")

	b.WriteString(BoxStyle.Render(m.quotes.View()))
	b.WriteString("\n")

	if m.lastErr != "" {
		b.WriteString(NegativeValue.Render(fmt.Sprintf("✗ %s (%d errors)", m.lastErr, m.errCount)))
		b.WriteString("\n")
	} else if m.last != nil {
		pq := m.last.PriceQty()
		b.WriteString(PositiveValue.Render(fmt.Sprintf("✓ qty %g %s  price %g %s",
			pq.Qty, m.out.Symbol(), pq.Price, m.in.Symbol())))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Run starts the watch screen and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
