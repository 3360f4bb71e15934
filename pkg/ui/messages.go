package ui

import (
	"time"

	"github.com/fd1az/pool-quoter/business/quoting/domain"
)

// Message types for TUI updates

// QuoteMsg carries a completed quote. Seq ties it to the request that
// produced it so results of a superseded request are dropped.
type QuoteMsg struct {
	Seq     uint64
	Quote   *domain.Quote
	Block   uint64
	Latency time.Duration
}

// QuoteErrMsg is sent when a quote request fails.
type QuoteErrMsg struct {
	Seq   uint64
	Error error
}

// TickMsg schedules the next refresh of request Seq.
type TickMsg struct {
	Seq uint64
}
