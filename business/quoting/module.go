// Package quoting implements the quoting bounded context: single-pool swap quotes.
package quoting

import (
	"context"

	poolDI "github.com/fd1az/pool-quoter/business/pool/di"
	"github.com/fd1az/pool-quoter/business/quoting/app"
	quotingDI "github.com/fd1az/pool-quoter/business/quoting/di"
	"github.com/fd1az/pool-quoter/business/quoting/infra/uniswap"
	"github.com/fd1az/pool-quoter/internal/chain"
	"github.com/fd1az/pool-quoter/internal/config"
	"github.com/fd1az/pool-quoter/internal/di"
	"github.com/fd1az/pool-quoter/internal/logger"
	"github.com/fd1az/pool-quoter/internal/monolith"
)

// Module implements the quoting bounded context.
type Module struct{}

// RegisterServices registers all quoting services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register Quoter (Uniswap V3 Quoter contract) - private dependency
	di.RegisterToken(c, quotingDI.Quoter, func(sr di.ServiceRegistry) app.Quoter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("chainClient").(*chain.Client)

		quoter, err := uniswap.New(client, cfg.Uniswap, log)
		if err != nil {
			panic("failed to create uniswap quoter: " + err.Error())
		}
		return quoter
	})

	// Register QuotingService (public - exposed to callers)
	di.RegisterToken(c, quotingDI.QuotingService, func(sr di.ServiceRegistry) *app.QuotingService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewQuotingService(
			poolDI.GetDirectory(sr),
			quotingDI.GetQuoter(sr),
			log,
			app.ServiceOptions{
				EngineCacheSize:   cfg.Quote.EngineCacheSize,
				SignificantDigits: cfg.Quote.SignificantDigits,
			},
		)
	})

	return nil
}

// Startup initializes the quoting module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	_ = quotingDI.GetQuotingService(mono.Services())

	mono.Logger().Info(ctx, "quoting module started",
		"quoter", cfg.Uniswap.QuoterAddress,
		"quoter_version", cfg.Uniswap.QuoterVersion,
	)
	return nil
}
