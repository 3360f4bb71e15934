// Package pool implements the pool bounded context: on-chain pool and token metadata.
package pool

import (
	"context"

	"github.com/fd1az/pool-quoter/business/pool/app"
	poolDI "github.com/fd1az/pool-quoter/business/pool/di"
	"github.com/fd1az/pool-quoter/business/pool/infra/uniswap"
	"github.com/fd1az/pool-quoter/internal/asset"
	"github.com/fd1az/pool-quoter/internal/chain"
	"github.com/fd1az/pool-quoter/internal/config"
	"github.com/fd1az/pool-quoter/internal/di"
	"github.com/fd1az/pool-quoter/internal/logger"
	"github.com/fd1az/pool-quoter/internal/monolith"
)

// Module implements the pool bounded context.
type Module struct{}

// RegisterServices registers all pool services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register Directory (public - the quoting context loads pools through it)
	di.RegisterToken(c, poolDI.Directory, func(sr di.ServiceRegistry) app.Directory {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("chainClient").(*chain.Client)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		dir, err := uniswap.NewDirectory(client, uniswap.Options{
			ChainID:       cfg.Ethereum.ChainID,
			Registry:      registry,
			TokenCacheTTL: cfg.Quote.TokenCacheTTL,
		}, log)
		if err != nil {
			panic("failed to create pool directory: " + err.Error())
		}
		return dir
	})

	// Register PoolService (public)
	di.RegisterToken(c, poolDI.PoolService, func(sr di.ServiceRegistry) *app.PoolService {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewPoolService(poolDI.GetDirectory(sr), log)
	})

	return nil
}

// Startup initializes the pool module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	// Resolve eagerly so ABI parse errors surface at boot.
	_ = poolDI.GetDirectory(mono.Services())

	mono.Logger().Info(ctx, "pool module started", "chain_id", mono.Config().Ethereum.ChainID)
	return nil
}
