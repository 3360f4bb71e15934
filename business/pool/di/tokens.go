// Package di contains dependency injection tokens for the pool context.
package di

import (
	"github.com/fd1az/pool-quoter/business/pool/app"
	"github.com/fd1az/pool-quoter/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PoolService = di.NewToken[*app.PoolService]("pool.PoolService")
	Directory   = di.NewToken[app.Directory]("pool.Directory")
)

// Helper functions for type-safe access
func GetPoolService(c di.ServiceRegistry) *app.PoolService {
	return di.GetToken(c, PoolService)
}

func GetDirectory(c di.ServiceRegistry) app.Directory {
	return di.GetToken(c, Directory)
}
