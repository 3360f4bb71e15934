// Package di contains dependency injection tokens for the quoting context.
package di

import (
	"github.com/fd1az/pool-quoter/business/quoting/app"
	"github.com/fd1az/pool-quoter/internal/di"
)

// Public service tokens - exposed to other modules
var (
	QuotingService = di.NewToken[*app.QuotingService]("quoting.QuotingService")
)

// Private dependency tokens - internal to quoting module
var (
	Quoter = di.NewToken[app.Quoter]("quoting:quoter")
)

// Helper functions for type-safe access
func GetQuotingService(c di.ServiceRegistry) *app.QuotingService {
	return di.GetToken(c, QuotingService)
}

func GetQuoter(c di.ServiceRegistry) app.Quoter {
	return di.GetToken(c, Quoter)
}
