package repomanager

import (
	"context"
	"database/sql"

	"github.com/civicops/drconsole/internal/dbx"
	"github.com/civicops/drconsole/internal/server/repositories/records"
	"github.com/civicops/drconsole/internal/server/repositories/refreshtokens"
	"github.com/civicops/drconsole/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// them on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Records(db dbx.DBTX) records.Repository
}
