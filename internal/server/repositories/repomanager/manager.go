// Package repomanager vends repositories bound to a connection or a
// transaction and runs schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/carescan/internal/dbx"
	"github.com/dmitrijs2005/carescan/internal/server/repositories/records"
	"github.com/dmitrijs2005/carescan/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Records(db dbx.DBTX) records.Repository
}
