package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/okian/wordscore/migrations"
	"github.com/okian/wordscore/pkg/logger"
)

// goose keeps its dialect and filesystem in package globals.
var migrateMu sync.Mutex

// Migrate applies all pending migrations of dialect to db.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{log: logger.Named("migrate")})

	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("could not set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, string(dialect)); err != nil {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through the application logger.
type gooseLogger struct {
	log logger.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info(context.Background(), fmt.Sprintf(format, v...))
}

// Fatalf logs at error level. Migrate surfaces the failure as an error.
func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Error(context.Background(), fmt.Sprintf(format, v...))
}
