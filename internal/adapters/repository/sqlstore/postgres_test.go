package sqlstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/okian/wordscore/internal/adapters/repository/sqlstore"
)

const (
	testUser     = "postgres"
	testPassword = "postgres"
	testDB       = "wordscore"
)

type postgresContainer struct {
	Container testcontainers.Container
	Host      string
	Port      int
}

func startPostgresContainer(ctx context.Context) (*postgresContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:17",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
			"POSTGRES_DB":       testDB,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get container host: %w", err)
	}
	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("could not get mapped port: %w", err)
	}

	return &postgresContainer{Container: container, Host: host, Port: mappedPort.Int()}, nil
}

// TestPostgresStore needs Docker. Set WORDSCORE_TEST_POSTGRES=1 to run it.
func TestPostgresStore(t *testing.T) {
	if testing.Short() || os.Getenv("WORDSCORE_TEST_POSTGRES") == "" {
		t.Skip("set WORDSCORE_TEST_POSTGRES=1 to run postgres tests")
	}

	ctx := context.Background()
	pg, err := startPostgresContainer(ctx)
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	defer func() { _ = pg.Container.Terminate(ctx) }()

	opts := sqlstore.PostgresOptions{
		Username:           testUser,
		Password:           testPassword,
		Host:               pg.Host,
		Port:               pg.Port,
		Database:           testDB,
		SslMode:            "disable",
		MaxOpenConnections: 5,
		ConnMaxLifetime:    time.Minute,
		ConnMaxIdleTime:    time.Minute,
	}

	open := func(o ...sqlstore.Option) *sqlstore.Store {
		s, err := sqlstore.OpenPostgres(ctx, opts, o...)
		So(err, ShouldBeNil)
		So(s.Migrate(ctx), ShouldBeNil)
		_, err = s.DB.ExecContext(ctx, "TRUNCATE scores")
		So(err, ShouldBeNil)
		return s
	}

	Convey("Given a migrated PostgreSQL store", t, func() {
		storeContract(open)
	})
}
