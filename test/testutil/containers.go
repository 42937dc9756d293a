package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
)

const (
	MariaDBRootPassword = "root"
	MinIORootUser       = "minioadmin"
	MinIORootPassword   = "minioadmin"
)

// Container is a throwaway dependency started for the integration suite.
// Addr is host:port of the exposed service port.
type Container struct {
	Addr    string
	Cleanup func()
}

// startContainer runs opts and polls ready with the mapped address until it
// succeeds or the pool gives up.
func startContainer(opts *dockertest.RunOptions, port string, ready func(addr string) error) (*Container, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(opts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start %s container: %w", opts.Repository, err)
	}

	addr := fmt.Sprintf("localhost:%s", resource.GetPort(port))
	if err := pool.Retry(func() error { return ready(addr) }); err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("%s did not become ready: %w", opts.Repository, err)
	}

	return &Container{
		Addr: addr,
		Cleanup: func() {
			if err := pool.Purge(resource); err != nil {
				logger.Warnf(context.Background(), "could not purge %s container: %s", opts.Repository, err)
			}
		},
	}, nil
}

// StartMariaDBContainer returns a container whose Addr is a root DSN on the
// testdb database; SetupTestDB derives per-test databases from it.
func StartMariaDBContainer() (*Container, error) {
	c, err := startContainer(&dockertest.RunOptions{
		Repository: "mariadb",
		Tag:        "10.11",
		Env:        []string{"MARIADB_ROOT_PASSWORD=" + MariaDBRootPassword},
	}, "3306/tcp", func(addr string) error {
		db, err := sql.Open("mysql", fmt.Sprintf("root:%s@(%s)/mysql", MariaDBRootPassword, addr))
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return db.Ping()
	})
	if err != nil {
		return nil, err
	}
	c.Addr = fmt.Sprintf("root:%s@(%s)/testdb?parseTime=true", MariaDBRootPassword, c.Addr)
	return c, nil
}

func StartMinIOContainer() (*Container, error) {
	return startContainer(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        "latest",
		Env: []string{
			"MINIO_ROOT_USER=" + MinIORootUser,
			"MINIO_ROOT_PASSWORD=" + MinIORootPassword,
		},
		Cmd: []string{"server", "/data"},
	}, "9000/tcp", func(addr string) error {
		client, err := minio.New(addr, &minio.Options{
			Creds:  credentials.NewStaticV4(MinIORootUser, MinIORootPassword, ""),
			Secure: false,
		})
		if err != nil {
			return err
		}
		// ListBuckets is a light operation to check health
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err = client.ListBuckets(ctx)
		return err
	})
}

func StartRedisContainer() (*Container, error) {
	return startContainer(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7",
	}, "6379/tcp", func(addr string) error {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		defer func() { _ = rdb.Close() }()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return rdb.Ping(ctx).Err()
	})
}
