package database

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davronov/qrdesk/internal/config"
)

// Manager routes writes to the primary and reads round-robin across
// replicas. With no replicas configured, everything hits the primary.
type Manager struct {
	primary  *pgxpool.Pool
	replicas []*pgxpool.Pool
	next     uint32
}

func NewManager(ctx context.Context, cfg config.DatabaseConfig) (*Manager, error) {
	primary, err := connect(ctx, cfg, cfg.PrimaryDSN)
	if err != nil {
		return nil, fmt.Errorf("primary: %w", err)
	}

	replicas := make([]*pgxpool.Pool, 0, len(cfg.ReplicaDSNs))
	for i, dsn := range cfg.ReplicaDSNs {
		replica, err := connect(ctx, cfg, dsn)
		if err != nil {
			primary.Close()
			closeAll(replicas)
			return nil, fmt.Errorf("replica %d: %w", i, err)
		}
		replicas = append(replicas, replica)
	}

	return &Manager{primary: primary, replicas: replicas}, nil
}

func connect(ctx context.Context, cfg config.DatabaseConfig, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}

func (m *Manager) Write() *pgxpool.Pool { return m.primary }

func (m *Manager) Read() *pgxpool.Pool {
	if len(m.replicas) == 0 {
		return m.primary
	}
	idx := atomic.AddUint32(&m.next, 1) % uint32(len(m.replicas))
	return m.replicas[idx]
}

// Ping probes the primary; used by the health endpoint.
func (m *Manager) Ping(ctx context.Context) error {
	return m.primary.Ping(ctx)
}

func (m *Manager) Close() {
	if m.primary != nil {
		m.primary.Close()
	}
	closeAll(m.replicas)
}

func closeAll(pools []*pgxpool.Pool) {
	for _, pool := range pools {
		if pool != nil {
			pool.Close()
		}
	}
}
