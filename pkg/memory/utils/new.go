// Package memoryutils constructs memory stores from config.
package memoryutils

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/config"
	"github.com/inkloomco/inkloom/pkg/memory"
	"github.com/inkloomco/inkloom/pkg/memory/inmemory"
	"github.com/inkloomco/inkloom/pkg/memory/qdrant"
	"github.com/inkloomco/inkloom/pkg/memory/sqlitevec"
)

// DefaultQdrantPort is the Qdrant gRPC port used when Target omits one.
const DefaultQdrantPort = 6334

// NewStore creates the configured memory store backend. Dimensions come from
// the embedding config so the store schema and provider always agree.
func NewStore(ctx context.Context, cfg config.VectorStoreConfig, dimensions uint, logger *zap.Logger) (memory.Store, error) {
	switch cfg.Provider {
	case "memory":
		return inmemory.NewStore(logger), nil

	case "sqlite":
		return sqlitevec.NewStore(sqlitevec.Config{
			DBPath:     cfg.SQLitePath,
			Dimensions: dimensions,
		}, logger)

	case "qdrant":
		host, port, err := splitTarget(cfg.Target)
		if err != nil {
			return nil, err
		}
		return qdrant.NewStore(ctx, qdrant.Config{
			Host:       host,
			Port:       port,
			Collection: cfg.Collection,
			Dimensions: dimensions,
		}, logger)

	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", cfg.Provider)
	}
}

// splitTarget parses a host:port target, defaulting the port when absent.
func splitTarget(target string) (string, int, error) {
	if target == "" {
		return "localhost", DefaultQdrantPort, nil
	}

	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		// No port in the target; use the whole string as host.
		return target, DefaultQdrantPort, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid qdrant port %q: %w", portStr, err)
	}

	return host, port, nil
}
