// Package eventstreamutils constructs eventstream publishers from config.
package eventstreamutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/config"
	"github.com/inkloomco/inkloom/pkg/eventstream"
	"github.com/inkloomco/inkloom/pkg/eventstream/kafka"
	"github.com/inkloomco/inkloom/pkg/eventstream/nop"
)

// NewPublisher creates the configured eventstream publisher.
func NewPublisher(cfg config.EventStreamConfig, logger *zap.Logger) (eventstream.Publisher, error) {
	switch cfg.Provider {
	case "", "nop":
		return nop.NewPublisher(), nil

	case "kafka":
		if len(cfg.Brokers) == 0 {
			return nil, fmt.Errorf("kafka eventstream requires at least one broker")
		}
		return kafka.NewPublisher(cfg.Brokers, cfg.Topic, logger), nil

	default:
		return nil, fmt.Errorf("unknown eventstream provider: %s", cfg.Provider)
	}
}
