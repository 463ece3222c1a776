// Package resilience provides resilience patterns for resource factories.
package resilience

import (
	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()
