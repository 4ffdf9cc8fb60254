package processor

import (
	"idpportal/internal/config"
	"idpportal/internal/port"
	"idpportal/internal/processor/mock"
)

// New creates the DocumentProcessor selected by cfg: the fixture-backed mock
// in mock mode, the HTTP processor otherwise.
func New(cfg *config.ProcessorConfig) (port.DocumentProcessor, error) {
	if cfg.MockMode {
		return mock.NewProcessor(cfg.MockDelay), nil
	}
	return NewHTTPProcessor(cfg)
}
