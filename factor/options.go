package factor

import (
	"github.com/on-the-ground/factor_ive_go/config"
	"go.uber.org/zap"
)

type settings struct {
	cfg    config.Config
	logger *zap.Logger
}

// Option tunes a factorization call. Options never change the result.
type Option func(*settings)

// WithConfig replaces the whole tuning configuration.
func WithConfig(cfg config.Config) Option {
	return func(s *settings) {
		s.cfg = cfg
	}
}

// WithWorkers bounds the workers per chunk; 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *settings) {
		s.cfg.Workers = n
	}
}

// WithChunkSize sets the divisor search chunk size of the variant in use.
func WithChunkSize(n int) Option {
	return func(s *settings) {
		s.cfg.ChunkSize = n
		s.cfg.ProgressChunkSize = n
	}
}

// WithTrialChunkSize sets the chunk size of the primality trial division.
func WithTrialChunkSize(n int) Option {
	return func(s *settings) {
		s.cfg.TrialChunkSize = n
	}
}

// WithLogger sets the logger for debug output of the run.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		cfg:    config.Default(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.cfg = s.cfg.Normalize()
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}
