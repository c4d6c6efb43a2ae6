package memory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNoSource is returned when neither transport is configured.
var ErrNoSource = errors.New("no observation source configured")

// Availability describes which sources respond.
type Availability string

const (
	AvailFull        Availability = "full"
	AvailAPIOnly     Availability = "api-only"
	AvailDBOnly      Availability = "db-only"
	AvailGitOnly     Availability = "git-only"
	AvailUnavailable Availability = "unavailable"
)

// HasMemory reports whether at least one observation transport responds.
func (a Availability) HasMemory() bool {
	return a == AvailFull || a == AvailAPIOnly || a == AvailDBOnly
}

// Classify maps transport liveness to an Availability.
func Classify(apiOK, dbOK, gitOK bool) Availability {
	switch {
	case apiOK && dbOK:
		return AvailFull
	case apiOK:
		return AvailAPIOnly
	case dbOK:
		return AvailDBOnly
	case gitOK:
		return AvailGitOnly
	default:
		return AvailUnavailable
	}
}

// Transport is one way of reaching the observation store.
type Transport interface {
	Ping(ctx context.Context) error
	Observations(ctx context.Context, q Query) ([]Observation, error)
	Projects(ctx context.Context) ([]string, error)
}

// Service reads through the API and falls back to the database.
// Either transport may be nil.
type Service struct {
	API    Transport
	DB     Transport
	Logger *zap.Logger
}

// NewService builds a Service; nil transports are skipped.
func NewService(api, db Transport, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{API: api, DB: db, Logger: logger}
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Availability pings each transport. gitOK is supplied by the caller.
func (s *Service) Availability(ctx context.Context, gitOK bool) Availability {
	apiOK := s.API != nil && s.API.Ping(ctx) == nil
	dbOK := s.DB != nil && s.DB.Ping(ctx) == nil
	return Classify(apiOK, dbOK, gitOK)
}

// Observations returns observations for q from the first transport that
// succeeds. With no transport or all failing, the last error is returned.
func (s *Service) Observations(ctx context.Context, q Query) ([]Observation, error) {
	var lastErr error = ErrNoSource

	if s.API != nil {
		obs, err := s.API.Observations(ctx, q)
		if err == nil {
			return obs, nil
		}
		s.logger().Warn("observation API failed, trying database", zap.Error(err))
		lastErr = fmt.Errorf("api: %w", err)
	}

	if s.DB != nil {
		obs, err := s.DB.Observations(ctx, q)
		if err == nil {
			return obs, nil
		}
		s.logger().Warn("observation database read failed", zap.Error(err))
		lastErr = fmt.Errorf("db: %w", err)
	}

	return nil, lastErr
}

// Projects lists known projects with the same fallback order.
func (s *Service) Projects(ctx context.Context) ([]string, error) {
	var lastErr error = ErrNoSource

	if s.API != nil {
		p, err := s.API.Projects(ctx)
		if err == nil {
			return p, nil
		}
		lastErr = fmt.Errorf("api: %w", err)
	}
	if s.DB != nil {
		p, err := s.DB.Projects(ctx)
		if err == nil {
			return p, nil
		}
		lastErr = fmt.Errorf("db: %w", err)
	}
	return nil, lastErr
}
