// Package seed creates the school database at startup and fills it with the
// initial data set.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/contoso/university/internal/infra/database"
	"github.com/contoso/university/internal/utils/metrics"
	"go.uber.org/zap"
)

// CreateDBErrorMessage is logged when startup initialization fails under the
// recoverable policy.
const CreateDBErrorMessage = "An error occurred creating the DB."

// ErrSeedPanic wraps a panic raised while creating or seeding the database.
var ErrSeedPanic = errors.New("database initialization panicked")

// Seeder fills an existing schema with initial data.
type Seeder interface {
	Seed(ctx context.Context, sc *database.SchoolContext) error
}

// SeederFunc adapts a function to Seeder.
type SeederFunc func(ctx context.Context, sc *database.SchoolContext) error

// Seed calls f.
func (f SeederFunc) Seed(ctx context.Context, sc *database.SchoolContext) error {
	return f(ctx, sc)
}

// Policy decides what happens when startup initialization fails.
type Policy string

const (
	// PolicyRecoverable logs the failure once and lets startup continue.
	PolicyRecoverable Policy = "recoverable"
	// PolicyFatal returns the failure to the caller.
	PolicyFatal Policy = "fatal"
)

// ParsePolicy parses a policy name. Empty means recoverable.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyRecoverable, nil
	case PolicyRecoverable, PolicyFatal:
		return p, nil
	default:
		return "", fmt.Errorf("unknown seed policy %q", s)
	}
}

// CreateDbIfNotExists ensures the database exists and seeds it inside a
// short-lived scope. The scope is closed before it returns on every path.
// Under PolicyRecoverable failures are logged and nil is returned.
func CreateDbIfNotExists(
	ctx context.Context,
	factory *database.ContextFactory,
	seeder Seeder,
	policy Policy,
	log *zap.Logger,
	m *metrics.Metrics,
) error {
	if log == nil {
		log = zap.NewNop()
	}

	start := time.Now()
	created, err := initialize(ctx, factory, seeder)

	outcome := metrics.SeedOutcomeExisting
	switch {
	case err != nil:
		outcome = metrics.SeedOutcomeFailed
	case created:
		outcome = metrics.SeedOutcomeCreated
	}
	if m != nil {
		m.RecordSeed(outcome, time.Since(start))
	}

	if err == nil {
		log.Info("database initialized",
			zap.Bool("created", created),
			zap.Duration("duration", time.Since(start)),
		)
		return nil
	}

	if policy == PolicyFatal {
		return err
	}
	log.Error(CreateDBErrorMessage, zap.Error(err))
	return nil
}

func initialize(ctx context.Context, factory *database.ContextFactory, seeder Seeder) (created bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSeedPanic, r)
		}
	}()

	err = factory.WithScope(ctx, func(ctx context.Context, sc *database.SchoolContext) error {
		c, err := sc.EnsureCreated(ctx)
		if err != nil {
			return fmt.Errorf("ensure database: %w", err)
		}
		created = c

		if err := seeder.Seed(ctx, sc); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
		return nil
	})
	return created, err
}
