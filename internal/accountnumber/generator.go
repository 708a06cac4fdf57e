// Package accountnumber generates unique account numbers.
package accountnumber

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ledgerkeep/accountapi/internal/domain"
	"github.com/ledgerkeep/accountapi/pkg/randompkg"
)

// Length is the number of digits in an account number.
const Length = 10

// maxDraws bounds the redraw loop so an almost full number space
// surfaces an error instead of spinning forever.
const maxDraws = 100

// Oracle reports whether an account number is already assigned.
//
//go:generate mockgen -source generator.go -destination generator_mock.go -package accountnumber
type Oracle interface {
	NumberExists(ctx context.Context, accountNumber string) (bool, error)
}

// Generator draws random account numbers until it finds an unused one.
type Generator struct {
	oracle Oracle
}

// New returns a Generator backed by the given uniqueness oracle.
func New(o Oracle) *Generator {
	return &Generator{oracle: o}
}

// Next returns an account number that is unused at the instant of check.
// The caller still has to handle an insert-time collision because the
// check is not atomic with the insert.
func (g *Generator) Next(ctx context.Context) (string, error) {
	l := zerolog.Ctx(ctx)

	for i := 0; i < maxDraws; i++ {
		candidate := randompkg.Digits(Length)

		taken, err := g.oracle.NumberExists(ctx, candidate)
		if err != nil {
			return "", err
		}

		if !taken {
			return candidate, nil
		}
	}

	l.Error().Int("draws", maxDraws).Msg("no unused account number found")

	return "", domain.ErrAccountNumbersExhausted
}
