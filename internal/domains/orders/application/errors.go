package application

import (
	"errors"
	"fmt"

	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/domain"
)

// ErrInvalidInput signals the request violated a domain invariant. It is
// always raised before any storage mutation takes place.
var ErrInvalidInput = errors.New("invalid order input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingRequester) ||
		errors.Is(err, domain.ErrMissingDate) ||
		errors.Is(err, domain.ErrInvalidDate) ||
		errors.Is(err, domain.ErrMissingUnit) ||
		errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrInvalidItem) ||
		errors.Is(err, domain.ErrInvalidID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
