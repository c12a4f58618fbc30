package domain_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
	"time"

	"github.com/abdidvp/flooring/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestOrderNotFound(t *testing.T) {
	err := domain.OrderNotFound(domain.NewOrderDate(2030, time.June, 1), 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.KindOrder, err.Kind)
	assert.Contains(t, err.Error(), "4 on 06/01/2030")
}

func TestPricingError_UnwrapsToNotFound(t *testing.T) {
	var err error = &domain.PricingError{Cause: &domain.NotFoundError{Kind: domain.KindState, Key: "ZZ"}}
	wrapped := fmt.Errorf("adding order: %w", err)

	var nf *domain.NotFoundError
	assert.True(t, errors.As(wrapped, &nf))
	assert.Equal(t, domain.KindState, nf.Kind)
	assert.ErrorIs(t, wrapped, domain.ErrNotFound)
}

func TestPricingError_ZeroValue(t *testing.T) {
	err := &domain.PricingError{}
	assert.NotPanics(t, func() {
		assert.Equal(t, "pricing failed", err.Error())
		assert.Equal(t, domain.NotFoundKind(""), err.Kind())
	})
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestIOFailure(t *testing.T) {
	err := &domain.IOFailure{Op: "append", Path: "/x/Orders_01012030.txt", Err: fs.ErrPermission}
	assert.ErrorIs(t, err, domain.ErrIOFailure)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "append /x/Orders_01012030.txt")
}
