package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, notFound(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, notFound(other))
}

func TestLocalDate(t *testing.T) {
	utcMidnight := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	got := localDate(utcMidnight)

	assert.Equal(t, time.Local, got.Location())
	y, m, d := got.Date()
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.March, m)
	assert.Equal(t, 31, d)
	assert.Zero(t, got.Hour())
}
