package sl_test

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eazeeinvoice/eazee-invoice/internal/lib/sl"
)

func TestErr(t *testing.T) {
	err := errors.New("connection refused")
	attr := sl.Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("connection refused"), attr.Value)
}

func TestErr_WrappedError(t *testing.T) {
	err := fmt.Errorf("invoice.Create: %w", errors.New("duplicate number"))
	attr := sl.Err(err)

	assert.Equal(t, slog.StringValue("invoice.Create: duplicate number"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	assert.Panics(t, func() {
		_ = sl.Err(nil)
	})
}
