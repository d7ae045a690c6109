package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/planstack/importsync/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Entity: "task",
			ID:     "t1",
		}
		assert.Equal(t, "task with ID t1 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("phase", "p1")
		assert.Equal(t, "phase with ID p1 not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "strategy",
			Message: "must be refresh or merge",
		}
		assert.Equal(t, "validation failed for field strategy: must be refresh or merge", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "invalid configuration",
		}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestInvalidRangeError(t *testing.T) {
	t.Run("with entity", func(t *testing.T) {
		err := pkgerrors.NewInvalidRangeError("phase", "p1", "2025-03-18", "2025-03-05")
		assert.Equal(t, "invalid date range on phase p1: end 2025-03-05 precedes start 2025-03-18", err.Error())
		assert.True(t, pkgerrors.IsInvalidRange(err))
	})

	t.Run("without entity", func(t *testing.T) {
		err := pkgerrors.NewInvalidRangeError("", "", "2025-03-18", "2025-03-05")
		assert.Equal(t, "invalid date range: end 2025-03-05 precedes start 2025-03-18", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidRange))
	})
}

func TestAmbiguousNameError(t *testing.T) {
	err := pkgerrors.NewAmbiguousNameError("phase:p1:q1", "Realize", "normalized form already claimed")
	assert.Equal(t, `custom name "Realize" for conflict phase:p1:q1 rejected: normalized form already claimed`, err.Error())
	assert.True(t, pkgerrors.IsAmbiguousName(err))
}

func TestCommitError(t *testing.T) {
	t.Run("with ID", func(t *testing.T) {
		base := pkgerrors.ErrNotFound
		err := pkgerrors.NewCommitError("delete", "task", "t1", base)
		assert.Equal(t, "commit failed during delete of task t1: not found", err.Error())
		assert.True(t, pkgerrors.IsCommitFailed(err))
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound), "wrapped cause stays reachable")
	})

	t.Run("without ID", func(t *testing.T) {
		err := pkgerrors.NewCommitError("swap", "", "", pkgerrors.ErrReadOnly)
		assert.Equal(t, "commit failed during swap: read only", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrReadOnly))
	})
}

func TestParseError(t *testing.T) {
	base := errors.New("unexpected node")

	t.Run("with file", func(t *testing.T) {
		err := pkgerrors.NewParseError("yaml", "project.yaml", "unexpected node", base)
		assert.Equal(t, "parse error in yaml file project.yaml: unexpected node", err.Error())
		assert.True(t, errors.Is(err, base))
	})

	t.Run("without file", func(t *testing.T) {
		err := pkgerrors.NewParseError("yaml", "", "unexpected node", base)
		assert.Equal(t, "yaml parse error: unexpected node", err.Error())
	})
}

func TestIOError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.NewIOError("read", "/data/project.yaml", base)
	assert.Equal(t, "IO error during read of /data/project.yaml: permission denied", err.Error())
	assert.True(t, errors.Is(err, base))
}

func TestWrapHelpers(t *testing.T) {
	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapValidation("field", nil))
		assert.NoError(t, pkgerrors.WrapIO("read", "path", nil))
		assert.NoError(t, pkgerrors.WrapParse("yaml", "file", nil))
		assert.NoError(t, pkgerrors.WrapCommit("insert", "task", "t1", nil))
	})

	t.Run("wrap commit", func(t *testing.T) {
		err := pkgerrors.WrapCommit("insert", "task", "t1", pkgerrors.ErrAlreadyExists)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsCommitFailed(err))
		assert.True(t, pkgerrors.IsAlreadyExists(err))
	})
}

func TestIsCanceled(t *testing.T) {
	assert.True(t, pkgerrors.IsCanceled(pkgerrors.ErrCanceled))
	assert.False(t, pkgerrors.IsCanceled(pkgerrors.ErrNotFound))
}
