package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"gobalance/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestGetCode_FromSentinel(t *testing.T) {
	cases := map[error]string{
		core.NewDataUnavailableError("x.json", nil):       CodeDataUnavailable,
		core.NewFieldNotFoundError("stats.damage", "w"):   CodeFieldNotFound,
		core.NewInsufficientDataError("wands", "one row"): CodeInsufficientData,
		core.NewRenderError("no display", nil):            CodeRenderFailed,
		fmt.Errorf("degree 5: %w", core.ErrInvalidDegree): CodeConfigInvalid,
		stderrors.New("boom"):                             CodeInternalError,
	}
	for err, want := range cases {
		assert.Equal(t, want, GetCode(err), err.Error())
	}
}

func TestWrap_KeepsChain(t *testing.T) {
	base := core.NewFieldNotFoundError("baseValue", "weapons")
	err := Wrapf(base, "rescale %s", "baseValue")

	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeFieldNotFound, GetCode(err))
	assert.ErrorIs(t, err, core.ErrFieldNotFound)
	assert.Contains(t, err.Error(), "rescale baseValue")
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWrap_OuterCodeWins(t *testing.T) {
	inner := ConfigInvalid("degree must be 1 or 2")
	err := Wrap(inner, "load plot config")
	assert.Equal(t, CodeConfigInvalid, GetCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 2, ExitCode(ConfigInvalid("bad")))
	assert.Equal(t, 3, ExitCode(core.NewDataUnavailableError("missing.json", nil)))
	assert.Equal(t, 4, ExitCode(core.NewInsufficientDataError("g", "r")))
	assert.Equal(t, 5, ExitCode(core.NewRenderError("r", nil)))
	assert.Equal(t, 1, ExitCode(stderrors.New("other")))
}
