package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hindsight-ai/memctl/internal/client"
	"github.com/hindsight-ai/memctl/internal/engine/batch"
	"github.com/hindsight-ai/memctl/internal/notify"
)

func TestToChunkResult(t *testing.T) {
	res := client.BulkApplyResult{
		SuccessfulCount: 98,
		FailedCount:     2,
		Errors: []client.BulkApplyError{
			{MemoryBlockID: "mb-7", Detail: "block archived"},
			{MemoryBlockID: "mb-9", Detail: "unknown keyword"},
		},
	}

	cr := toChunkResult(res)

	assert.Equal(t, 98, cr.Successful)
	assert.Equal(t, 2, cr.Failed)
	require.Len(t, cr.Errors, 2)
	assert.Equal(t, "mb-7", cr.Errors[0].ItemID)
	assert.Equal(t, "unknown keyword", cr.Errors[1].Detail)
}

// recordingNotifier captures which channel each message went through.
type recordingNotifier struct {
	success, info, warn, errs []string
}

func (n *recordingNotifier) Success(format string, args ...interface{}) {
	n.success = append(n.success, fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) Info(format string, args ...interface{}) {
	n.info = append(n.info, fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) Warn(format string, args ...interface{}) {
	n.warn = append(n.warn, fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) Error(format string, args ...interface{}) {
	n.errs = append(n.errs, fmt.Sprintf(format, args...))
}

func newOutcomeCmd() (*cobra.Command, *bytes.Buffer) {
	var errOut bytes.Buffer
	cmd := &cobra.Command{Use: "test"}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&errOut)
	return cmd, &errOut
}

func TestReportBulkOutcome(t *testing.T) {
	t.Run("success returns nil", func(t *testing.T) {
		cmd, _ := newOutcomeCmd()
		result := batch.Result{Successful: 237}

		err := reportBulkOutcome(cmd, notify.Discard{}, result, nil, 237, "suggestions")
		assert.NoError(t, err)
	})

	t.Run("cancellation is a neutral outcome", func(t *testing.T) {
		cmd, _ := newOutcomeCmd()
		result := batch.Result{Successful: 100}
		runErr := fmt.Errorf("%w: requested", batch.ErrCancelled)
		recorder := &recordingNotifier{}

		err := reportBulkOutcome(cmd, recorder, result, runErr, 237, "suggestions")
		assert.NoError(t, err, "cancelled runs exit zero")
		require.Len(t, recorder.info, 1, "cancellation goes through the neutral channel")
		assert.Contains(t, recorder.info[0], "run cancelled")
		assert.Empty(t, recorder.warn)
		assert.Empty(t, recorder.errs)
	})

	t.Run("remote failure propagates", func(t *testing.T) {
		cmd, _ := newOutcomeCmd()
		result := batch.Result{Successful: 100}
		runErr := fmt.Errorf("%w: chunk 2 (items 100-149): boom", batch.ErrRemoteBatch)

		err := reportBulkOutcome(cmd, notify.Discard{}, result, runErr, 237, "suggestions")
		require.Error(t, err)
		assert.ErrorIs(t, err, batch.ErrRemoteBatch)
	})

	t.Run("item errors are printed", func(t *testing.T) {
		cmd, errOut := newOutcomeCmd()
		result := batch.Result{
			Successful: 1,
			Failed:     1,
			Errors:     []batch.ItemError{{ItemID: "mb-3", Detail: "block archived"}},
		}

		err := reportBulkOutcome(cmd, notify.Discard{}, result, nil, 2, "suggestions")
		assert.NoError(t, err)
		assert.Contains(t, errOut.String(), "mb-3")
		assert.Contains(t, errOut.String(), "block archived")
	})

	t.Run("unexpected error passes through", func(t *testing.T) {
		cmd, _ := newOutcomeCmd()
		boom := errors.New("nil submit")

		err := reportBulkOutcome(cmd, notify.Discard{}, batch.Result{}, boom, 0, "suggestions")
		assert.Equal(t, boom, err)
	})
}

func TestParseConsolidationStatus(t *testing.T) {
	for _, valid := range []string{"pending", "validated", "rejected", ""} {
		status, err := parseConsolidationStatus(valid)
		assert.NoError(t, err, valid)
		assert.Equal(t, client.ConsolidationStatus(valid), status)
	}

	_, err := parseConsolidationStatus("accepted")
	assert.Error(t, err)
}
