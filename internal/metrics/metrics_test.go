package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRecipeMutation(t *testing.T) {
	before := testutil.ToFloat64(RecipeMutationsTotal.WithLabelValues("create", OutcomeOK))
	RecordRecipeMutation("create", OutcomeOK)
	assert.Equal(t, before+1, testutil.ToFloat64(RecipeMutationsTotal.WithLabelValues("create", OutcomeOK)))
}

func TestRecordRelationToggle(t *testing.T) {
	before := testutil.ToFloat64(RelationTogglesTotal.WithLabelValues("favorite", "add", OutcomeConflict))
	RecordRelationToggle("favorite", "add", OutcomeConflict)
	assert.Equal(t, before+1, testutil.ToFloat64(RelationTogglesTotal.WithLabelValues("favorite", "add", OutcomeConflict)))
}
