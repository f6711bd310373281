package tdfcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceBudgetConsumeOpsWithinLimit(t *testing.T) {
	b := NewResourceBudget(10, 0)
	assert.NoError(t, b.ConsumeOps(5))
	assert.NoError(t, b.ConsumeOps(5))
	assert.Equal(t, int64(10), b.OpsUsed())
}

func TestResourceBudgetConsumeOpsExceedsLimit(t *testing.T) {
	b := NewResourceBudget(10, 0)
	assert.NoError(t, b.ConsumeOps(5))
	err := b.ConsumeOps(6)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrPolicyViolation)
}

func TestResourceBudgetConsumeMemoryExceedsLimit(t *testing.T) {
	b := NewResourceBudget(0, 100)
	assert.NoError(t, b.ConsumeMemory(100))
	assert.Error(t, b.ConsumeMemory(1))
}

func TestResourceBudgetZeroCeilingIsUnbounded(t *testing.T) {
	b := NewResourceBudget(0, 0)
	assert.NoError(t, b.ConsumeOps(1<<40))
	assert.NoError(t, b.ConsumeMemory(1<<40))
}

func TestResourceBudgetNilReceiverIsUnbounded(t *testing.T) {
	var b *ResourceBudget
	assert.NoError(t, b.ConsumeOps(1))
	assert.NoError(t, b.ConsumeMemory(1))
	assert.Equal(t, int64(0), b.OpsUsed())
}
