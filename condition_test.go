package pdfreport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/pdfreport/dataprovider"
)

func TestCondition(t *testing.T) {
	r := New()
	s := r.SetSection("orders", dataprovider.NewMemory(dataprovider.NewRow("total", "12.5", "status", "open")), nil)
	_, err := s.ExecuteQuery(context.Background())
	require.NoError(t, err)
	r.SetVar("limit", 10, true)

	for _, tc := range []struct {
		code string
		want bool
	}{
		{"", true},
		{"orders.total > LIMIT && orders.status == 'open'", true},
		{"{orders.total} < limit", false},
		{"{orders.status} == 'open'", false},
		{"'{orders.status}' == 'open'", true},
		{"undefined_thing", false},
	} {
		got, err := r.condition(tc.code)
		require.NoError(t, err, tc.code)
		assert.Equal(t, tc.want, got, tc.code)
	}

	_, err = r.condition("1 +")
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	out, err := r.evalExpr("orders.total * 2")
	require.NoError(t, err)
	assert.Equal(t, 25.0, out)
}

func TestTruthy(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(false))
	assert.False(t, truthy(0))
	assert.False(t, truthy(0.0))
	assert.False(t, truthy(""))
	assert.False(t, truthy("0"))
	assert.False(t, truthy("False"))
	assert.True(t, truthy("no"))
	assert.True(t, truthy(int64(3)))
	assert.True(t, truthy(2.5))
	assert.True(t, truthy([]int{}))
}

func TestIsIdent(t *testing.T) {
	assert.True(t, isIdent("orders"))
	assert.True(t, isIdent("_tmp2"))
	assert.False(t, isIdent(""))
	assert.False(t, isIdent("2nd"))
	assert.False(t, isIdent("order-lines"))
}
