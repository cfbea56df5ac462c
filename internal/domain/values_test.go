package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal/domain"
)

func TestFieldValues_InsertionOrder(t *testing.T) {
	var fv domain.FieldValues
	fv.Set("zeta", "1")
	fv.Set("alpha", "2")
	fv.Set("mid", "3")
	fv.Set("zeta", "updated")

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, fv.Keys())
	assert.Equal(t, "updated", fv.ValueOf("zeta"))
	assert.Equal(t, 3, fv.Len())

	fv.Delete("alpha")
	fv.Delete("missing")
	assert.Equal(t, []string{"zeta", "mid"}, fv.Keys())
	_, ok := fv.Get("alpha")
	assert.False(t, ok)
}

func TestFieldValues_CloneIsIndependent(t *testing.T) {
	orig := domain.NewFieldValues("a", "1", "b", "2")
	clone := orig.Clone()
	clone.Set("a", "changed")
	clone.Set("c", "3")

	assert.Equal(t, "1", orig.ValueOf("a"))
	assert.Equal(t, []string{"a", "b"}, orig.Keys())
	assert.Equal(t, map[string]string{"a": "changed", "b": "2", "c": "3"}, clone.Map())
}

func TestFieldValues_JSONKeepsOrder(t *testing.T) {
	fv := domain.NewFieldValues("zeta", "z", "alpha", `quote "a"`)

	data, err := json.Marshal(fv)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"z","alpha":"quote \"a\""}`, string(data))

	var decoded domain.FieldValues
	require.NoError(t, json.Unmarshal([]byte(`{"b": 1.50, "a": "x", "c": null, "d": true}`), &decoded))
	assert.Equal(t, []string{"b", "a", "c", "d"}, decoded.Keys())
	assert.Equal(t, "1.50", decoded.ValueOf("b"))
	assert.Equal(t, "", decoded.ValueOf("c"))
	assert.Equal(t, "true", decoded.ValueOf("d"))
}

func TestFieldValues_UnmarshalRejectsNonObject(t *testing.T) {
	var fv domain.FieldValues
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &fv))

	require.NoError(t, json.Unmarshal([]byte(`null`), &fv))
	assert.Equal(t, 0, fv.Len())
}

func TestFieldValues_EmptyMarshalsAsObject(t *testing.T) {
	data, err := json.Marshal(domain.FieldValues{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestFieldValues_ValueScanRoundTrip(t *testing.T) {
	fv := domain.NewFieldValues("zeta", "1", "alpha", "2")

	v, err := fv.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"zeta","value":"1"},{"name":"alpha","value":"2"}]`, string(v.([]byte)))

	var scanned domain.FieldValues
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, []string{"zeta", "alpha"}, scanned.Keys())

	require.NoError(t, scanned.Scan(nil))
	assert.Equal(t, 0, scanned.Len())
	assert.Error(t, scanned.Scan(42))
}

func TestFieldList_ValueScan(t *testing.T) {
	v, err := domain.FieldList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	var l domain.FieldList
	require.NoError(t, l.Scan(`[{"name":"a","display_name":"A","type":"text","required":true}]`))
	assert.Equal(t, []string{"a"}, l.Names())
	assert.True(t, l[0].Required)
}

func TestBatchRowStatus_Processable(t *testing.T) {
	assert.True(t, domain.RowStatusPending.Processable())
	assert.True(t, domain.RowStatusApproved.Processable())
	assert.False(t, domain.RowStatusRejected.Processable())
	assert.False(t, domain.RowStatusCreated.Processable())
	assert.False(t, domain.RowStatusFailed.Processable())
}
