package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_FieldSet(t *testing.T) {
	env := Envelope{Statvfs: Statvfs{
		Bsize:    4096,
		Frsize:   4096,
		Blocks:   math.MaxUint64,
		Bfree:    math.MaxUint64 - 1,
		Flagstr:  "ST_RDONLY",
		Namemax:  255,
		UsedPerc: 75,
		FreePerc: 25,
	}}

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var outer map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &outer))
	require.Len(t, outer, 1)
	require.Contains(t, outer, "statvfs")

	var inner map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(outer["statvfs"], &inner))

	want := []string{
		"bsize", "frsize", "blocks", "bfree", "bavail", "files", "ffree",
		"favail", "fsid", "flagstr", "namemax", "used_perc", "free_perc",
	}
	assert.Len(t, inner, len(want))
	for _, key := range want {
		assert.Contains(t, inner, key)
	}

	// 64-bit counters must survive without float rounding.
	assert.Equal(t, "18446744073709551615", string(inner["blocks"]))
	assert.Equal(t, "18446744073709551614", string(inner["bfree"]))
	assert.Equal(t, "75", string(inner["used_perc"]))
}

func TestPercent_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Percent
		want string
	}{
		{"whole", 25, "25"},
		{"fraction", 12.5, "12.5"},
		{"nan", Percent(math.NaN()), "null"},
		{"pos_inf", Percent(math.Inf(1)), "null"},
		{"neg_inf", Percent(math.Inf(-1)), "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.want != "null", tt.in.IsFinite())
		})
	}
}

func TestEnvelope_PrettyWithNaN(t *testing.T) {
	env := Envelope{Statvfs: Statvfs{
		UsedPerc: Percent(math.NaN()),
		FreePerc: Percent(math.NaN()),
	}}

	out, err := env.Pretty()
	require.NoError(t, err)
	assert.Contains(t, string(out), "\"used_perc\": null")
	assert.Contains(t, string(out), "\n  \"statvfs\": {\n")
}
