package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
)

func TestParseInspectionKind(t *testing.T) {
	tests := []struct {
		in   string
		want model.InspectionKind
	}{
		{"PRE_TRIP", model.InspectionPreTrip},
		{"pre-trip", model.InspectionPreTrip},
		{"Pre Trip", model.InspectionPreTrip},
		{"pre", model.InspectionPreTrip},
		{"post_trip", model.InspectionPostTrip},
		{" POST ", model.InspectionPostTrip},
	}
	for _, tt := range tests {
		got, err := model.ParseInspectionKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "mid-trip", "annual"} {
		_, err := model.ParseInspectionKind(bad)
		assert.Error(t, err, bad)
	}
}
