package schema

import (
	"testing"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectionLogV1(t *testing.T) {
	var logSchema avro.Schema
	require.NotPanics(t, func() {
		logSchema = InspectionLogV1Avro()
	})

	t.Run("Regular", func(t *testing.T) {
		vMarshal := InspectionLogV1{
			ID:              "L-1",
			ProductID:       "P-1",
			ProductName:     "Bracket",
			ShippingOrderNo: "SO-1",
			CheckDate:       "2024-04-01",
			Inspector:       "Dana",
			Notes:           `box "dented"`,
			Status:          "FAIL",
			AIAnalysis:      "[Damage] Dented",
			CreatedAt:       1711929600000,
		}

		data, err := avro.Marshal(logSchema, vMarshal)
		require.NoError(t, err)

		var vUnmarshal InspectionLogV1
		require.NoError(t, avro.Unmarshal(logSchema, data, &vUnmarshal))
		assert.Equal(t, vMarshal, vUnmarshal)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		_, err := avro.Marshal(logSchema, InspectionLogV1{ID: "L-1", Status: "GREAT"})
		require.Error(t, err)
	})
}

func TestSerdeInspectionLogV1(t *testing.T) {
	serde, err := NewSerdeInspectionLogV1()
	require.NoError(t, err)

	v1 := InspectionLogV1{ID: "L-2", Status: "WARNING", CreatedAt: 5}
	data, err := serde.Encode(v1)
	require.NoError(t, err)

	var v2 InspectionLogV1
	require.NoError(t, serde.Decode(data, &v2))
	assert.Equal(t, v1, v2)
}
