package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLogic = `{
  "data": {
    "n": [
      {"id": 1, "aId": 30, "k": "source",
       "i": [],
       "o": [{"id": 10, "dt": "bool", "dId": 101, "cId": 5}]},
      {"id": 2, "aId": 28, "k": "final",
       "i": [{"id": 20, "dt": "bool"}],
       "o": []}
    ],
    "r": [
      {"id": 1, "i": 20, "o": 10, "c": 5}
    ]
  }
}`

func TestDecodeLogicDocument(t *testing.T) {
	doc, err := DecodeLogicDocument([]byte(sampleLogic))
	require.NoError(t, err)
	require.NotNil(t, doc.Data)

	require.Len(t, doc.Data.Nodes, 2)
	source := doc.Data.Nodes[0]
	assert.Equal(t, 1, source.ID)
	assert.Equal(t, 30, source.AvailableID)
	assert.Equal(t, "source", source.Kind)
	require.Len(t, source.Outputs, 1)
	assert.Equal(t, 101, source.Outputs[0].DeviceID)

	final := doc.Data.Nodes[1]
	require.Len(t, final.Inputs, 1)
	assert.Nil(t, final.Inputs[0].Default)

	require.Len(t, doc.Data.Relationships, 1)
	assert.Equal(t, 20, doc.Data.Relationships[0].InputID)
	assert.Equal(t, 10, doc.Data.Relationships[0].OutputID)
}

func TestDecodeLogicDocumentDefault(t *testing.T) {
	payload := `{"data":{"n":[{"id":1,"aId":2,"k":"and",
		"i":[{"id":5,"dt":"bool","d":"true"},{"id":6,"dt":"bool","d":null}],
		"o":[{"id":7,"dt":"bool","dId":0,"cId":0}]}],"r":[]}}`
	doc, err := DecodeLogicDocument([]byte(payload))
	require.NoError(t, err)

	inputs := doc.Data.Nodes[0].Inputs
	require.NotNil(t, inputs[0].Default)
	assert.Equal(t, "true", *inputs[0].Default)
	assert.Nil(t, inputs[1].Default, "JSON null default stays absent")
}

func TestDecodeLogicDocumentFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"malformed JSON", `{"data":`},
		{"missing data", `{}`},
		{"node without id", `{"data":{"n":[{"aId":1,"k":"not","i":[],"o":[]}],"r":[]}}`},
		{"relationship without endpoints", `{"data":{"n":[],"r":[{"id":1,"c":0}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLogicDocument([]byte(tt.payload))
			require.Error(t, err)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr))
			assert.Equal(t, "logic", parseErr.Doc)
		})
	}
}

func TestDecodeValueUpdate(t *testing.T) {
	payload := `{"sensorArray":[
		{"deviceId":101,"value":true},
		{"deviceId":102,"value":21.5},
		{"deviceId":103,"value":7},
		{"deviceId":104,"value":"open"}
	]}`
	upd, err := DecodeValueUpdate([]byte(payload))
	require.NoError(t, err)
	require.Len(t, upd.Readings, 4)

	assert.Equal(t, Boolean(true), upd.Readings[0].Value)
	assert.Equal(t, Number(21.5), upd.Readings[1].Value)
	assert.Equal(t, Number(7), upd.Readings[2].Value)
	assert.Equal(t, Text("open"), upd.Readings[3].Value)

	assert.Equal(t, 101, upd.Readings[0].SourceID)
}

func TestDecodeValueUpdateFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"malformed JSON", `{"sensorArray":`},
		{"missing sensorArray", `{}`},
		{"null value", `{"sensorArray":[{"deviceId":1,"value":null}]}`},
		{"object value", `{"sensorArray":[{"deviceId":1,"value":{"a":1}}]}`},
		{"array value", `{"sensorArray":[{"deviceId":1,"value":[1]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeValueUpdate([]byte(tt.payload))
			require.Error(t, err)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr))
			assert.Equal(t, "values", parseErr.Doc)
		})
	}
}

func TestReadingRoundTrip(t *testing.T) {
	payload := `{"sensorArray":[{"deviceId":101,"value":true},{"deviceId":102,"value":"21"}]}`
	upd, err := DecodeValueUpdate([]byte(payload))
	require.NoError(t, err)

	out, err := upd.Readings[0].MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"deviceId":101,"value":true}`, string(out))
}
