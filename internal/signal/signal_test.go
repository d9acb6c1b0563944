package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeRegistry_DefaultsToJSON(t *testing.T) {
	reg := NewTypeRegistry()
	rec, err := reg.Decode("", "vehicle/engine/temp", []byte(`{"value":"87","fields":{"temperature":"87"}}`))
	require.NoError(t, err)
	assert.Equal(t, "vehicle/engine/temp", rec.Topic)
	assert.Equal(t, "87", rec.Value)
	assert.Equal(t, "87", rec.Fields["temperature"])
}

func TestTypeRegistry_RegisteredTagOverridesDefault(t *testing.T) {
	reg := NewTypeRegistry()
	reg.Register("raw-csv", DecoderFunc(func(topic string, raw []byte) (Record, error) {
		return Record{Topic: topic, Value: string(raw), Fields: map[string]string{"raw": string(raw)}}, nil
	}))

	rec, err := reg.Decode("raw-csv", "vehicle/speed", []byte("42"))
	require.NoError(t, err)
	assert.Equal(t, "42", rec.Value)
	assert.Equal(t, "42", rec.Fields["raw"])
}

func TestTypeRegistry_UnknownTagFallsBackToJSON(t *testing.T) {
	reg := NewTypeRegistry()
	rec, err := reg.Decode("unregistered-tag", "t", []byte(`{"value":"x","fields":{}}`))
	require.NoError(t, err)
	assert.Equal(t, "x", rec.Value)
}

func TestDecodeJSON_MalformedPayload(t *testing.T) {
	reg := NewTypeRegistry()
	_, err := reg.Decode("", "t", []byte("not json"))
	assert.Error(t, err)
}
