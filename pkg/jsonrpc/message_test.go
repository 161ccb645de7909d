package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestEncoding(t *testing.T) {
	req := NewRequest(7, "add", json.RawMessage(`[1,2]`))

	bs, err := json.Marshal(req)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(bs, &fields))

	assert.Equal(t, "2.0", fields["jsonrpc"])
	assert.Equal(t, "add", fields["method"])
	assert.Equal(t, float64(7), fields["id"])
	assert.Equal(t, []interface{}{float64(1), float64(2)}, fields["params"])
}

func TestNotificationOmitsID(t *testing.T) {
	n := NewNotification("log", json.RawMessage(`["hello"]`))

	bs, err := json.Marshal(n)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(bs, &fields))

	_, hasID := fields["id"]
	assert.False(t, hasID, "notification must not carry an id member")
	assert.Equal(t, "2.0", fields["jsonrpc"])
	assert.Equal(t, "log", fields["method"])
}

func TestRequestOmitsNilParams(t *testing.T) {
	bs, err := json.Marshal(NewRequest(1, "ping", nil))
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(bs, &fields))

	_, hasParams := fields["params"]
	assert.False(t, hasParams)
}

func TestDecodeResponse(t *testing.T) {
	in, kind, err := Decode([]byte(`{"id":3,"result":{"ok":true}}`))
	require.NoError(t, err)

	assert.Equal(t, KindResponse, kind)
	require.NotNil(t, in.ID)
	assert.Equal(t, uint64(3), *in.ID)
	assert.JSONEq(t, `{"ok":true}`, string(in.Result))
}

func TestDecodeErrorResponse(t *testing.T) {
	in, kind, err := Decode([]byte(`{"id":4,"error":{"code":-32601,"message":"method not found"}}`))
	require.NoError(t, err)

	assert.Equal(t, KindError, kind)
	require.NotNil(t, in.ID)
	assert.Equal(t, uint64(4), *in.ID)
	assert.Contains(t, string(in.Error), "method not found")
}

func TestDecodeNullErrorIsResponse(t *testing.T) {
	in, kind, err := Decode([]byte(`{"id":5,"result":1,"error":null}`))
	require.NoError(t, err)

	assert.Equal(t, KindResponse, kind)
	assert.Equal(t, uint64(5), *in.ID)
}

func TestDecodeNotification(t *testing.T) {
	in, kind, err := Decode([]byte(`{"notification":"tick","params":[1,2]}`))
	require.NoError(t, err)

	assert.Equal(t, KindNotification, kind)
	assert.Equal(t, "tick", in.Notification)

	args, err := in.PositionalParams()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{float64(1), float64(2)}, args)
}

func TestDecodeMalformed(t *testing.T) {
	_, kind, err := Decode([]byte(`{not json`))
	require.Error(t, err)
	assert.Equal(t, KindInvalid, kind)
}

func TestDecodeUnclassifiable(t *testing.T) {
	in, kind, err := Decode([]byte(`{"foo":"bar"}`))
	require.NoError(t, err)
	require.NotNil(t, in)
	assert.Equal(t, KindInvalid, kind)
}

func TestPositionalParamsEmpty(t *testing.T) {
	for _, payload := range []string{
		`{"notification":"tick"}`,
		`{"notification":"tick","params":null}`,
		`{"notification":"tick","params":[]}`,
	} {
		in, kind, err := Decode([]byte(payload))
		require.NoError(t, err, payload)
		require.Equal(t, KindNotification, kind, payload)

		args, err := in.PositionalParams()
		require.NoError(t, err, payload)
		assert.Empty(t, args, payload)
	}
}
