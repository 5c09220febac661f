package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drblury/kioskwire/internal/runtime/catalog"
	errspkg "github.com/drblury/kioskwire/internal/runtime/errors"
)

func TestParseInboundFrame(t *testing.T) {
	b := NewBuilder(nil, nil)
	env, err := b.Parse([]byte(`{"event":"server-connected","message":{},"event_id":"x"}`),
		FromTo(catalog.RouteServer, catalog.RouteClient))
	require.NoError(t, err)

	assert.Equal(t, catalog.ServerConnected, env.Tag())
	assert.Equal(t, "x", env.ID())
	assert.Equal(t, catalog.RouteServer, env.Sender())
	assert.Equal(t, catalog.RouteClient, env.Route())
	assert.Empty(t, env.Payload())
}

func TestParseKeepsDeclaredFieldsOnly(t *testing.T) {
	b := NewBuilder(nil, nil)
	env, err := b.Parse([]byte(`{
		"event": "ringtone-play-complete",
		"message": {"ringtone_type": "check-in", "ringtone": "", "extra": 1, "status": "SUCCESS"},
		"event_id": "ringtone-play-complete-3"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "check-in", env.String(catalog.FieldRingtoneType))
	_, hasExtra := env.Field("extra")
	assert.False(t, hasExtra)
	assert.Equal(t, catalog.StatusSuccess, env.Status())
}

func TestParseWithoutEventIDGeneratesOne(t *testing.T) {
	b := NewBuilder(nil, nil)
	env, err := b.Parse([]byte(`{"event":"server-disconnected","message":{}}`))
	require.NoError(t, err)
	assert.Equal(t, "server-disconnected-0", env.ID())
}

func TestParseFailures(t *testing.T) {
	b := NewBuilder(nil, nil)

	_, err := b.Parse([]byte(`{"event":"unknown-tag","message":{},"event_id":"u"}`))
	assert.ErrorIs(t, err, errspkg.ErrUnknownVariant)

	_, err = b.Parse([]byte(`not json`))
	assert.ErrorIs(t, err, errspkg.ErrMalformedFrame)

	_, err = b.Parse([]byte(`{"message":{}}`))
	assert.ErrorIs(t, err, errspkg.ErrMalformedFrame)

	_, err = b.Parse([]byte(`{"event":"check-in","message":{"item_barcode":"1"},"event_id":"c"}`))
	var missing *errspkg.MissingAttributeError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, catalog.FieldTagType, missing.Field)

	_, err = b.Parse([]byte(`{"event":"check-in","message":{"item_barcode":"1","tag_type":null},"event_id":"c"}`))
	assert.ErrorIs(t, err, errspkg.ErrMissingAttribute)
}

func TestRoundTripEveryVariant(t *testing.T) {
	out := NewBuilder(nil, nil)
	in := NewBuilder(nil, nil)

	for _, tag := range catalog.Default().Tags() {
		t.Run(tag, func(t *testing.T) {
			d, _ := catalog.Default().Resolve(tag)
			env, err := out.New(tag, fullFields(d), WithRecipient(catalog.RouteServer))
			require.NoError(t, err)

			data, err := Marshal(env)
			require.NoError(t, err)

			back, err := in.Parse(data)
			require.NoError(t, err)
			assert.Equal(t, env.Tag(), back.Tag())
			assert.Equal(t, env.Payload(), back.Payload())
			assert.Equal(t, env.ID(), back.ID())
		})
	}
}

func TestRoundTripKeepsFalsyValues(t *testing.T) {
	b := NewBuilder(nil, nil)
	env, err := b.SetTagAlarm("", false)
	require.NoError(t, err)

	data, err := Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"set-tag-alarm","message":{"item_barcode":"","on":false},"event_id":"set-tag-alarm-0"}`, string(data))

	back, err := b.Parse(data)
	require.NoError(t, err)
	assert.False(t, back.Bool(catalog.FieldOn))
	_, ok := back.Field(catalog.FieldOn)
	assert.True(t, ok)
}
