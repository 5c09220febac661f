package event

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drblury/kioskwire/internal/runtime/catalog"
	errspkg "github.com/drblury/kioskwire/internal/runtime/errors"
	"github.com/drblury/kioskwire/internal/runtime/ids"
	"github.com/drblury/kioskwire/internal/runtime/jsoncodec"
)

func fullFields(d catalog.Descriptor) Fields {
	f := make(Fields, len(d.Fields))
	for _, name := range d.Fields {
		f[name] = "value-" + name
	}
	return f
}

func decodeMessage(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var f frame
	require.NoError(t, jsoncodec.Unmarshal(data, &f))
	return f.Message
}

func TestEveryVariantSerialisesExactlyItsFields(t *testing.T) {
	b := NewBuilder(nil, nil)
	for _, tag := range catalog.Default().Tags() {
		t.Run(tag, func(t *testing.T) {
			d, err := catalog.Default().Resolve(tag)
			require.NoError(t, err)

			in := fullFields(d)
			in["not_declared"] = "dropped"

			env, err := b.New(tag, in)
			require.NoError(t, err)

			data, err := Marshal(env)
			require.NoError(t, err)

			msg := decodeMessage(t, data)
			keys := make([]string, 0, len(msg))
			for k := range msg {
				keys = append(keys, k)
			}
			want := slices.Clone(d.Fields)
			slices.Sort(want)
			slices.Sort(keys)
			assert.Equal(t, len(want), len(keys))
			if len(want) > 0 {
				assert.Equal(t, want, keys)
			}
		})
	}
}

func TestEveryRequiredFieldIsEnforced(t *testing.T) {
	b := NewBuilder(nil, nil)
	for _, tag := range catalog.Default().Tags() {
		d, _ := catalog.Default().Resolve(tag)
		for _, field := range d.Fields {
			if !d.Required(field) {
				continue
			}
			for _, absent := range []any{"omit", nil} {
				name := fmt.Sprintf("%s/%s/%v", tag, field, absent)
				t.Run(name, func(t *testing.T) {
					in := fullFields(d)
					if absent == nil {
						in[field] = nil
					} else {
						delete(in, field)
					}

					env, err := b.New(tag, in)
					assert.Nil(t, env)

					var missing *errspkg.MissingAttributeError
					require.ErrorAs(t, err, &missing)
					assert.Equal(t, tag, missing.Tag)
					assert.Equal(t, field, missing.Field)
					assert.ErrorIs(t, err, errspkg.ErrMissingAttribute)
				})
			}
		}
	}
}

func TestFalsyValuesAreNotMissing(t *testing.T) {
	b := NewBuilder(nil, nil)
	for _, falsy := range []any{0, false, "", 0.0} {
		t.Run(fmt.Sprintf("%T", falsy), func(t *testing.T) {
			env, err := b.New(catalog.CheckOut, Fields{
				catalog.FieldItemBarcode: falsy,
				catalog.FieldUserBarcode: falsy,
				catalog.FieldTagType:     falsy,
			})
			require.NoError(t, err)

			v, ok := env.Field(catalog.FieldItemBarcode)
			assert.True(t, ok)
			assert.Equal(t, falsy, v)
		})
	}
}

func TestTypedNilCountsAsMissing(t *testing.T) {
	b := NewBuilder(nil, nil)
	var tags []string
	_, err := b.New(catalog.RFIDTagsLost, Fields{
		catalog.FieldTagsLost:    tags,
		catalog.FieldTagsPresent: []string{"E004"},
	})
	var missing *errspkg.MissingAttributeError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, catalog.FieldTagsLost, missing.Field)

	env, err := b.New(catalog.RFIDTagsLost, Fields{
		catalog.FieldTagsLost:    []string{},
		catalog.FieldTagsPresent: []string{"E004"},
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.RFIDTagsLost, env.Tag())
}

func TestRingtoneRequiresOneAlternate(t *testing.T) {
	b := NewBuilder(nil, nil)

	_, err := b.RingtonePlay("", "")
	var missing *errspkg.MissingAttributeError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "ringtone_type' or 'ringtone", missing.Field)

	env, err := b.RingtonePlay("check-in", "")
	require.NoError(t, err)
	assert.Equal(t, catalog.RouteServer, env.Route())

	env, err = b.New(catalog.RingtonePlayComplete, Fields{
		catalog.FieldStatus:   catalog.StatusSuccess,
		catalog.FieldRingtone: "4d:d=4,o=5,b=200:c",
	})
	require.NoError(t, err)
	data, err := Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"ringtone-play-complete","message":{"status":"SUCCESS","ringtone":"4d:d=4,o=5,b=200:c"},"event_id":"ringtone-play-complete-1"}`, string(data))
}

func TestCheckOutScenarioFrame(t *testing.T) {
	b := NewBuilder(nil, nil)
	env, err := b.CheckOut("0001234", "LIB5678", "rfid", WithRecipient(catalog.RouteServer))
	require.NoError(t, err)

	data, err := Marshal(env)
	require.NoError(t, err)
	assert.Equal(t,
		`{"event":"check-out","message":{"item_barcode":"0001234","tag_type":"rfid","user_barcode":"LIB5678"},"event_id":"check-out-0"}`,
		string(data))
}

func TestEmptyPayloadMarshalsAsObject(t *testing.T) {
	b := NewBuilder(nil, nil)
	env, err := b.ConfigGetPublic()
	require.NoError(t, err)

	data, err := Marshal(env)
	require.NoError(t, err)
	assert.Equal(t, `{"event":"config-getpublic","message":{},"event_id":"config-getpublic-0"}`, string(data))
}

func TestCorrelationIDs(t *testing.T) {
	seq := ids.NewSequence()
	b := NewBuilder(nil, seq)

	first := b.ServerConnected()
	second := b.ServerConnected()
	assert.Equal(t, "server-connected-0", first.ID())
	assert.Equal(t, "server-connected-1", second.ID())

	explicit := b.ServerConnected(WithID("given"))
	assert.Equal(t, "given", explicit.ID())
	assert.Equal(t, uint64(2), seq.Issued())
}

func TestRouteResolution(t *testing.T) {
	b := NewBuilder(nil, nil)

	locale, err := b.LocaleSet("fi")
	require.NoError(t, err)
	assert.Equal(t, catalog.RouteUnset, locale.Recipient())
	assert.Equal(t, catalog.RouteServer, locale.Route())

	checkIn, err := b.CheckIn("0001", "rfid")
	require.NoError(t, err)
	assert.Equal(t, catalog.RouteUnset, checkIn.Route())

	checkIn, err = b.CheckIn("0001", "rfid", FromTo(catalog.RouteClient, catalog.RouteServer))
	require.NoError(t, err)
	assert.Equal(t, catalog.RouteClient, checkIn.Sender())
	assert.Equal(t, catalog.RouteServer, checkIn.Route())
}

func TestPayloadIsCopied(t *testing.T) {
	b := NewBuilder(nil, nil)
	env, err := b.CheckIn("0001", "rfid")
	require.NoError(t, err)

	p := env.Payload()
	p[catalog.FieldItemBarcode] = "mutated"
	assert.Equal(t, "0001", env.String(catalog.FieldItemBarcode))
}

func TestStatusAndStates(t *testing.T) {
	b := NewBuilder(nil, nil)
	env, err := b.New(catalog.CheckOutComplete, Fields{
		catalog.FieldItemBarcode: "0001",
		catalog.FieldUserBarcode: "LIB1",
		catalog.FieldTagType:     "rfid",
		catalog.FieldStatus:      "ERROR",
		catalog.FieldStates: map[string]any{
			catalog.StateItemCheckedOut: true,
			catalog.StateCheckoutRenew:  true,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, catalog.StatusError, env.Status())
	assert.Equal(t, []State{
		{Key: catalog.StateCheckoutRenew, Value: true},
		{Key: catalog.StateItemCheckedOut, Value: true},
	}, env.States())
	assert.True(t, env.HasState(catalog.StateItemCheckedOut))
	assert.False(t, env.HasState(catalog.StateNoItem))

	notResponse, err := b.CheckIn("0001", "rfid")
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusNotSet, notResponse.Status())
	assert.Nil(t, notResponse.States())
}

func TestStatesFromList(t *testing.T) {
	b := NewBuilder(nil, nil)
	env, err := b.New(catalog.LogReceived, Fields{
		catalog.FieldStatus: catalog.StatusSuccess,
		catalog.FieldStates: []any{"b", map[string]any{"a": 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, []State{{Key: "b", Value: true}, {Key: "a", Value: 1}}, env.States())
}

func TestExceptionEnvelope(t *testing.T) {
	b := NewBuilder(nil, nil)
	env := b.Exception(&errspkg.UnknownVariantError{Tag: "unknown-tag"}, FromTo(catalog.RouteClient, catalog.RouteClient))

	assert.Equal(t, catalog.Exception, env.Tag())
	assert.Equal(t, "*errors.UnknownVariantError", env.String(catalog.FieldEType))
	assert.Contains(t, env.String(catalog.FieldDescription), "unknown-tag")
	assert.NotEmpty(t, env.String(catalog.FieldTrace))
	assert.Equal(t, catalog.RouteClient, env.Route())

	nilErr := b.Exception(nil)
	assert.Equal(t, "<nil>", nilErr.String(catalog.FieldEType))
}

func TestUnknownTagOnConstruction(t *testing.T) {
	b := NewBuilder(nil, nil)
	_, err := b.New("unknown-tag", nil)
	assert.True(t, errors.Is(err, errspkg.ErrUnknownVariant))
}

func TestCirculationTagTypeDefaultsToRFID(t *testing.T) {
	b := NewBuilder(nil, nil)

	out, err := b.CheckOut("0001", "LIB1", "")
	require.NoError(t, err)
	assert.Equal(t, catalog.TagTypeRFID, out.String(catalog.FieldTagType))

	in, err := b.CheckIn("0001", "")
	require.NoError(t, err)
	assert.Equal(t, catalog.TagTypeRFID, in.String(catalog.FieldTagType))

	scanned, err := b.CheckIn("0001", catalog.TagTypeBarcode)
	require.NoError(t, err)
	assert.Equal(t, catalog.TagTypeBarcode, scanned.String(catalog.FieldTagType))
}
