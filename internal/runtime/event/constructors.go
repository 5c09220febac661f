package event

import (
	"fmt"
	"runtime/debug"

	"github.com/drblury/kioskwire/internal/runtime/catalog"
)

// Typed helpers for the variants a kiosk originates. They are thin wrappers
// over New and return the same errors.

// CheckOut builds a check-out request. An empty tagType means rfid.
func (b *Builder) CheckOut(itemBarcode, userBarcode, tagType string, opts ...Option) (*Envelope, error) {
	return b.New(catalog.CheckOut, Fields{
		catalog.FieldItemBarcode: itemBarcode,
		catalog.FieldUserBarcode: userBarcode,
		catalog.FieldTagType:     tagTypeOrRFID(tagType),
	}, opts...)
}

// CheckIn builds a check-in request. An empty tagType means rfid.
func (b *Builder) CheckIn(itemBarcode, tagType string, opts ...Option) (*Envelope, error) {
	return b.New(catalog.CheckIn, Fields{
		catalog.FieldItemBarcode: itemBarcode,
		catalog.FieldTagType:     tagTypeOrRFID(tagType),
	}, opts...)
}

func tagTypeOrRFID(tagType string) string {
	if tagType == "" {
		return catalog.TagTypeRFID
	}
	return tagType
}

func (b *Builder) SetTagAlarm(itemBarcode string, on bool, opts ...Option) (*Envelope, error) {
	return b.New(catalog.SetTagAlarm, Fields{
		catalog.FieldItemBarcode: itemBarcode,
		catalog.FieldOn:          on,
	}, opts...)
}

func (b *Builder) LocaleSet(localeCode string, opts ...Option) (*Envelope, error) {
	return b.New(catalog.LocaleSet, Fields{catalog.FieldLocaleCode: localeCode}, opts...)
}

func (b *Builder) ConfigGetPublic(opts ...Option) (*Envelope, error) {
	return b.New(catalog.ConfigGetPublic, nil, opts...)
}

func (b *Builder) ConfigWrite(variable string, newValue any, opts ...Option) (*Envelope, error) {
	return b.New(catalog.ConfigWrite, Fields{
		catalog.FieldVariable: variable,
		catalog.FieldNewValue: newValue,
	}, opts...)
}

func (b *Builder) UserLoggingIn(username, password string, opts ...Option) (*Envelope, error) {
	return b.New(catalog.UserLoggingIn, Fields{
		catalog.FieldUsername: username,
		catalog.FieldPassword: password,
	}, opts...)
}

func (b *Builder) UserLoginAbort(opts ...Option) (*Envelope, error) {
	return b.New(catalog.UserLoginAbort, nil, opts...)
}

// RingtonePlay asks the server to play either a ringtone type (for example
// "checkout-success") or an explicit ringtone; one of them must be non-empty.
func (b *Builder) RingtonePlay(ringtoneType, ringtone string, opts ...Option) (*Envelope, error) {
	return b.New(catalog.RingtonePlay, Fields{
		catalog.FieldRingtoneType: ringtoneType,
		catalog.FieldRingtone:     ringtone,
	}, opts...)
}

func (b *Builder) ServerStatusRequest(opts ...Option) (*Envelope, error) {
	return b.New(catalog.ServerStatusRequest, nil, opts...)
}

func (b *Builder) RFIDTagsPresentRequest(opts ...Option) (*Envelope, error) {
	return b.New(catalog.RFIDTagsPresentRequest, nil, opts...)
}

func (b *Builder) ServerConnected(opts ...Option) *Envelope {
	return b.MustNew(catalog.ServerConnected, nil, opts...)
}

func (b *Builder) ServerDisconnected(opts ...Option) *Envelope {
	return b.MustNew(catalog.ServerDisconnected, nil, opts...)
}

// Exception wraps err into an exception envelope. etype carries the Go type
// of err, description its message and trace the current goroutine stack.
func (b *Builder) Exception(err error, opts ...Option) *Envelope {
	etype, description := "<nil>", ""
	if err != nil {
		etype = fmt.Sprintf("%T", err)
		description = err.Error()
	}
	return b.MustNew(catalog.Exception, Fields{
		catalog.FieldEType:       etype,
		catalog.FieldDescription: description,
		catalog.FieldTrace:       string(debug.Stack()),
	}, opts...)
}
