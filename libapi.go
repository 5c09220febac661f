package kioskwire

import (
	runtimepkg "github.com/drblury/kioskwire/internal/runtime"
	"github.com/drblury/kioskwire/internal/runtime/catalog"
	configpkg "github.com/drblury/kioskwire/internal/runtime/config"
	errspkg "github.com/drblury/kioskwire/internal/runtime/errors"
	"github.com/drblury/kioskwire/internal/runtime/event"
	idspkg "github.com/drblury/kioskwire/internal/runtime/ids"
	jsoncodec "github.com/drblury/kioskwire/internal/runtime/jsoncodec"
	loggingpkg "github.com/drblury/kioskwire/internal/runtime/logging"
	transportpkg "github.com/drblury/kioskwire/internal/runtime/transport"
	sockets "github.com/drblury/kioskwire/transport"
)

type (
	Config                 = configpkg.Config
	Connection             = runtimepkg.Connection
	ConnectionDependencies = runtimepkg.ConnectionDependencies
	TransportFactory       = transportpkg.Factory
	TransportFactoryFunc   = transportpkg.FactoryFunc

	Listener             = runtimepkg.Listener
	TypedListener[T any] = runtimepkg.TypedListener[T]
	Handle               = runtimepkg.Handle
	Registry             = runtimepkg.Registry
	Dispatcher           = runtimepkg.Dispatcher
	Sender               = runtimepkg.Sender
	SenderFunc           = runtimepkg.SenderFunc
	Metrics              = runtimepkg.Metrics

	Catalog    = catalog.Catalog
	Descriptor = catalog.Descriptor
	Route      = catalog.Route
	Status     = catalog.Status

	Envelope = event.Envelope
	Fields   = event.Fields
	Builder  = event.Builder
	Option   = event.Option
	State    = event.State
	StateSet = event.StateSet

	// Decoded payloads for RegisterTyped.
	ItemBib                        = event.ItemBib
	CheckOutCompletePayload        = event.CheckOutComplete
	CheckInCompletePayload         = event.CheckInComplete
	SetTagAlarmCompletePayload     = event.SetTagAlarmComplete
	RFIDTagsNewPayload             = event.RFIDTagsNew
	RFIDTagsLostPayload            = event.RFIDTagsLost
	RFIDTagsPresentPayload         = event.RFIDTagsPresent
	BarcodeReadPayload             = event.BarcodeRead
	UserLoginCompletePayload       = event.UserLoginComplete
	ServerStatusResponsePayload    = event.ServerStatusResponse
	ConfigGetPublicResponsePayload = event.ConfigGetPublicResponse
	ExceptionPayload               = event.Exception

	Sequence = idspkg.Sequence

	LogFields                 = loggingpkg.LogFields
	ServiceLogger             = loggingpkg.ServiceLogger
	EntryLogger               = loggingpkg.EntryLogger
	EntryLoggerAdapter[T any] = loggingpkg.EntryLoggerAdapter[T]

	MissingAttributeError = errspkg.MissingAttributeError
	UnknownVariantError   = errspkg.UnknownVariantError
	NoConsumerError       = errspkg.NoConsumerError
	TransportFailureError = errspkg.TransportFailureError
	ListenerError         = errspkg.ListenerError

	// Socket transports
	Socket                = sockets.Socket
	TransportBuilder      = sockets.Builder
	TransportConfig       = sockets.Config
	TransportRegistry     = sockets.Registry
	TransportCapabilities = sockets.Capabilities
)

var (
	NewConnection  = runtimepkg.NewConnection
	NewRegistry    = runtimepkg.NewRegistry
	NewDispatcher  = runtimepkg.NewDispatcher
	NewMetrics     = runtimepkg.NewMetrics
	DefaultConfig  = configpkg.Default
	ValidateConfig = configpkg.ValidateConfig

	NewCatalog     = catalog.New
	DefaultCatalog = catalog.Default
	NewBuilder     = event.NewBuilder
	MarshalFrame   = event.Marshal

	WithID        = event.WithID
	WithSender    = event.WithSender
	WithRecipient = event.WithRecipient
	FromTo        = event.FromTo

	NewSequence  = idspkg.NewSequence
	ConnectionID = idspkg.ConnectionID

	DefaultTransportFactory = transportpkg.DefaultFactory
	StaticTransport         = transportpkg.Static

	// Modular transport registry.
	// Import individual transports via: _ "github.com/drblury/kioskwire/transport/nats"
	DefaultTransportRegistry = sockets.DefaultRegistry
	RegisterTransport        = sockets.Register
	BuildTransport           = sockets.Build
	GetCapabilities          = sockets.GetCapabilities

	Marshal   = jsoncodec.Marshal
	Unmarshal = jsoncodec.Unmarshal

	ErrMissingAttribute = errspkg.ErrMissingAttribute
	ErrUnknownVariant   = errspkg.ErrUnknownVariant
	ErrNoConsumer       = errspkg.ErrNoConsumer
	ErrTransportFailure = errspkg.ErrTransportFailure
	ErrListenerFailure  = errspkg.ErrListenerFailure
	ErrMalformedFrame   = errspkg.ErrMalformedFrame
	ErrNotRunning       = errspkg.ErrNotRunning
	ErrFrameTooLarge    = errspkg.ErrFrameTooLarge
	ErrSocketClosed     = sockets.ErrClosed

	NewSlogServiceLogger = loggingpkg.NewSlogServiceLogger
	NewJSONLogger        = loggingpkg.NewJSONLogger
	NewNopLogger         = loggingpkg.NewNopLogger
	ParseLogLevel        = loggingpkg.ParseLevel
)

const (
	RouteUnset  = catalog.RouteUnset
	RouteClient = catalog.RouteClient
	RouteServer = catalog.RouteServer

	StatusSuccess = catalog.StatusSuccess
	StatusError   = catalog.StatusError
	StatusPending = catalog.StatusPending
	StatusNotSet  = catalog.StatusNotSet

	TagTypeRFID    = catalog.TagTypeRFID
	TagTypeBarcode = catalog.TagTypeBarcode
)

// Wire tags.
const (
	AdminModeEnter             = catalog.AdminModeEnter
	AdminModeLeave             = catalog.AdminModeLeave
	CheckOut                   = catalog.CheckOut
	CheckOutComplete           = catalog.CheckOutComplete
	CheckIn                    = catalog.CheckIn
	CheckInComplete            = catalog.CheckInComplete
	LocaleSet                  = catalog.LocaleSet
	TransactionHistoryRequest  = catalog.TransactionHistoryRequest
	TransactionHistoryResponse = catalog.TransactionHistoryResponse
	SetTagAlarm                = catalog.SetTagAlarm
	SetTagAlarmComplete        = catalog.SetTagAlarmComplete
	BarcodeRead                = catalog.BarcodeRead
	RingtonePlay               = catalog.RingtonePlay
	RingtonePlayComplete       = catalog.RingtonePlayComplete
	ConfigGetPublic            = catalog.ConfigGetPublic
	ConfigGetPublicResponse    = catalog.ConfigGetPublicResponse
	ConfigWrite                = catalog.ConfigWrite
	ItemBibFullDataRequest     = catalog.ItemBibFullDataRequest
	ItemBibFullDataResponse    = catalog.ItemBibFullDataResponse
	LogSend                    = catalog.LogSend
	LogReceived                = catalog.LogReceived
	PrintRequest               = catalog.PrintRequest
	PrintResponse              = catalog.PrintResponse
	PrintTemplateList          = catalog.PrintTemplateList
	PrintTemplateListResponse  = catalog.PrintTemplateListResponse
	PrintTemplateSave          = catalog.PrintTemplateSave
	PrintTemplateSaveResponse  = catalog.PrintTemplateSaveResponse
	PrintTestRequest           = catalog.PrintTestRequest
	PrintTestResponse          = catalog.PrintTestResponse
	RFIDTagsNew                = catalog.RFIDTagsNew
	RFIDTagsLost               = catalog.RFIDTagsLost
	RFIDTagsPresentRequest     = catalog.RFIDTagsPresentRequest
	RFIDTagsPresent            = catalog.RFIDTagsPresent
	ServerConnected            = catalog.ServerConnected
	ServerDisconnected         = catalog.ServerDisconnected
	ServerStatusRequest        = catalog.ServerStatusRequest
	ServerStatusResponse       = catalog.ServerStatusResponse
	UserLoggingIn              = catalog.UserLoggingIn
	UserLoginComplete          = catalog.UserLoginComplete
	UserLoginAbort             = catalog.UserLoginAbort
	Exception                  = catalog.Exception
	TestMockDevices            = catalog.TestMockDevices
)

// State keys reported in the states field of response variants.
const (
	StateCheckoutRenew      = catalog.StateCheckoutRenew
	StateItemCheckedOut     = catalog.StateItemCheckedOut
	StateItemHeld           = catalog.StateItemHeld
	StateItemHeldWaiting    = catalog.StateItemHeldWaiting
	StateNotCheckedOut      = catalog.StateNotCheckedOut
	StateReturnToBranch     = catalog.StateReturnToBranch
	StateNoItem             = catalog.StateNoItem
	StateHoldFound          = catalog.StateHoldFound
	StateUnhandled          = catalog.StateUnhandled
	StateCheckoutImpossible = catalog.StateCheckoutImpossible
	StateNeedsConfirmation  = catalog.StateNeedsConfirmation
	StateException          = catalog.StateException
)

func NewEntryServiceLogger[T EntryLoggerAdapter[T]](entry T) ServiceLogger {
	return loggingpkg.NewEntryServiceLogger(entry)
}

// RegisterTyped registers fn for tag on conn with the envelope payload
// decoded into T, a pointer to one of the payload structs.
func RegisterTyped[T any](conn *Connection, tag string, fn TypedListener[T]) (Handle, error) {
	return runtimepkg.RegisterTyped(conn, tag, fn)
}

// BuildTypedListener adapts fn into a plain Listener.
func BuildTypedListener[T any](fn TypedListener[T]) (Listener, error) {
	return runtimepkg.BuildTypedListener(fn)
}
