package catalog

// Wire tags.
const (
	AdminModeEnter             = "admin-mode-enter"
	AdminModeLeave             = "admin-mode-leave"
	CheckOut                   = "check-out"
	CheckOutComplete           = "check-out-complete"
	CheckIn                    = "check-in"
	CheckInComplete            = "check-in-complete"
	LocaleSet                  = "locale-set"
	TransactionHistoryRequest  = "transaction-history-request"
	TransactionHistoryResponse = "transaction-history-response"
	SetTagAlarm                = "set-tag-alarm"
	SetTagAlarmComplete        = "set-tag-alarm-complete"
	BarcodeRead                = "barcode-read"
	RingtonePlay               = "ringtone-play"
	RingtonePlayComplete       = "ringtone-play-complete"
	ConfigGetPublic            = "config-getpublic"
	ConfigGetPublicResponse    = "config-getpublic-response"
	ConfigWrite                = "config-write"
	ItemBibFullDataRequest     = "itembib-fulldata-request"
	ItemBibFullDataResponse    = "itembib-fulldata-response"
	LogSend                    = "log-send"
	LogReceived                = "log-received"
	PrintRequest               = "print-request"
	PrintResponse              = "print-response"
	PrintTemplateList          = "print-template-list"
	PrintTemplateListResponse  = "print-template-list-response"
	PrintTemplateSave          = "print-template-save"
	PrintTemplateSaveResponse  = "print-template-save-response"
	PrintTestRequest           = "print-test-request"
	PrintTestResponse          = "print-test-response"
	RFIDTagsNew                = "rfid-tags-new"
	RFIDTagsLost               = "rfid-tags-lost"
	RFIDTagsPresentRequest     = "rfid-tags-present-request"
	RFIDTagsPresent            = "rfid-tags-present"
	ServerConnected            = "server-connected"
	ServerDisconnected         = "server-disconnected"
	ServerStatusRequest        = "server-status-request"
	ServerStatusResponse       = "server-status-response"
	UserLoggingIn              = "user-logging-in"
	UserLoginComplete          = "user-login-complete"
	UserLoginAbort             = "user-login-abort"
	Exception                  = "exception"
	TestMockDevices            = "test-mock-devices"
)

// Payload field names.
const (
	FieldItemBarcode    = "item_barcode"
	FieldUserBarcode    = "user_barcode"
	FieldTagType        = "tag_type"
	FieldStatus         = "status"
	FieldStates         = "states"
	FieldSortTo         = "sort_to"
	FieldOn             = "on"
	FieldLocaleCode     = "locale_code"
	FieldStartTime      = "start_time"
	FieldEndTime        = "end_time"
	FieldTransactions   = "transactions"
	FieldBarcode        = "barcode"
	FieldTag            = "tag"
	FieldRingtoneType   = "ringtone_type"
	FieldRingtone       = "ringtone"
	FieldConfig         = "config"
	FieldVariable       = "variable"
	FieldNewValue       = "new_value"
	FieldBarcodes       = "barcodes"
	FieldItemBibs       = "item_bibs"
	FieldMessages       = "messages"
	FieldReceiptType    = "receipt_type"
	FieldItems          = "items"
	FieldPrintableSheet = "printable_sheet"
	FieldTemplates      = "templates"
	FieldID             = "id"
	FieldType           = "type"
	FieldTemplate       = "template"
	FieldData           = "data"
	FieldCSS            = "css"
	FieldRealPrint      = "real_print"
	FieldImage          = "image"
	FieldTagsNew        = "tags_new"
	FieldTagsPresent    = "tags_present"
	FieldTagsLost       = "tags_lost"
	FieldStatuses       = "statuses"
	FieldUsername       = "username"
	FieldPassword       = "password"
	FieldFirstname      = "firstname"
	FieldSurname        = "surname"
	FieldEType          = "etype"
	FieldDescription    = "description"
	FieldTrace          = "trace"
)

// Tag type values sent with circulation requests.
const (
	TagTypeRFID    = "rfid"
	TagTypeBarcode = "barcode"
)

func fields(names ...string) []string { return names }

var variants = []Descriptor{
	{Tag: AdminModeEnter, DefaultRoute: RouteClient},
	{Tag: AdminModeLeave, DefaultRoute: RouteServer},

	{Tag: CheckOut, Fields: fields(FieldItemBarcode, FieldUserBarcode, FieldTagType)},
	{Tag: CheckOutComplete, Fields: fields(FieldItemBarcode, FieldUserBarcode, FieldTagType, FieldStatus, FieldStates)},
	{Tag: CheckIn, Fields: fields(FieldItemBarcode, FieldTagType)},
	{Tag: CheckInComplete, Fields: fields(FieldItemBarcode, FieldSortTo, FieldTagType, FieldStatus, FieldStates)},

	{Tag: LocaleSet, Fields: fields(FieldLocaleCode), DefaultRoute: RouteServer},

	{Tag: TransactionHistoryRequest, Fields: fields(FieldStartTime, FieldEndTime), DefaultRoute: RouteServer},
	{Tag: TransactionHistoryResponse, Fields: fields(FieldTransactions, FieldStatus, FieldStates), DefaultRoute: RouteClient},

	{Tag: SetTagAlarm, Fields: fields(FieldItemBarcode, FieldOn)},
	{Tag: SetTagAlarmComplete, Fields: fields(FieldItemBarcode, FieldOn, FieldStatus, FieldStates)},

	{Tag: BarcodeRead, Fields: fields(FieldBarcode, FieldTag)},

	{
		Tag:          RingtonePlay,
		Fields:       fields(FieldRingtoneType, FieldRingtone),
		AnyOf:        fields(FieldRingtoneType, FieldRingtone),
		DefaultRoute: RouteServer,
	},
	{
		Tag:    RingtonePlayComplete,
		Fields: fields(FieldStatus, FieldRingtoneType, FieldRingtone, FieldStates),
		AnyOf:  fields(FieldRingtoneType, FieldRingtone),
	},

	{Tag: ConfigGetPublic, DefaultRoute: RouteServer},
	{Tag: ConfigGetPublicResponse, Fields: fields(FieldConfig)},
	{Tag: ConfigWrite, Fields: fields(FieldVariable, FieldNewValue), DefaultRoute: RouteServer},

	{Tag: ItemBibFullDataRequest, Fields: fields(FieldBarcodes), DefaultRoute: RouteServer},
	{Tag: ItemBibFullDataResponse, Fields: fields(FieldItemBibs), DefaultRoute: RouteClient},

	{Tag: LogSend, Fields: fields(FieldMessages), DefaultRoute: RouteServer},
	{Tag: LogReceived, Fields: fields(FieldStatus, FieldStates)},

	{Tag: PrintRequest, Fields: fields(FieldReceiptType, FieldItems, FieldUserBarcode), DefaultRoute: RouteServer},
	{Tag: PrintResponse, Fields: fields(FieldReceiptType, FieldItems, FieldUserBarcode, FieldPrintableSheet, FieldStatus, FieldStates)},
	{Tag: PrintTemplateList, DefaultRoute: RouteServer},
	{Tag: PrintTemplateListResponse, Fields: fields(FieldTemplates, FieldStatus, FieldStates)},
	{Tag: PrintTemplateSave, Fields: fields(FieldID, FieldType, FieldLocaleCode, FieldTemplate), DefaultRoute: RouteServer},
	{Tag: PrintTemplateSaveResponse, Fields: fields(FieldID, FieldType, FieldLocaleCode, FieldStatus, FieldStates)},
	{Tag: PrintTestRequest, Fields: fields(FieldTemplate, FieldData, FieldCSS, FieldRealPrint), DefaultRoute: RouteServer},
	{Tag: PrintTestResponse, Fields: fields(FieldImage, FieldStatus, FieldStates)},

	{Tag: RFIDTagsNew, Fields: fields(FieldTagsNew, FieldTagsPresent, FieldStatus, FieldStates)},
	{Tag: RFIDTagsLost, Fields: fields(FieldTagsLost, FieldTagsPresent)},
	{Tag: RFIDTagsPresentRequest, DefaultRoute: RouteServer},
	{Tag: RFIDTagsPresent, Fields: fields(FieldTagsPresent)},

	{Tag: ServerConnected},
	{Tag: ServerDisconnected},
	{Tag: ServerStatusRequest, DefaultRoute: RouteServer},
	{Tag: ServerStatusResponse, Fields: fields(FieldStatuses)},

	{Tag: UserLoggingIn, Fields: fields(FieldUsername, FieldPassword), DefaultRoute: RouteServer},
	{Tag: UserLoginComplete, Fields: fields(FieldFirstname, FieldSurname, FieldUserBarcode, FieldStatus, FieldStates)},
	{Tag: UserLoginAbort, DefaultRoute: RouteServer},

	{Tag: Exception, Fields: fields(FieldEType, FieldDescription, FieldTrace)},

	// Asks the server to emit mocked RFID tag and barcode reads.
	{Tag: TestMockDevices, DefaultRoute: RouteServer},
}
