package event

import "github.com/drblury/kioskwire/internal/runtime/catalog"

// Payload structs for the variants the server originates. They decode
// through RegisterTyped so UI code reads fields instead of asserting on
// map values. Unknown fields are ignored.

// ItemBib is one item as the server describes it in RFID and item lookups.
type ItemBib struct {
	ItemBarcode  string `json:"item_barcode"`
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	BookCoverURL string `json:"book_cover_url,omitempty"`
	Edition      string `json:"edition,omitempty"`
}

type CheckOutComplete struct {
	ItemBarcode string         `json:"item_barcode"`
	UserBarcode string         `json:"user_barcode"`
	TagType     string         `json:"tag_type"`
	Status      catalog.Status `json:"status"`
	States      StateSet       `json:"states"`
}

type CheckInComplete struct {
	ItemBarcode string         `json:"item_barcode"`
	SortTo      string         `json:"sort_to"`
	TagType     string         `json:"tag_type"`
	Status      catalog.Status `json:"status"`
	States      StateSet       `json:"states"`
}

type SetTagAlarmComplete struct {
	ItemBarcode string         `json:"item_barcode"`
	On          bool           `json:"on"`
	Status      catalog.Status `json:"status"`
	States      StateSet       `json:"states"`
}

type RFIDTagsNew struct {
	TagsNew     []ItemBib      `json:"tags_new"`
	TagsPresent []ItemBib      `json:"tags_present"`
	Status      catalog.Status `json:"status"`
	States      StateSet       `json:"states"`
}

type RFIDTagsLost struct {
	TagsLost    []ItemBib `json:"tags_lost"`
	TagsPresent []ItemBib `json:"tags_present"`
}

type RFIDTagsPresent struct {
	TagsPresent []ItemBib `json:"tags_present"`
}

type BarcodeRead struct {
	Barcode string `json:"barcode"`
	Tag     any    `json:"tag"`
}

type UserLoginComplete struct {
	Firstname   string         `json:"firstname"`
	Surname     string         `json:"surname"`
	UserBarcode string         `json:"user_barcode"`
	Status      catalog.Status `json:"status"`
	States      StateSet       `json:"states"`
}

// ServerStatusResponse maps a subsystem name to whatever the server reports
// for it.
type ServerStatusResponse struct {
	Statuses map[string]any `json:"statuses"`
}

type ConfigGetPublicResponse struct {
	Config map[string]any `json:"config"`
}

type Exception struct {
	EType       string `json:"etype"`
	Description string `json:"description"`
	Trace       string `json:"trace"`
}
