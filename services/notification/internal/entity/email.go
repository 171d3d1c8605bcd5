package entity

// Email is a fully rendered message ready for a mail transport.
type Email struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
	Inline  []InlineImage
}

// InlineImage is an image referenced from the HTML body by its data URL.
// Transports that support related parts swap DataURL for "cid:<ContentID>".
type InlineImage struct {
	ContentID   string
	Filename    string
	ContentType string
	Data        []byte
	DataURL     string
}
