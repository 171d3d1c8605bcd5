package usecase

import (
	"bytes"
	"html/template"
	"strings"
	textTemplate "text/template"
	"time"
)

const timeLayout = "Mon, 02 Jan 2006 15:04 MST"

var (
	otpText = textTemplate.Must(textTemplate.New("otp").Parse(
		"Hi there, Here is your verification otp {{.Otp}}"))

	eventText = textTemplate.Must(textTemplate.New("event").Parse(
		"Hi there, Your event has been {{.Status}}.\n\n" +
			"Event id: {{.EventID}}\n\n" +
			"Time: {{.Time}}\n\n" +
			"Location: {{.Location}}"))

	priceText = textTemplate.Must(textTemplate.New("price").Parse(
		"Hi there, The seat price for your event with id: {{.EventID}} has been updated."))

	bookingHTML = template.Must(template.New("booking").Parse(
		`<p>Scan the QR code to view your booking details</p>` +
			`<br>` +
			`<img src="{{.QRCode}}" alt="Booking QR code">`))
)

func renderText(tmpl *textTemplate.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderHTML(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// bookingSummary is the text encoded into the booking QR code.
func bookingSummary(title string, at time.Time, location string, paymentID *string) string {
	payment := "none"
	if paymentID != nil && *paymentID != "" {
		payment = *paymentID
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString(" booked. \nEvent date: ")
	b.WriteString(formatTime(at))
	b.WriteString(". \nLocation: ")
	b.WriteString(location)
	b.WriteString(". \nPaymentId: ")
	b.WriteString(payment)
	return b.String()
}
