// Package domain describes the storefront's editable settings.
package domain

import (
	"errors"
	"time"
)

var (
	ErrUnknownKey = errors.New("unknown site setting")
	ErrNoValues   = errors.New("no settings submitted")
)

// Known setting keys.
const (
	KeyCompanyName             = "company_name"
	KeyCompanyAddress          = "company_address"
	KeyCompanyPhone            = "company_phone"
	KeyCompanyEmail            = "company_email"
	KeyWhatsAppNumber          = "whatsapp_number"
	KeyWhatsAppMessageTemplate = "whatsapp_message_template"
	KeyDirectionsURL           = "directions_url"
	KeyCopyrightText           = "copyright_text"
	KeyFacebookURL             = "facebook_url"
	KeyInstagramURL            = "instagram_url"
	KeyLinkedInURL             = "linkedin_url"
)

// Weekdays in display order; each has a business_hours_<day> key.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// BusinessHoursKey returns the setting key of a weekday.
func BusinessHoursKey(day string) string { return "business_hours_" + day }

// Definition is a known key with its description.
type Definition struct {
	Key         string
	Description string
}

// Definitions lists every known key in settings-form order.
func Definitions() []Definition {
	defs := []Definition{
		{KeyCompanyName, "Company name shown in the header and footer"},
		{KeyCompanyAddress, "Street address on the contact page"},
		{KeyCompanyPhone, "Contact phone number"},
		{KeyCompanyEmail, "Contact email address"},
		{KeyWhatsAppNumber, "WhatsApp number in international format, digits only"},
		{KeyWhatsAppMessageTemplate, "Prefilled WhatsApp message; {product} is replaced by the product name"},
		{KeyDirectionsURL, "Map link for directions"},
		{KeyCopyrightText, "Footer copyright line"},
		{KeyFacebookURL, "Facebook page URL"},
		{KeyInstagramURL, "Instagram profile URL"},
		{KeyLinkedInURL, "LinkedIn page URL"},
	}
	for _, day := range Weekdays {
		defs = append(defs, Definition{BusinessHoursKey(day), "Business hours on " + day})
	}
	return defs
}

var known = func() map[string]string {
	m := make(map[string]string)
	for _, d := range Definitions() {
		m[d.Key] = d.Description
	}
	return m
}()

// Describe returns the description of a known key.
func Describe(key string) (string, bool) {
	d, ok := known[key]
	return d, ok
}

// Entry is one stored setting.
type Entry struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}
