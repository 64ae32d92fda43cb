package models

// ServiceOptions lists the services a visitor can ask about on the contact form.
var ServiceOptions = []string{
	"anniversary_wedding",
	"sport",
	"corporate_event",
	"studio",
	"matric_dance",
	"branding",
	"entertainment_event",
	"social_media_mgmt",
	"graphic_poster",
}

type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Service string
	Message string
}
