package services

import (
	"context"
	"html"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/validation"
	"tkphotos/internal/transport/http/dto"

	"github.com/microcosm-cc/bluemonday"
)

const minMessageLength = 10

type ContactService struct {
	log    *slog.Logger
	policy *bluemonday.Policy
}

func NewContactService(log *slog.Logger) *ContactService {
	return &ContactService{
		log:    log,
		policy: bluemonday.StrictPolicy(),
	}
}

// Submit cleans the message and records it. Nothing is delivered.
func (s *ContactService) Submit(ctx context.Context, req dto.ContactRequest) (models.ContactMessage, error) {
	const op = "service.ContactService.Submit"

	if !slices.Contains(models.ServiceOptions, req.Service) {
		return models.ContactMessage{}, validation.NewError("service", "must be one of "+strings.Join(models.ServiceOptions, ", "))
	}

	msg := models.ContactMessage{
		Name:    s.clean(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   s.clean(req.Phone),
		Service: req.Service,
		Message: s.clean(req.Message),
	}

	fields := validation.FieldErrors{}
	if utf8.RuneCountInString(msg.Name) < 2 {
		fields["name"] = []string{"must be at least 2 characters"}
	}
	if utf8.RuneCountInString(msg.Message) < minMessageLength {
		fields["message"] = []string{"must be at least 10 characters"}
	}
	if len(fields) > 0 {
		return models.ContactMessage{}, &validation.Error{Fields: fields}
	}

	s.log.InfoContext(ctx, "contact message received",
		slog.String("op", op),
		slog.String("name", msg.Name),
		slog.String("email", msg.Email),
		slog.String("phone", msg.Phone),
		slog.String("service", msg.Service),
		slog.Int("message_length", utf8.RuneCountInString(msg.Message)),
	)

	return msg, nil
}

// clean strips all markup. bluemonday escapes the text it keeps, so entities
// are decoded back before the value is stored or logged.
func (s *ContactService) clean(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}
