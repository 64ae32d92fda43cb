package services

import (
	"context"
	"testing"

	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/lib/validation"
	"tkphotos/internal/transport/http/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactService_Submit(t *testing.T) {
	tests := []struct {
		name        string
		req         dto.ContactRequest
		wantMessage string
		wantField   string
	}{
		{
			name: "markup stripped",
			req: dto.ContactRequest{
				Name:    "<b>Thandi</b>",
				Email:   " Thandi@Example.com ",
				Service: "studio",
				Message: "Hi <script>alert(1)</script>I'd like a studio shoot & prints",
			},
			wantMessage: "Hi I'd like a studio shoot & prints",
		},
		{
			name:      "unknown service",
			req:       dto.ContactRequest{Name: "Thandi", Email: "t@example.com", Service: "drone", Message: "Long enough message"},
			wantField: "service",
		},
		{
			name:      "message only markup",
			req:       dto.ContactRequest{Name: "Thandi", Email: "t@example.com", Service: "sport", Message: "<img src=x><br><br><br>"},
			wantField: "message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewContactService(sl.NewDiscardLogger())

			msg, err := service.Submit(context.Background(), tt.req)
			if tt.wantField != "" {
				var verr *validation.Error
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, tt.wantField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMessage, msg.Message)
			assert.Equal(t, "Thandi", msg.Name)
			assert.Equal(t, "thandi@example.com", msg.Email)
		})
	}
}
