package rest

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dyleth/fraudshield/internal/domain/errors"
	"github.com/dyleth/fraudshield/internal/service/detection"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const maxBodyBytes = 64 << 10

// CheckPhoneRequest is the phone lookup payload.
type CheckPhoneRequest struct {
	Phone   string `json:"phone" validate:"required,min=3,max=20"`
	Country string `json:"country" validate:"omitempty,len=2"`
}

// CheckSMSRequest is the SMS analysis payload.
type CheckSMSRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
	Sender  string `json:"sender" validate:"omitempty,max=50"`
}

// CheckEmailRequest is the email analysis payload.
type CheckEmailRequest struct {
	Sender  string `json:"sender" validate:"required,max=320"`
	Subject string `json:"subject" validate:"omitempty,max=1000"`
	Body    string `json:"body" validate:"omitempty,max=50000"`
}

// ReportPhoneRequest is a crowd report of a fraudulent number.
type ReportPhoneRequest struct {
	Phone     string `json:"phone" validate:"required,min=3,max=20"`
	Country   string `json:"country" validate:"omitempty,len=2"`
	FraudType string `json:"fraud_type" validate:"required,oneof=spam scam robocall phishing spoofing"`
}

// ReportSMSRequest is a crowd report of a fraudulent message.
type ReportSMSRequest struct {
	Content       string `json:"content" validate:"required,max=5000"`
	FraudCategory string `json:"fraud_category" validate:"omitempty,max=50"`
	Comment       string `json:"comment" validate:"omitempty,max=1000"`
}

// ReportEmailRequest is a crowd report of a fraudulent domain.
type ReportEmailRequest struct {
	Domain       string `json:"domain" validate:"required,fqdn"`
	PhishingType string `json:"phishing_type" validate:"omitempty,max=50"`
	Comment      string `json:"comment" validate:"omitempty,max=1000"`
}

// BulkCheckRequest checks a batch of phone numbers in one call.
type BulkCheckRequest struct {
	Phones  []string `json:"phones" validate:"required,min=1,max=100,dive,min=3,max=20"`
	Country string   `json:"country" validate:"omitempty,len=2"`
}

// BulkCheckResult pairs one number of a batch with its verdict. Verdict is
// null and Error set when that entry failed.
type BulkCheckResult struct {
	Phone   string                  `json:"phone"`
	Verdict *detection.PhoneVerdict `json:"verdict"`
	Error   string                  `json:"error,omitempty"`
}

type BulkCheckResponse struct {
	Results []BulkCheckResult `json:"results"`
}

// AdminNumberRequest adds a number to the registry directly.
type AdminNumberRequest struct {
	Phone      string  `json:"phone" validate:"required,min=3,max=20"`
	Country    string  `json:"country" validate:"omitempty,len=2"`
	FraudType  string  `json:"fraud_type" validate:"required,oneof=spam scam robocall phishing spoofing"`
	Confidence float64 `json:"confidence" validate:"required,gt=0,lte=1"`
}

// decodeAndValidate reads a JSON body into dest and runs validation.
func decodeAndValidate(r *http.Request, dest interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer io.Copy(io.Discard, body)

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return errors.NewValidationError("INVALID_JSON", "request body is not valid JSON").WithCause(err)
	}

	if err := validate.Struct(dest); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			ve := verrs[0]
			return errors.NewValidationError("INVALID_FIELD", "invalid field "+ve.Field()).
				WithDetails(map[string]interface{}{
					"field": ve.Field(),
					"rule":  ve.Tag(),
				})
		}
		return errors.NewValidationError("INVALID_REQUEST", "request failed validation").WithCause(err)
	}

	return nil
}
