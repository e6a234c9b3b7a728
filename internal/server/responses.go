package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/janasena/aadhaar-intake/internal/common"
	"github.com/janasena/aadhaar-intake/internal/extract"
	"github.com/janasena/aadhaar-intake/internal/repository"
)

type PersonResponse struct {
	ID            string `json:"id"`
	AadhaarNumber string `json:"aadhaar_number"`
	FullName      string `json:"full_name"`
	Gender        string `json:"gender"`
	DOB           string `json:"dob"`
	MobileNumber  string `json:"mobile_number"`
	Pincode       string `json:"pincode"`
	ImageURL      string `json:"aadhaar_image_url,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type OCRResponse struct {
	JobID     string          `json:"job_id"`
	OCRResult extract.Fields  `json:"ocr_result"`
	Person    *PersonResponse `json:"person,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func toPersonResponse(p *repository.Person) *PersonResponse {
	if p == nil {
		return nil
	}
	return &PersonResponse{
		ID:            p.ID,
		AadhaarNumber: p.AadhaarNumber,
		FullName:      p.FullName,
		Gender:        p.Gender,
		DOB:           p.DOB,
		MobileNumber:  p.MobileNumber,
		Pincode:       p.Pincode,
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeJSON(w, common.HTTPStatus(err), errorResponse{
		Error:     err.Error(),
		RequestID: GetRequestID(r.Context()),
	})
}
