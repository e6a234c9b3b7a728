package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/janasena/aadhaar-intake/constants"
	"github.com/janasena/aadhaar-intake/internal/common"
	"github.com/janasena/aadhaar-intake/internal/extract"
	"github.com/janasena/aadhaar-intake/internal/ocr"
	"github.com/janasena/aadhaar-intake/internal/pipeline"
	"github.com/janasena/aadhaar-intake/internal/repository"
)

const maxUploadBytes = 10 << 20

var reAadhaarDigits = regexp.MustCompile(`^[2-9]\d{11}$`)

// Intake is the slice of the pipeline the HTTP layer needs.
type Intake interface {
	Run(ctx context.Context, image []byte, filename, imageURL string, save bool) (pipeline.Result, error)
}

// Exporter produces the persons workbook.
type Exporter interface {
	ExportPersonsXLSX(ctx context.Context) ([]byte, error)
}

// HealthChecker reports whether the database answers.
type HealthChecker interface {
	HealthCheck(ctx context.Context, timeout time.Duration) error
}

type Handler struct {
	intake   Intake
	persons  repository.PersonRepository
	exporter Exporter
	health   HealthChecker
	fetcher  *http.Client
	logger   *slog.Logger
}

func NewHandler(intake Intake, persons repository.PersonRepository, exporter Exporter, health HealthChecker, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		intake:   intake,
		persons:  persons,
		exporter: exporter,
		health:   health,
		fetcher:  &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/ocr/aadhaar", h.HandleOCRAadhaar)
	r.Post("/person/submit", h.HandleSubmitPerson)
	r.Get("/person/by-aadhaar/{aadhaar_number}", h.HandleGetPerson)
	r.Delete("/person/by-aadhaar/{aadhaar_number}", h.HandleDeletePerson)
	r.Get("/persons/export", h.HandleExportPersons)
	r.Get("/healthz", h.HandleHealthz)
}

// NewRouter wires the middleware stack around the registered routes.
func NewRouter(h *Handler, corsOrigin string, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(logger))
	r.Use(CORS(corsOrigin))
	h.Register(r)
	return r
}

// HandleOCRAadhaar runs one image through the intake pipeline. The image
// arrives either as a multipart "file" part or as an image_url parameter;
// save=true additionally upserts the extracted person.
func (h *Handler) HandleOCRAadhaar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	image, filename, imageURL, err := h.readImage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	save := boolParam(r, "save")

	res, err := h.intake.Run(ctx, image, filename, imageURL, save)
	if err != nil {
		h.logger.ErrorContext(ctx, "ocr intake failed", "error", err, "request_id", GetRequestID(ctx), "filename", filename)
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &OCRResponse{
		JobID:     res.JobID.String(),
		OCRResult: res.Fields,
		Person:    toPersonResponse(res.Person),
	})
}

type submitPersonRequest struct {
	AadhaarNumber string `json:"aadhaar_number"`
	FullName      string `json:"full_name"`
	Gender        string `json:"gender"`
	DOB           string `json:"dob"`
	MobileNumber  string `json:"mobile_number"`
	Pincode       string `json:"pincode"`
	ImageURL      string `json:"aadhaar_image_url"`
}

// HandleSubmitPerson upserts a manually reviewed record.
func (h *Handler) HandleSubmitPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitPersonRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, r, common.NewAppError("PERSON_SUBMIT", "invalid JSON body", common.ErrInvalidInput))
		return
	}

	key := extract.NormalizeAadhaar(req.AadhaarNumber)
	if !reAadhaarDigits.MatchString(key) {
		writeError(w, r, common.NewAppError("PERSON_SUBMIT", "aadhaar_number must be 12 digits and not start with 0 or 1", common.ErrInvalidInput))
		return
	}

	person, err := h.persons.Upsert(ctx, &repository.Person{
		AadhaarNumber: key,
		FullName:      req.FullName,
		Gender:        req.Gender,
		DOB:           req.DOB,
		MobileNumber:  req.MobileNumber,
		Pincode:       req.Pincode,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "submit person failed", "error", err, "request_id", GetRequestID(ctx))
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonResponse(person))
}

func (h *Handler) HandleGetPerson(w http.ResponseWriter, r *http.Request) {
	key := extract.NormalizeAadhaar(chi.URLParam(r, "aadhaar_number"))
	person, err := h.persons.GetByAadhaar(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonResponse(person))
}

func (h *Handler) HandleDeletePerson(w http.ResponseWriter, r *http.Request) {
	key := extract.NormalizeAadhaar(chi.URLParam(r, "aadhaar_number"))
	if err := h.persons.Delete(r.Context(), key); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleExportPersons streams every stored person as an XLSX attachment.
func (h *Handler) HandleExportPersons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, err := h.exporter.ExportPersonsXLSX(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "persons export failed", "error", err, "request_id", GetRequestID(ctx))
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="persons-%s.xlsx"`, time.Now().UTC().Format("20060102-150405")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.health.HealthCheck(r.Context(), 2*time.Second); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readImage resolves the request image from the multipart "file" part or,
// failing that, downloads the image_url parameter.
func (h *Handler) readImage(r *http.Request) (image []byte, filename, imageURL string, err error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err == nil {
		if file, header, ferr := r.FormFile("file"); ferr == nil {
			defer file.Close()
			if !constants.IsAllowedExt(filepath.Ext(header.Filename)) {
				return nil, "", "", common.NewAppError("OCR_UPLOAD",
					fmt.Sprintf("unsupported file type %q", header.Filename), common.ErrInvalidInput)
			}
			data, rerr := io.ReadAll(io.LimitReader(file, maxUploadBytes))
			if rerr != nil {
				return nil, "", "", common.WrapError(common.ErrInvalidInput, rerr.Error())
			}
			return data, header.Filename, formOrQuery(r, "image_url"), nil
		}
	}

	imageURL = formOrQuery(r, "image_url")
	if imageURL == "" {
		return nil, "", "", common.NewAppError("OCR_UPLOAD", "provide a file upload or an image_url", common.ErrInvalidInput)
	}
	data, err := ocr.FetchImage(r.Context(), h.fetcher, imageURL)
	if err != nil {
		return nil, "", "", err
	}
	return data, imageURL, imageURL, nil
}

func formOrQuery(r *http.Request, key string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return r.URL.Query().Get(key)
}

func boolParam(r *http.Request, key string) bool {
	v := formOrQuery(r, key)
	return v == "true" || v == "1"
}
