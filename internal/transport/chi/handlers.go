package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	chiRouter "github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/mediacat/internal/domain"
	healthuc "github.com/kailas-cloud/mediacat/internal/usecase/health"
)

const (
	maxBodyBytes = 1 << 20
	// multipartOverhead is the room left for multipart headers on top of the upload limit.
	multipartOverhead = 64 << 10
	uploadField       = "file"
)

// Query handles GET /query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	params, err := bindQueryParams(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	req, err := params.toRequest(s.limits)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page, err := s.query.Query(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(&page))
}

// GetRecord handles GET /records/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	rec, err := s.records.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(&rec))
}

// CreateRecord handles POST /records.
func (s *Server) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var body RecordBody
	if !decodeBody(w, r, &body) {
		return
	}
	rec, err := s.records.Create(r.Context(), body.toFields())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, recordToResponse(&rec))
}

// UpdateRecord handles PUT and PATCH /records/{id}. Both merge the body into the stored record.
func (s *Server) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	var body RecordBody
	if !decodeBody(w, r, &body) {
		return
	}
	p, err := body.toPatch()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	rec, err := s.records.Update(r.Context(), id, p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(&rec))
}

// DeleteRecord handles DELETE /records/{id}.
func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	if err := s.records.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "record deleted"})
}

// Home handles GET /home.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	sections, err := s.home.Buckets(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sectionsToResponse(sections))
}

// Upload handles POST /upload. The file part is streamed to disk without buffering the form.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	if s.uploads == nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "uploads are disabled")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.uploads.MaxBytes()+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "expected multipart/form-data body")
		return
	}
	part, err := nextFilePart(mr)
	if err != nil {
		s.handleDomainError(w, r, uploadError(err))
		return
	}
	defer func() { _ = part.Close() }()

	stored, err := s.uploads.Save(r.Context(), part.FileName(), part)
	if err != nil {
		s.handleDomainError(w, r, uploadError(err))
		return
	}
	writeJSON(w, http.StatusOK, UploadResponse{
		Message: "File uploaded successfully",
		URL:     s.uploads.PublicURL(stored.Name, requestBase(r)),
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthToResponse(report))
}

func nextFilePart(mr *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrEmptyUpload
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == uploadField {
			return part, nil
		}
		_ = part.Close()
	}
}

// uploadError folds body-limit failures into the domain sentinel.
func uploadError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return fmt.Errorf("%w: limit %d bytes", domain.ErrPayloadTooLarge, mbe.Limit)
	}
	return err
}

func requestBase(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

func recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chiRouter.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid record id %q", raw))
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return false
	}
	return true
}
