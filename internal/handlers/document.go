package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/xelth-com/invoiceflow/internal/models"
)

// uploadDocument accepts a multipart invoice upload and starts the pipeline
func (r *Router) uploadDocument(w http.ResponseWriter, req *http.Request) {
	maxBytes := int64(r.cfg.Storage.MaxUploadMB) * 1024 * 1024
	req.Body = http.MaxBytesReader(w, req.Body, maxBytes+4096)

	file, header, err := req.FormFile("file")
	if err != nil {
		// The limit fires inside the multipart parse, not in ReadAll below
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file too large (>%dMB)", r.cfg.Storage.MaxUploadMB))
			return
		}
		respondError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		respondError(w, http.StatusBadRequest, "missing filename")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file too large (>%dMB)", r.cfg.Storage.MaxUploadMB))
		return
	}
	if int64(len(data)) > maxBytes {
		respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file too large (>%dMB)", r.cfg.Storage.MaxUploadMB))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// PDF is recognized by magic bytes too, MIME types from browsers lie
	isPDF := bytes.HasPrefix(data, []byte("%PDF")) || contentType == "application/pdf"
	isImage := strings.HasPrefix(contentType, "image/")
	if !isPDF && !isImage {
		respondError(w, http.StatusUnsupportedMediaType,
			fmt.Sprintf("unsupported file type: %s (expected PDF or PNG/JPEG/GIF/WEBP/TIFF/BMP)", contentType))
		return
	}

	docID, err := r.svc.CreateDocument(header.Filename, contentType, data)
	if err != nil {
		log.Printf("❌ Upload failed: %v", err)
		respondTypedError(w, err)
		return
	}

	log.Printf("📄 Document %d uploaded: %s (%s, %d bytes)", docID, header.Filename, contentType, len(data))
	respondJSON(w, http.StatusCreated, map[string]uint{"document_id": docID})
}

// getDocument returns the read-only status projection of one document
func (r *Router) getDocument(w http.ResponseWriter, req *http.Request) {
	docID, ok := pathID(w, req)
	if !ok {
		return
	}

	view, err := r.svc.GetDocument(docID)
	if err != nil {
		respondTypedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// saveDocument accepts the user-confirmed (possibly edited) record and
// materializes the sales order. Calling it again creates another order.
func (r *Router) saveDocument(w http.ResponseWriter, req *http.Request) {
	docID, ok := pathID(w, req)
	if !ok {
		return
	}

	var payload models.ExtractedInvoice
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	orderID, err := r.svc.SaveOrder(docID, &payload)
	if err != nil {
		respondTypedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]uint{"sales_order_id": orderID})
}

// pathID extracts the numeric {id} route variable
func pathID(w http.ResponseWriter, req *http.Request) (uint, bool) {
	raw := mux.Vars(req)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
