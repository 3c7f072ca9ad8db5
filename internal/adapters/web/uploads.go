package web

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxUploadSize    = 10 << 20 // 10 MB
	maxUploadFiles   = 5
	// Proofs must outlive the longest draft session (2h TTL).
	uploadCleanupAge = 3 * time.Hour
)

// allowedMIMETypes is the whitelist for uploaded proof documents.
var allowedMIMETypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// uploadProof handles POST /api/uploads — saves a receipt or invoice document
// and returns its proof reference for use as a line item's proof_ref.
func (h *Handler) uploadProof(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize*maxUploadFiles)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, r, "request too large or malformed", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeError(w, r, "no file provided", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if len(files) > maxUploadFiles {
		writeError(w, r, fmt.Sprintf("too many files (max %d)", maxUploadFiles), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	type proofInfo struct {
		ProofRef  string `json:"proof_ref"`
		Filename  string `json:"filename"`
		FileType  string `json:"file_type"`
		SizeBytes int64  `json:"size_bytes"`
	}

	var results []proofInfo

	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, r, "failed to open uploaded file", "INTERNAL_ERROR", http.StatusInternalServerError)
			return
		}

		// Read header bytes for MIME detection.
		header := make([]byte, 512)
		n, _ := f.Read(header)
		mimeType := strings.ToLower(strings.TrimSpace(http.DetectContentType(header[:n])))

		if !allowedMIMETypes[mimeType] {
			f.Close()
			writeError(w, r, fmt.Sprintf("file type %q not allowed; accepted: jpeg, png, webp, pdf", mimeType),
				"UNSUPPORTED_TYPE", http.StatusUnsupportedMediaType)
			return
		}

		// Seek back and read full content.
		if seeker, ok := f.(io.ReadSeeker); ok {
			seeker.Seek(0, io.SeekStart)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, r, "failed to read uploaded file", "INTERNAL_ERROR", http.StatusInternalServerError)
			return
		}
		if int64(len(data)) > maxUploadSize {
			writeError(w, r, fmt.Sprintf("file exceeds maximum size of %d MB", maxUploadSize>>20),
				"FILE_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return
		}

		// Save to upload directory with UUID filename.
		proofRef := uuid.NewString()
		destPath := filepath.Join(h.uploadDir, proofRef)
		if err := os.WriteFile(destPath, data, 0600); err != nil {
			writeError(w, r, "failed to save uploaded file", "INTERNAL_ERROR", http.StatusInternalServerError)
			return
		}

		results = append(results, proofInfo{
			ProofRef:  proofRef,
			Filename:  fh.Filename,
			FileType:  mimeType,
			SizeBytes: int64(len(data)),
		})
	}

	writeJSON(w, results)
}

// startUploadCleanup runs a background goroutine that deletes uploaded files
// older than uploadCleanupAge every 10 minutes.
func (h *Handler) startUploadCleanup() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			entries, err := os.ReadDir(h.uploadDir)
			if err != nil {
				continue
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				info, err := entry.Info()
				if err != nil {
					continue
				}
				if time.Since(info.ModTime()) > uploadCleanupAge {
					os.Remove(filepath.Join(h.uploadDir, entry.Name()))
				}
			}
		}
	}()
}
