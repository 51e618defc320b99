package statements

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lpellecer/quetzal/internal/statement"
)

type jobStatus string

const (
	jobPending jobStatus = "pending"
	jobRunning jobStatus = "running"
	jobDone    jobStatus = "done"
)

type fileResult struct {
	Filename     string `json:"filename"`
	Imported     int    `json:"imported"`
	Duplicates   int    `json:"duplicates"`
	SkippedLines int    `json:"skipped_lines"`
	UsedOCR      bool   `json:"used_ocr"`
	Error        string `json:"error,omitempty"`
}

type job struct {
	ID        uuid.UUID    `json:"id"`
	Status    jobStatus    `json:"status"`
	Files     []fileResult `json:"files"`
	CreatedAt time.Time    `json:"created_at"`
}

type jobRegistry struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*job
}

func newJobRegistry() *jobRegistry {
	return &jobRegistry{jobs: make(map[uuid.UUID]*job)}
}

func (r *jobRegistry) create(files int) *job {
	j := &job{
		ID:        uuid.New(),
		Status:    jobPending,
		Files:     make([]fileResult, files),
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	r.jobs[j.ID] = j
	r.mu.Unlock()

	return j
}

func (r *jobRegistry) get(id uuid.UUID) (job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return job{}, false
	}

	// Copy under the lock so the caller never sees a job mid-update.
	snapshot := *j
	snapshot.Files = make([]fileResult, len(j.Files))
	copy(snapshot.Files, j.Files)

	return snapshot, true
}

func (r *jobRegistry) setStatus(id uuid.UUID, status jobStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if j, ok := r.jobs[id]; ok {
		j.Status = status
	}
}

func (r *jobRegistry) setFile(id uuid.UUID, idx int, res fileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if j, ok := r.jobs[id]; ok {
		j.Files[idx] = res
	}
}

type savedUpload struct {
	path     string
	filename string
}

// createJob accepts a batch of statements for one account and parses them in
// the background. The response carries the job id to poll.
func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	params, err := uploadParamsFrom(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Reject an unknown bank/account pair before accepting the job.
	if _, err := statement.Get(params.bank, params.account); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		http.Error(w, "files field is required", http.StatusBadRequest)
		return
	}

	// The server deletes the multipart temp files when this handler
	// returns, so copy every upload aside first.
	uploads := make([]savedUpload, 0, len(headers))

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			removeUploads(uploads)
			http.Error(w, "internal error", http.StatusInternalServerError)

			return
		}

		path, err := saveUpload(f)
		f.Close()

		if err != nil {
			removeUploads(uploads)
			http.Error(w, "internal error", http.StatusInternalServerError)

			return
		}

		uploads = append(uploads, savedUpload{path: path, filename: fh.Filename})
	}

	j := h.jobs.create(len(uploads))

	go h.runJob(j.ID, uploads, params)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)

	if err := json.NewEncoder(w).Encode(j); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// runJob processes the batch, one goroutine per file. Files are independent
// statements; the import transaction's advisory lock serializes any overlap.
func (h *Handler) runJob(id uuid.UUID, uploads []savedUpload, params uploadParams) {
	h.jobs.setStatus(id, jobRunning)

	var wg sync.WaitGroup

	for i, u := range uploads {
		wg.Add(1)

		go func() {
			defer wg.Done()
			defer os.Remove(u.path)

			res := fileResult{Filename: u.filename}

			out, err := h.process(context.Background(), u.path, u.filename, params)
			if err != nil {
				slog.Error("statement job file failed",
					"job", id, "file", u.filename, "error", err)

				res.Error = err.Error()
				h.jobs.setFile(id, i, res)

				return
			}

			res.Imported = len(out.imported)
			res.Duplicates = out.duplicates
			res.SkippedLines = out.skippedLines
			res.UsedOCR = out.usedOCR
			h.jobs.setFile(id, i, res)
		}()
	}

	wg.Wait()
	h.jobs.setStatus(id, jobDone)
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	j, ok := h.jobs.get(id)
	if !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(j); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func removeUploads(uploads []savedUpload) {
	for _, u := range uploads {
		os.Remove(u.path)
	}
}
