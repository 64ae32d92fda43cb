package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/imageprobe"
	"tkphotos/internal/lib/slug"
	"tkphotos/internal/metrics"
	"tkphotos/internal/storage"
	filestorage "tkphotos/internal/storage/filestorage"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

type State int

const (
	StateIdle State = iota
	StateUploading
	StateUploaded
	StatePersisting
	StateDone
	StatePartialFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUploading:
		return "uploading"
	case StateUploaded:
		return "uploaded"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	case StatePartialFailure:
		return "partial_failure"
	}
	return "unknown"
}

var (
	ErrInvalidState     = errors.New("operation not allowed in current session state")
	ErrNothingToUpload  = errors.New("no files to upload")
	ErrNothingToPersist = errors.New("no uploaded files to save")
)

type FileStatus string

const (
	FilePending  FileStatus = "pending"
	FileUploaded FileStatus = "uploaded"
	FileFailed   FileStatus = "failed"
)

type Limits struct {
	MaxFiles    int
	MaxFileSize int64
	Allowed     []string
}

func DefaultLimits() Limits {
	return Limits{
		MaxFiles:    10,
		MaxFileSize: 10 << 20,
		Allowed:     []string{"image/*"},
	}
}

// Candidate is a file offered to a session. Open is only called during Add.
type Candidate struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

type Rejection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type file struct {
	name   string
	size   int64
	mime   string
	data   []byte
	status FileStatus
	key    string
	url    string
	width  int
	height int
	typ    string
	err    string
}

type FileView struct {
	Name   string     `json:"name"`
	Size   int64      `json:"size"`
	MIME   string     `json:"mime"`
	Status FileStatus `json:"status"`
	URL    string     `json:"url,omitempty"`
	Width  int        `json:"width,omitempty"`
	Height int        `json:"height,omitempty"`
	Error  string     `json:"error,omitempty"`
}

type View struct {
	ID        string     `json:"id"`
	GalleryID int64      `json:"gallery_id"`
	State     string     `json:"state"`
	Files     []FileView `json:"files"`
	CreatedAt time.Time  `json:"created_at"`
}

type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyPartial NotificationLevel = "partial"
	NotifyError   NotificationLevel = "error"
)

type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
	File    string            `json:"file,omitempty"`
}

type PersistReport struct {
	Saved         []models.Photo `json:"saved"`
	Failed        []Rejection    `json:"failed"`
	Notifications []Notification `json:"notifications"`
	// Done tells the client the dialog can close.
	Done  bool   `json:"done"`
	State string `json:"state"`
}

// ObjectStore is the part of the file storage an upload needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (filestorage.Object, error)
}

type PhotoCreator interface {
	CreatePhoto(ctx context.Context, photo models.Photo) (models.Photo, error)
}

// Session tracks one batch of files for a gallery through
// Idle -> Uploading -> Uploaded -> Persisting -> Done | PartialFailure.
type Session struct {
	ID        string
	GalleryID int64
	CreatedAt time.Time

	limits Limits

	mu    sync.Mutex
	state State
	files map[string]*file
	order []string
}

func newSession(id string, galleryID int64, limits Limits) *Session {
	return &Session{
		ID:        id,
		GalleryID: galleryID,
		CreatedAt: time.Now(),
		limits:    limits,
		state:     StateIdle,
		files:     make(map[string]*file),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Add filters candidates by sniffed MIME type, size and count. A name already
// in the session replaces the earlier entry unless it was uploaded.
func (s *Session) Add(candidates []Candidate) ([]Rejection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateIdle, StateUploaded, StatePartialFailure:
	default:
		return nil, ErrInvalidState
	}

	var rejected []Rejection
	for _, c := range candidates {
		existing, replacing := s.files[c.Name]
		if replacing && existing.status == FileUploaded {
			rejected = append(rejected, Rejection{Name: c.Name, Reason: "file already uploaded"})
			continue
		}
		if !replacing && len(s.files) >= s.limits.MaxFiles {
			rejected = append(rejected, Rejection{Name: c.Name, Reason: fmt.Sprintf("too many files, max %d", s.limits.MaxFiles)})
			continue
		}

		f, reason := s.read(c)
		if reason != "" {
			rejected = append(rejected, Rejection{Name: c.Name, Reason: reason})
			continue
		}

		if !replacing {
			s.order = append(s.order, c.Name)
		}
		s.files[c.Name] = f
	}

	return rejected, nil
}

func (s *Session) read(c Candidate) (*file, string) {
	if c.Size > s.limits.MaxFileSize {
		return nil, storage.ErrFileTooLarge.Error()
	}

	rc, err := c.Open()
	if err != nil {
		return nil, "cannot read file"
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, s.limits.MaxFileSize+1))
	if err != nil {
		return nil, "cannot read file"
	}
	if int64(len(data)) > s.limits.MaxFileSize {
		return nil, storage.ErrFileTooLarge.Error()
	}
	if len(data) == 0 {
		return nil, "file is empty"
	}

	mtype := mimetype.Detect(data)
	if !allowed(mtype, s.limits.Allowed) {
		return nil, storage.ErrInvalidFileType.Error() + ": " + baseType(mtype.String())
	}

	return &file{
		name:   c.Name,
		size:   int64(len(data)),
		mime:   baseType(mtype.String()),
		data:   data,
		status: FilePending,
	}, ""
}

func allowed(mtype *mimetype.MIME, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	detected := baseType(mtype.String())
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "/*"); ok {
			if strings.HasPrefix(detected, prefix+"/") {
				return true
			}
			continue
		}
		if mtype.Is(p) {
			return true
		}
	}
	return false
}

func baseType(m string) string {
	t, _, _ := strings.Cut(m, ";")
	return strings.TrimSpace(t)
}

type transfer struct {
	f    *file
	key  string
	data []byte
	mime string
}

// Upload stores every pending or failed file under <gallery_id>/<filename>
// and then reads dimensions from the local bytes. Per-file failures stay on
// the file; the session always ends in Uploaded.
func (s *Session) Upload(ctx context.Context, store ObjectStore) error {
	s.mu.Lock()
	switch s.state {
	case StateIdle, StateUploaded, StatePartialFailure:
	default:
		s.mu.Unlock()
		return ErrInvalidState
	}

	var work []transfer
	for _, name := range s.order {
		f := s.files[name]
		if f.status == FileUploaded {
			continue
		}
		work = append(work, transfer{
			f:    f,
			key:  fmt.Sprintf("%d/%s", s.GalleryID, slug.SanitizeFilename(f.name)),
			data: f.data,
			mime: f.mime,
		})
	}
	if len(work) == 0 {
		s.mu.Unlock()
		return ErrNothingToUpload
	}
	s.state = StateUploading
	s.mu.Unlock()

	var stored []transfer
	for _, w := range work {
		obj, err := store.Put(ctx, w.key, bytes.NewReader(w.data), int64(len(w.data)), w.mime)

		s.mu.Lock()
		if err != nil {
			w.f.status = FileFailed
			w.f.err = err.Error()
			metrics.UploadFiles.WithLabelValues("stored", "error").Inc()
		} else {
			w.f.status = FileUploaded
			w.f.err = ""
			w.f.key = obj.Key
			w.f.url = obj.URL
			w.f.width, w.f.height = obj.Width, obj.Height
			stored = append(stored, w)
			metrics.UploadFiles.WithLabelValues("stored", "ok").Inc()
		}
		s.mu.Unlock()
	}

	s.probe(ctx, stored)

	s.mu.Lock()
	s.state = StateUploaded
	s.mu.Unlock()

	return nil
}

// probe waits for every probe; a failed probe leaves the dimensions unset.
func (s *Session) probe(ctx context.Context, stored []transfer) {
	g, _ := errgroup.WithContext(ctx)
	for _, w := range stored {
		g.Go(func() error {
			res, err := imageprobe.Decode(bytes.NewReader(w.data))

			s.mu.Lock()
			defer s.mu.Unlock()
			if err == nil && !res.Empty() && w.f.width == 0 {
				w.f.width, w.f.height, w.f.typ = res.Width, res.Height, res.Type
			}
			w.f.data = nil
			return nil
		})
	}
	_ = g.Wait()
}

// Persist creates one photo record per uploaded file, one at a time. Saved
// files leave the session so a retry never duplicates a record.
func (s *Session) Persist(ctx context.Context, creator PhotoCreator) (PersistReport, error) {
	s.mu.Lock()
	switch s.state {
	case StateUploaded, StatePartialFailure:
	default:
		s.mu.Unlock()
		return PersistReport{}, ErrInvalidState
	}

	var pending []*file
	for _, name := range s.order {
		if f := s.files[name]; f.status == FileUploaded {
			pending = append(pending, f)
		}
	}
	if len(pending) == 0 {
		s.mu.Unlock()
		return PersistReport{}, ErrNothingToPersist
	}
	s.state = StatePersisting
	s.mu.Unlock()

	report := PersistReport{Saved: []models.Photo{}, Failed: []Rejection{}}
	for _, f := range pending {
		photo, err := creator.CreatePhoto(ctx, s.photoFor(f))
		if err != nil {
			report.Failed = append(report.Failed, Rejection{Name: f.name, Reason: err.Error()})
			metrics.UploadFiles.WithLabelValues("persisted", "error").Inc()
			continue
		}
		report.Saved = append(report.Saved, photo)
		metrics.UploadFiles.WithLabelValues("persisted", "ok").Inc()

		s.mu.Lock()
		s.remove(f.name)
		s.mu.Unlock()
	}

	report.Notifications = notifications(report)

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(report.Failed) == 0 && len(s.files) == 0 {
		s.state = StateDone
		report.Done = true
	} else {
		s.state = StatePartialFailure
	}
	report.State = s.state.String()

	return report, nil
}

func (s *Session) photoFor(f *file) models.Photo {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := models.Photo{
		Filename:   slug.SanitizeFilename(f.name),
		StorageKey: f.url,
		GalleryID:  s.GalleryID,
	}
	if f.width > 0 && f.height > 0 {
		p.Metadata = models.Metadata{}.WithDimensions(f.width, f.height, f.typ)
	}
	return p
}

func (s *Session) remove(name string) {
	delete(s.files, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func notifications(r PersistReport) []Notification {
	var out []Notification
	switch {
	case len(r.Failed) == 0:
		out = append(out, Notification{Level: NotifySuccess, Message: fmt.Sprintf("Saved %d photo(s)", len(r.Saved))})
	case len(r.Saved) > 0:
		out = append(out, Notification{
			Level:   NotifyPartial,
			Message: fmt.Sprintf("Saved %d of %d photos", len(r.Saved), len(r.Saved)+len(r.Failed)),
		})
	}
	for _, f := range r.Failed {
		out = append(out, Notification{Level: NotifyError, Message: "Failed to save " + f.Name + ": " + f.Reason, File: f.Name})
	}
	return out
}

// orphans lists objects that were stored but never got a photo record.
func (s *Session) orphans() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for _, name := range s.order {
		if f := s.files[name]; f.status == FileUploaded {
			keys = append(keys, f.key)
		}
	}
	return keys
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:        s.ID,
		GalleryID: s.GalleryID,
		State:     s.state.String(),
		Files:     make([]FileView, 0, len(s.order)),
		CreatedAt: s.CreatedAt,
	}
	for _, name := range s.order {
		f := s.files[name]
		v.Files = append(v.Files, FileView{
			Name:   f.name,
			Size:   f.size,
			MIME:   f.mime,
			Status: f.status,
			URL:    f.url,
			Width:  f.width,
			Height: f.height,
			Error:  f.err,
		})
	}
	return v
}
