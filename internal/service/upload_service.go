package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"idpportal/internal/confidence"
	"idpportal/internal/domain"
	"idpportal/internal/filecheck"
	"idpportal/internal/logger"
	"idpportal/internal/port"
	"idpportal/internal/processor"
	"idpportal/internal/progress"
	"idpportal/internal/result"
	"idpportal/internal/validator"
)

// UploadInput is the DTO for a document submission.
type UploadInput struct {
	File        io.Reader
	Name        string
	Size        int64
	ContentType string
}

// Session is a snapshot of everything the upload screen displays.
type Session struct {
	State      domain.UploadState `json:"state"`
	Alert      *domain.Alert      `json:"alert,omitempty"`
	SelectedID *uuid.UUID         `json:"selected_id,omitempty"`
	Uploads    int                `json:"uploads"`
}

// UploadService orchestrates document submission and holds the session's
// upload list, selection and notification banner.
type UploadService interface {
	Submit(ctx context.Context, input UploadInput) (*domain.UploadRecord, error)
	List() []*domain.UploadRecord
	Get(id uuid.UUID) (*domain.UploadRecord, error)
	Select(id uuid.UUID) error
	Selected() (*domain.UploadRecord, bool)
	Remove(id uuid.UUID) error
	State() domain.UploadState
	Alert() (*domain.Alert, bool)
	DismissAlert()
	Session() Session
	Confidence(id uuid.UUID) (*confidence.Report, error)
	Validation(id uuid.UUID) (*validator.Outcome, error)
}

// Options tunes the orchestrator.
type Options struct {
	MaxFileSizeMB    int64
	ProcessorTimeout time.Duration
	SecondaryTimeout time.Duration
	AlertDisplay     time.Duration
	Progress         progress.Config
	Clock            progress.Clock
}

const defaultAlertDisplay = 4 * time.Second

type uploadService struct {
	processor port.DocumentProcessor
	fetcher   port.ResultFetcher
	opts      Options
	clock     progress.Clock
	log       zerolog.Logger

	mu       sync.Mutex
	busy     bool
	phase    domain.UploadPhase
	progress progress.State
	active   *domain.UploadRecord
	category domain.FailureCategory
	records  []*domain.UploadRecord
	selected *uuid.UUID
	alert    *domain.Alert
}

// NewUploadService creates a new UploadService implementation.
func NewUploadService(
	proc port.DocumentProcessor,
	fetcher port.ResultFetcher,
	opts Options,
	log zerolog.Logger,
) UploadService {
	if opts.MaxFileSizeMB <= 0 {
		opts.MaxFileSizeMB = filecheck.DefaultMaxSizeMB
	}
	if opts.AlertDisplay <= 0 {
		opts.AlertDisplay = defaultAlertDisplay
	}
	clock := opts.Clock
	if clock == nil {
		clock = progress.SystemClock
	}
	return &uploadService{
		processor: proc,
		fetcher:   fetcher,
		opts:      opts,
		clock:     clock,
		log:       logger.Component(log, "upload_service"),
		phase:     domain.PhaseIdle,
	}
}

func (s *uploadService) Submit(ctx context.Context, input UploadInput) (*domain.UploadRecord, error) {
	rec, err := s.begin(input)
	if err != nil {
		return nil, err
	}

	submitCtx := ctx
	if s.opts.ProcessorTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, s.opts.ProcessorTimeout)
		defer cancel()
	}

	resp, err := s.processor.Submit(submitCtx, port.SubmitInput{
		File:        input.File,
		FileName:    input.Name,
		Size:        input.Size,
		ContentType: input.ContentType,
		SubmittedAt: s.clock.Now(),
	})
	if err != nil {
		return nil, s.fail(rec, err)
	}

	merged := s.attachSecondary(ctx, rec, normalizeResponse(resp))
	s.succeed(rec, merged)
	return rec, nil
}

// begin runs the busy guard and pre-flight checks, then enters Uploading.
func (s *uploadService) begin(input UploadInput) (*domain.UploadRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		s.log.Warn().Str("file", input.Name).Msg("upload rejected, another upload is in progress")
		return nil, domain.ErrAlreadyInProgress
	}

	info := domain.FileInfo{Name: input.Name, Size: input.Size, ContentType: input.ContentType}
	if err := filecheck.Check(info, s.opts.MaxFileSizeMB); err != nil {
		s.log.Info().
			Str("file", input.Name).
			Str("content_type", input.ContentType).
			Int64("size", input.Size).
			Err(err).
			Msg("file rejected before upload")
		s.resetLocked()
		s.showAlertLocked(domain.UserMessage(err), domain.AlertError)
		return nil, err
	}

	now := s.clock.Now()
	rec := &domain.UploadRecord{
		ID:          uuid.New(),
		Name:        input.Name,
		Size:        input.Size,
		ContentType: input.ContentType,
		CreatedAt:   now,
	}
	s.busy = true
	s.phase = domain.PhaseUploading
	s.progress = progress.Start(s.opts.Progress, now)
	s.active = rec
	s.category = domain.FailureNone

	s.log.Info().
		Str("upload_id", rec.ID.String()).
		Str("file", rec.Name).
		Str("size", filecheck.FormatSize(rec.Size)).
		Msg("upload started")
	return rec, nil
}

func (s *uploadService) fail(rec *domain.UploadRecord, cause error) error {
	category := processor.Classify(cause)
	uploadErr := &domain.UploadError{Category: category, Err: cause}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.busy = false
	s.phase = domain.PhaseFailed
	s.category = category
	s.showAlertLocked(category.Message(), domain.AlertError)

	s.log.Error().
		Str("upload_id", rec.ID.String()).
		Str("category", string(category)).
		Err(cause).
		Msg("upload failed")
	return uploadErr
}

func (s *uploadService) succeed(rec *domain.UploadRecord, merged *result.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Result = merged
	s.records = append(s.records, rec)
	id := rec.ID
	s.selected = &id
	s.busy = false
	s.phase = domain.PhaseSucceeded
	s.progress = progress.Complete(s.progress)
	s.showAlertLocked(domain.MsgUploadSucceeded, domain.AlertSuccess)

	s.log.Info().
		Str("upload_id", rec.ID.String()).
		Bool("secondary", !rec.SecondaryUnavailable()).
		Msg("upload succeeded")
}

// normalizeResponse wraps non-object responses so the merge keys have a home.
func normalizeResponse(resp *result.Node) *result.Node {
	if resp.IsObject() {
		return resp
	}
	if resp == nil {
		resp = result.Null()
	}
	return result.Object(result.KV("response", resp))
}

// attachSecondary fetches the document behind the presigned link and merges
// it into resp. A missing link or a failed fetch flags the result instead of
// failing the upload.
func (s *uploadService) attachSecondary(ctx context.Context, rec *domain.UploadRecord, resp *result.Node) *result.Node {
	recLog := s.log.With().Str("upload_id", rec.ID.String()).Logger()

	link, ok := presignedLink(resp)
	if !ok {
		recLog.Debug().Msg("no presigned link in response")
		return markUnavailable(resp)
	}
	if s.fetcher == nil {
		recLog.Warn().Msg("presigned link present but no fetcher configured")
		return markUnavailable(resp)
	}

	fetchCtx := ctx
	if s.opts.SecondaryTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.opts.SecondaryTimeout)
		defer cancel()
	}

	doc, err := s.fetcher.Fetch(fetchCtx, link)
	if err != nil {
		recLog.Warn().Err(fmt.Errorf("%w: %v", domain.ErrSecondaryFetch, err)).Msg("secondary result unavailable")
		return markUnavailable(resp)
	}
	return resp.Without(domain.ResultKeySecondaryUnavailable).With(domain.ResultKeySecondary, doc)
}

// markUnavailable flags resp as lacking a secondary document. A
// secondaryResult supplied by the processor itself is dropped.
func markUnavailable(resp *result.Node) *result.Node {
	return resp.Without(domain.ResultKeySecondary).With(domain.ResultKeySecondaryUnavailable, result.Bool(true))
}

func presignedLink(resp *result.Node) (string, bool) {
	v, ok := resp.Lookup(domain.PresignedURLPath...)
	if !ok {
		return "", false
	}
	link, ok := v.Str()
	if !ok || strings.TrimSpace(link) == "" {
		return "", false
	}
	return strings.TrimSpace(link), true
}

func (s *uploadService) List() []*domain.UploadRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.UploadRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *uploadService) Get(id uuid.UUID) (*domain.UploadRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, rec := s.findLocked(id)
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (s *uploadService) Select(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, rec := s.findLocked(id); rec == nil {
		return domain.ErrNotFound
	}
	s.selected = &id
	return nil
}

func (s *uploadService) Selected() (*domain.UploadRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return nil, false
	}
	_, rec := s.findLocked(*s.selected)
	return rec, rec != nil
}

func (s *uploadService) Remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, rec := s.findLocked(id)
	if rec == nil {
		return domain.ErrNotFound
	}
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	if s.selected != nil && *s.selected == id {
		s.selected = nil
	}
	s.log.Info().Str("upload_id", id.String()).Msg("upload removed")
	return nil
}

func (s *uploadService) findLocked(id uuid.UUID) (int, *domain.UploadRecord) {
	for i, rec := range s.records {
		if rec.ID == id {
			return i, rec
		}
	}
	return -1, nil
}

func (s *uploadService) State() domain.UploadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(s.clock.Now())
}

// resetLocked returns the orchestrator to Idle.
func (s *uploadService) resetLocked() {
	s.phase = domain.PhaseIdle
	s.category = domain.FailureNone
	s.active = nil
}

func (s *uploadService) stateLocked(now time.Time) domain.UploadState {
	// A failure lasts as long as its alert.
	if s.phase == domain.PhaseFailed && s.alert.Expired(now) {
		s.resetLocked()
	}
	st := domain.UploadState{
		Phase:    s.phase,
		Category: s.category,
	}
	if s.active != nil {
		active := *s.active
		st.Active = &active
	}
	switch s.phase {
	case domain.PhaseUploading:
		s.progress = progress.Next(s.progress, now)
		st.Progress = s.progress.Value
	case domain.PhaseSucceeded:
		st.Progress = 100
	case domain.PhaseFailed:
		st.Message = s.category.Message()
	}
	return st
}

func (s *uploadService) Alert() (*domain.Alert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alertLocked(s.clock.Now())
}

func (s *uploadService) alertLocked(now time.Time) (*domain.Alert, bool) {
	if s.alert.Expired(now) {
		s.alert = nil
		return nil, false
	}
	a := *s.alert
	return &a, true
}

func (s *uploadService) DismissAlert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alert = nil
}

// showAlertLocked replaces the current banner.
func (s *uploadService) showAlertLocked(msg string, typ domain.AlertType) {
	now := s.clock.Now()
	s.alert = &domain.Alert{
		Message:   msg,
		Type:      typ,
		ShownAt:   now,
		ExpiresAt: now.Add(s.opts.AlertDisplay),
	}
}

func (s *uploadService) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	sess := Session{
		State:   s.stateLocked(now),
		Uploads: len(s.records),
	}
	if a, ok := s.alertLocked(now); ok {
		sess.Alert = a
	}
	if s.selected != nil {
		id := *s.selected
		sess.SelectedID = &id
	}
	return sess
}

func (s *uploadService) Confidence(id uuid.UUID) (*confidence.Report, error) {
	rec, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	report := confidence.Analyze(confidence.ExplainabilityRoot(rec.DisplayDocument()))
	return &report, nil
}

// Validation checks the secondary document for the required fields. It
// returns nil when the record has no secondary document.
func (s *uploadService) Validation(id uuid.UUID) (*validator.Outcome, error) {
	rec, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	sec, ok := rec.SecondaryResult()
	if !ok {
		return nil, nil
	}
	outcome := validator.Validate(sec)
	return &outcome, nil
}
