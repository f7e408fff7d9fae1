package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"siteval/api/internal/assets"
	"siteval/api/internal/draft"
	"siteval/api/internal/history"
	"siteval/api/internal/prefill"
	"siteval/api/internal/schema"
	"siteval/api/internal/search"
	"siteval/api/internal/store"
	"siteval/api/internal/validate"
	"siteval/api/internal/workflow"
)

// Session identifies the caller for one request.
type Session struct {
	UserID   string
	UserName string
	Role     workflow.Role
}

// EditorState is the full editing surface for one record: the flat field
// view, custom fields, line items, and the asset lists. It is what Open
// returns and what a successful Submit hands back with every asset
// persisted.
type EditorState struct {
	RecordID      string                  `json:"recordId"`
	Status        workflow.Status         `json:"status"`
	Feedback      string                  `json:"feedback,omitempty"`
	Fields        schema.FlatFieldSet     `json:"fields"`
	Custom        []schema.CustomField    `json:"customFields,omitempty"`
	Items         []schema.ValuationItem  `json:"valuationItems,omitempty"`
	Photos        []assets.Ref            `json:"photos,omitempty"`
	LocationPhoto []assets.Ref            `json:"locationPhoto,omitempty"`
	Documents     []assets.Ref            `json:"documents,omitempty"`
	AreaPhotos    map[string][]assets.Ref `json:"areaPhotos,omitempty"`
	IsNew         bool                    `json:"isNew"`
	UpdatedAt     time.Time               `json:"updatedAt,omitempty"`
}

// SubmitInput is the editing state handed to Submit.
type SubmitInput struct {
	RecordID      string
	Fields        schema.FlatFieldSet
	Custom        []schema.CustomField
	Items         []schema.ValuationItem
	Photos        []assets.Ref
	LocationPhoto []assets.Ref
	Documents     []assets.Ref
	AreaPhotos    map[string][]assets.Ref
}

type recordStore interface {
	GetRecord(ctx context.Context, id string) (schema.Record, error)
	SaveRecord(ctx context.Context, id string, rec schema.Record) (store.SaveResult, error)
	SetStatus(ctx context.Context, id, status, feedback string) (schema.Record, error)
	ListRecords(ctx context.Context, limit int) ([]store.Summary, error)
	Ping(ctx context.Context) error
}

type draftStore interface {
	SaveDraft(ctx context.Context, userID string, snap draft.Snapshot) error
	LoadDraft(ctx context.Context, userID string) (draft.Snapshot, error)
	ClearDraft(ctx context.Context, userID string) error
	SaveSeed(ctx context.Context, seed draft.Seed) error
	LoadSeed(ctx context.Context) (draft.Seed, error)
}

type assetResolver interface {
	Resolve(ctx context.Context, ownerID string, in assets.Input) (assets.Output, error)
}

type historyKeeper interface {
	Commit(recordID string, payload []byte, author, message string) (history.CommitInfo, error)
	History(recordID string, limit int) ([]history.CommitInfo, error)
	PayloadAt(recordID, hash string) ([]byte, error)
}

type searchIndex interface {
	Search(ctx context.Context, q search.Query) search.Response
	IndexRecord(doc search.RecordDoc)
}

// Service implements the record lifecycle: open with draft and seed
// recovery, submit with upload resolution and validation, and review.
type Service struct {
	records recordStore
	drafts  draftStore
	assets  assetResolver
	history historyKeeper
	search  searchIndex
}

func NewService(records recordStore, drafts draftStore, resolver assetResolver, hist historyKeeper, idx searchIndex) *Service {
	return &Service{
		records: records,
		drafts:  drafts,
		assets:  resolver,
		history: hist,
		search:  idx,
	}
}

// Open loads the editing state for a record. A record that does not exist
// yet opens as a new one: defaults, prefillled from the last-record seed
// when one is available. In both cases the caller's own draft is overlaid
// afterwards, but only if it was taken against this record; a draft for a
// different record is stale and ignored.
func (s *Service) Open(ctx context.Context, session Session, recordID string) (EditorState, error) {
	state, err := s.baseState(ctx, recordID)
	if err != nil {
		return EditorState{}, err
	}

	snap, err := s.drafts.LoadDraft(ctx, session.UserID)
	if err == nil && snap.RecordID == recordID {
		if snap.Fields != nil {
			state.Fields = snap.Fields
		}
		state.Custom = snap.Custom
	} else if err != nil && !errors.Is(err, draft.ErrNotFound) {
		log.Printf("open %s: draft load failed, continuing without: %v", recordID, err)
	}
	return state, nil
}

func (s *Service) baseState(ctx context.Context, recordID string) (EditorState, error) {
	rec, err := s.records.GetRecord(ctx, recordID)
	if errors.Is(err, store.ErrNotFound) {
		return s.newState(ctx, recordID), nil
	}
	if err != nil {
		return EditorState{}, fmt.Errorf("open record %s: %w", recordID, err)
	}

	return EditorState{
		RecordID:      recordID,
		Status:        workflow.Normalize(rec.Status),
		Feedback:      rec.Feedback,
		Fields:        schema.ToFlat(rec),
		Custom:        schema.CloneCustomFields(rec.Custom),
		Items:         rec.Items,
		Photos:        assets.FromStoredList(rec.Assets.Photos),
		LocationPhoto: assets.FromStoredList(rec.Assets.LocationPhoto),
		Documents:     assets.FromStoredList(rec.Assets.Documents),
		AreaPhotos:    refsFromStoredMap(rec.Assets.AreaPhotos),
		UpdatedAt:     rec.UpdatedAt,
	}, nil
}

// newState builds the editing state for a record that has never been
// saved. The seed is a convenience, never a requirement: any failure to
// load it leaves plain defaults.
func (s *Service) newState(ctx context.Context, recordID string) EditorState {
	fields := schema.Defaults()
	var custom []schema.CustomField

	seed, err := s.drafts.LoadSeed(ctx)
	if err == nil {
		fields, custom = prefill.Apply(fields, seed)
	} else if !errors.Is(err, draft.ErrNotFound) {
		log.Printf("open %s: seed load failed, using defaults: %v", recordID, err)
	}

	return EditorState{
		RecordID: recordID,
		Status:   workflow.StatusPending,
		Fields:   fields,
		Custom:   custom,
		IsNew:    true,
	}
}

// MirrorDraft stores the caller's in-progress edits. Drafts are a local
// mirror keyed by user; the persisted record stays authoritative.
func (s *Service) MirrorDraft(ctx context.Context, session Session, recordID string, fields schema.FlatFieldSet, custom []schema.CustomField) error {
	snap := draft.Snapshot{
		RecordID: recordID,
		Fields:   fields,
		Custom:   custom,
		SavedAt:  time.Now(),
	}
	if err := s.drafts.SaveDraft(ctx, session.UserID, snap); err != nil {
		return fmt.Errorf("mirror draft for %s: %w", recordID, err)
	}
	return nil
}

// Submit saves a record end to end: workflow gate, validation, parallel
// asset resolution, nested translation, and the persisted write. The
// server's post-save status is adopted, never the caller's. Draft
// clearing, seed capture, history, and search indexing follow best-effort;
// their failure never undoes a completed save.
func (s *Service) Submit(ctx context.Context, session Session, in SubmitInput) (EditorState, error) {
	current := workflow.StatusPending
	rec, err := s.records.GetRecord(ctx, in.RecordID)
	if err == nil {
		current = workflow.Normalize(rec.Status)
	} else if !errors.Is(err, store.ErrNotFound) {
		return EditorState{}, fmt.Errorf("load record %s: %w", in.RecordID, err)
	}

	if !workflow.CanResubmit(session.Role, current) {
		return EditorState{}, domainError(http.StatusForbidden, "RECORD_LOCKED",
			fmt.Sprintf("Record is %s and cannot be resubmitted by role %s", current, session.Role), nil)
	}

	if violations := validate.Validate(in.Fields); len(violations) > 0 {
		return EditorState{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"Record has validation errors", map[string]any{"violations": violations})
	}

	resolved, err := s.assets.Resolve(ctx, in.RecordID, assets.Input{
		Photos:        in.Photos,
		LocationPhoto: in.LocationPhoto,
		Documents:     in.Documents,
		AreaPhotos:    in.AreaPhotos,
	})
	if err != nil {
		return EditorState{}, domainError(http.StatusBadGateway, "UPLOAD_FAILED",
			"Asset upload failed, record was not saved", map[string]any{"reason": err.Error()})
	}

	toSave := schema.Record{
		ID:       in.RecordID,
		Sections: schema.ToNested(in.Fields),
		Flat:     in.Fields.Clone(),
		Custom:   schema.CloneCustomFields(in.Custom),
		Items:    in.Items,
		Assets: schema.AssetURLs{
			Photos:        resolved.Photos,
			LocationPhoto: resolved.LocationPhoto,
			Documents:     resolved.Documents,
			AreaPhotos:    resolved.AreaPhotos,
		},
		UpdatedBy: session.UserName,
	}
	result, err := s.records.SaveRecord(ctx, in.RecordID, toSave)
	if err != nil {
		return EditorState{}, fmt.Errorf("save record %s: %w", in.RecordID, err)
	}

	s.afterSave(ctx, session, in, toSave)

	return EditorState{
		RecordID:      in.RecordID,
		Status:        workflow.Normalize(result.Status),
		Fields:        in.Fields,
		Custom:        in.Custom,
		Items:         in.Items,
		Photos:        assets.FromStoredList(resolved.Photos),
		LocationPhoto: assets.FromStoredList(resolved.LocationPhoto),
		Documents:     assets.FromStoredList(resolved.Documents),
		AreaPhotos:    refsFromStoredMap(resolved.AreaPhotos),
		UpdatedAt:     result.UpdatedAt,
	}, nil
}

func (s *Service) afterSave(ctx context.Context, session Session, in SubmitInput, saved schema.Record) {
	if err := s.drafts.ClearDraft(ctx, session.UserID); err != nil {
		log.Printf("submit %s: clear draft: %v", in.RecordID, err)
	}
	if err := s.drafts.SaveSeed(ctx, prefill.SeedFrom(in.Fields, in.Custom)); err != nil {
		log.Printf("submit %s: save seed: %v", in.RecordID, err)
	}

	if s.history != nil {
		payload, err := json.Marshal(saved)
		if err == nil {
			_, err = s.history.Commit(in.RecordID, payload, session.UserName, "Save by "+session.UserName)
		}
		if err != nil {
			log.Printf("submit %s: history commit: %v", in.RecordID, err)
		}
	}

	if s.search != nil {
		s.search.IndexRecord(search.RecordDoc{
			ID:         in.RecordID,
			ClientName: in.Fields.String("clientName"),
			Address:    in.Fields.String("address"),
			City:       in.Fields.String("city"),
			BankName:   in.Fields.String("bankName"),
			Status:     string(workflow.StatusOnProgress),
			UpdatedAt:  time.Now(),
		})
	}
}

// Review moves a record through the approval workflow. Only reviewers may
// call it, the transition must be legal from the record's current status,
// and rejections must carry feedback.
func (s *Service) Review(ctx context.Context, session Session, recordID, target, feedback string) (EditorState, error) {
	if !workflow.CanReview(session.Role) {
		return EditorState{}, domainError(http.StatusForbidden, "FORBIDDEN", "Only reviewers may change record status", nil)
	}

	targetStatus := workflow.Status(target)
	switch targetStatus {
	case workflow.StatusApproved, workflow.StatusRejected, workflow.StatusRework:
	default:
		return EditorState{}, domainError(http.StatusUnprocessableEntity, "INVALID_STATUS",
			fmt.Sprintf("Status %q is not a review target", target), nil)
	}

	rec, err := s.records.GetRecord(ctx, recordID)
	if errors.Is(err, store.ErrNotFound) {
		return EditorState{}, domainError(http.StatusNotFound, "NOT_FOUND", "Record not found", nil)
	}
	if err != nil {
		return EditorState{}, fmt.Errorf("load record %s: %w", recordID, err)
	}

	current := workflow.Normalize(rec.Status)
	if !workflow.ValidReviewTarget(current, targetStatus) {
		return EditorState{}, domainError(http.StatusConflict, "INVALID_TRANSITION",
			fmt.Sprintf("Cannot move record from %s to %s", current, targetStatus), nil)
	}
	if workflow.RequiresFeedback(targetStatus) && strings.TrimSpace(feedback) == "" {
		return EditorState{}, domainError(http.StatusUnprocessableEntity, "FEEDBACK_REQUIRED",
			"Rejection requires feedback", nil)
	}

	updated, err := s.records.SetStatus(ctx, recordID, string(targetStatus), strings.TrimSpace(feedback))
	if err != nil {
		return EditorState{}, fmt.Errorf("set status of %s: %w", recordID, err)
	}

	if s.search != nil {
		flat := schema.ToFlat(updated)
		s.search.IndexRecord(search.RecordDoc{
			ID:         recordID,
			ClientName: flat.String("clientName"),
			Address:    flat.String("address"),
			City:       flat.String("city"),
			BankName:   flat.String("bankName"),
			Status:     updated.Status,
			UpdatedAt:  updated.UpdatedAt,
		})
	}

	return EditorState{
		RecordID:  recordID,
		Status:    workflow.Normalize(updated.Status),
		Feedback:  updated.Feedback,
		Fields:    schema.ToFlat(updated),
		Custom:    schema.CloneCustomFields(updated.Custom),
		Items:     updated.Items,
		UpdatedAt: updated.UpdatedAt,
	}, nil
}

// List returns dashboard summaries, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]store.Summary, error) {
	items, err := s.records.ListRecords(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	if items == nil {
		items = []store.Summary{}
	}
	return items, nil
}

// Search runs a dashboard search.
func (s *Service) Search(ctx context.Context, q search.Query) search.Response {
	if s.search == nil {
		return search.Response{Results: []search.RecordDoc{}, Query: q.Text}
	}
	return s.search.Search(ctx, q)
}

// History lists a record's saves, newest first.
func (s *Service) History(recordID string, limit int) ([]history.CommitInfo, error) {
	if s.history == nil {
		return []history.CommitInfo{}, nil
	}
	return s.history.History(recordID, limit)
}

// PayloadAt returns a record's payload as it was at a past save.
func (s *Service) PayloadAt(recordID, hash string) ([]byte, error) {
	if s.history == nil {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "History is not enabled", nil)
	}
	return s.history.PayloadAt(recordID, hash)
}

// Ping checks record-store connectivity.
func (s *Service) Ping(ctx context.Context) error {
	return s.records.Ping(ctx)
}

func refsFromStoredMap(in map[string][]schema.StoredAsset) map[string][]assets.Ref {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]assets.Ref, len(in))
	for area, list := range in {
		out[area] = assets.FromStoredList(list)
	}
	return out
}
