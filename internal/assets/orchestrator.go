package assets

import (
	"context"
	"fmt"
	"sync"

	"siteval/api/internal/schema"
)

// File is one local file queued for upload.
type File struct {
	Name string
	Data []byte
}

// Stored is the asset-store result for one uploaded file.
type Stored struct {
	URL              string
	Size             int64
	OriginalFileName string
}

// Uploader is the external asset-storage collaborator. A batch is atomic
// per category: either every file in it is stored or the call errors.
type Uploader interface {
	UploadBatch(ctx context.Context, files []File, ownerID string) ([]Stored, error)
}

// Input is the current editing-surface asset state at save time.
type Input struct {
	Photos        []Ref
	LocationPhoto []Ref
	Documents     []Ref
	AreaPhotos    map[string][]Ref
}

// Output is the resolved, fully persisted asset state to write into the
// record.
type Output struct {
	Photos        []schema.StoredAsset
	LocationPhoto []schema.StoredAsset
	Documents     []schema.StoredAsset
	AreaPhotos    map[string][]schema.StoredAsset
}

// Orchestrator uploads pending assets and merges results with untouched
// persisted ones.
type Orchestrator struct {
	uploader Uploader
}

func NewOrchestrator(uploader Uploader) *Orchestrator {
	return &Orchestrator{uploader: uploader}
}

// Resolve runs the photo, location-photo, document, and per-area branches
// as independent in-flight uploads and joins them all-or-nothing: if any
// branch fails, the whole resolution fails and no partial result is
// returned, leaving the caller's editing state (pending previews included)
// untouched for a retry.
func (o *Orchestrator) Resolve(ctx context.Context, ownerID string, in Input) (Output, error) {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		out  Output
		errs []error
	)

	fail := func(category string, err error) {
		mu.Lock()
		errs = append(errs, fmt.Errorf("%s: %w", category, err))
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		merged, err := o.mergeBranch(ctx, ownerID, in.Photos)
		if err != nil {
			fail("property photos", err)
			return
		}
		mu.Lock()
		out.Photos = merged
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		resolved, err := o.locationBranch(ctx, ownerID, in.LocationPhoto)
		if err != nil {
			fail("location photo", err)
			return
		}
		mu.Lock()
		out.LocationPhoto = resolved
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		merged, err := o.mergeBranch(ctx, ownerID, in.Documents)
		if err != nil {
			fail("documents", err)
			return
		}
		mu.Lock()
		out.Documents = merged
		mu.Unlock()
	}()

	// Each area is an independent named bucket; only buckets present in
	// the editing state are touched, and they upload in parallel.
	if len(in.AreaPhotos) > 0 {
		out.AreaPhotos = make(map[string][]schema.StoredAsset, len(in.AreaPhotos))
		for area, refs := range in.AreaPhotos {
			wg.Add(1)
			go func(area string, refs []Ref) {
				defer wg.Done()
				merged, err := o.mergeBranch(ctx, ownerID, refs)
				if err != nil {
					fail("area "+area, err)
					return
				}
				mu.Lock()
				out.AreaPhotos[area] = merged
				mu.Unlock()
			}(area, refs)
		}
	}

	wg.Wait()

	if len(errs) > 0 {
		return Output{}, errs[0]
	}
	return out, nil
}

// mergeBranch partitions a list into persisted and pending entries, uploads
// the pending ones, and returns keep ++ uploaded with keep's original
// relative order intact and new entries appended after.
func (o *Orchestrator) mergeBranch(ctx context.Context, ownerID string, refs []Ref) ([]schema.StoredAsset, error) {
	keep, toUpload, err := partition(refs)
	if err != nil {
		return nil, err
	}

	merged := make([]schema.StoredAsset, 0, len(refs))
	for _, r := range keep {
		merged = append(merged, r.Stored())
	}

	if len(toUpload) == 0 {
		return merged, nil
	}

	uploaded, err := o.uploader.UploadBatch(ctx, toUpload, ownerID)
	if err != nil {
		return nil, err
	}
	for _, u := range uploaded {
		merged = append(merged, schema.StoredAsset{URL: u.URL, Name: u.OriginalFileName, Size: u.Size})
	}
	return merged, nil
}

// locationBranch models the single location image: a newly uploaded one
// unconditionally replaces any previously persisted one. Re-photographing
// the site, not adding another photo.
func (o *Orchestrator) locationBranch(ctx context.Context, ownerID string, refs []Ref) ([]schema.StoredAsset, error) {
	keep, toUpload, err := partition(refs)
	if err != nil {
		return nil, err
	}

	if len(toUpload) == 0 {
		out := make([]schema.StoredAsset, 0, len(keep))
		for _, r := range keep {
			out = append(out, r.Stored())
		}
		return out, nil
	}

	uploaded, err := o.uploader.UploadBatch(ctx, toUpload, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]schema.StoredAsset, 0, len(uploaded))
	for _, u := range uploaded {
		out = append(out, schema.StoredAsset{URL: u.URL, Name: u.OriginalFileName, Size: u.Size})
	}
	return out, nil
}

func partition(refs []Ref) (keep []Ref, toUpload []File, err error) {
	for _, r := range refs {
		switch {
		case r.IsPersisted():
			keep = append(keep, r)
		case r.IsPending():
			toUpload = append(toUpload, File{Name: r.Name, Data: r.Data})
		default:
			return nil, nil, fmt.Errorf("asset %q has neither file data nor a stored url", r.Name)
		}
	}
	return keep, toUpload, nil
}
