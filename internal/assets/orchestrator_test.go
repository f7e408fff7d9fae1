package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// fakeUploader assigns deterministic URLs, with optional per-file failures.
type fakeUploader struct {
	mu      sync.Mutex
	calls   int
	failFor map[string]error
}

func (f *fakeUploader) UploadBatch(_ context.Context, files []File, ownerID string) ([]Stored, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	out := make([]Stored, 0, len(files))
	for _, file := range files {
		if err, ok := f.failFor[file.Name]; ok {
			return nil, err
		}
		out = append(out, Stored{
			URL:              fmt.Sprintf("https://assets.local/%s/%s", ownerID, file.Name),
			Size:             int64(len(file.Data)),
			OriginalFileName: file.Name,
		})
	}
	return out, nil
}

func pending(name string) Ref   { return Ref{Name: name, Data: []byte("bytes of " + name)} }
func persisted(name string) Ref { return Ref{Name: name, URL: "https://assets.local/old/" + name} }

func TestMergeKeepsOrderAndAppendsUploads(t *testing.T) {
	o := NewOrchestrator(&fakeUploader{})
	out, err := o.Resolve(context.Background(), "V-100", Input{
		Photos: []Ref{persisted("p1.jpg"), persisted("p2.jpg"), pending("u1.jpg")},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(out.Photos) != 3 {
		t.Fatalf("expected 3 photos, got %d", len(out.Photos))
	}
	if out.Photos[0].Name != "p1.jpg" || out.Photos[1].Name != "p2.jpg" || out.Photos[2].Name != "u1.jpg" {
		t.Errorf("merge order wrong: %v", out.Photos)
	}
	if out.Photos[2].URL == "" {
		t.Error("uploaded photo should have a durable URL")
	}
}

func TestNoUploadCallForPersistedOnlyBranch(t *testing.T) {
	up := &fakeUploader{}
	o := NewOrchestrator(up)
	out, err := o.Resolve(context.Background(), "V-100", Input{
		Photos: []Ref{persisted("p1.jpg")},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if up.calls != 0 {
		t.Errorf("expected no upload calls, got %d", up.calls)
	}
	if len(out.Photos) != 1 || out.Photos[0].URL != "https://assets.local/old/p1.jpg" {
		t.Errorf("persisted photo should pass through: %v", out.Photos)
	}
}

func TestLocationPhotoReplacesNotAppends(t *testing.T) {
	o := NewOrchestrator(&fakeUploader{})
	out, err := o.Resolve(context.Background(), "V-100", Input{
		LocationPhoto: []Ref{persisted("old-site.jpg"), pending("new-site.jpg")},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(out.LocationPhoto) != 1 {
		t.Fatalf("expected exactly one location photo, got %d", len(out.LocationPhoto))
	}
	if out.LocationPhoto[0].Name != "new-site.jpg" {
		t.Errorf("location photo = %q, want the newly uploaded one", out.LocationPhoto[0].Name)
	}
}

func TestLocationPhotoKeptWhenNothingPending(t *testing.T) {
	o := NewOrchestrator(&fakeUploader{})
	out, err := o.Resolve(context.Background(), "V-100", Input{
		LocationPhoto: []Ref{persisted("site.jpg")},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(out.LocationPhoto) != 1 || out.LocationPhoto[0].Name != "site.jpg" {
		t.Errorf("persisted location photo should survive: %v", out.LocationPhoto)
	}
}

func TestAreaBucketsIndependent(t *testing.T) {
	up := &fakeUploader{}
	o := NewOrchestrator(up)
	out, err := o.Resolve(context.Background(), "V-100", Input{
		AreaPhotos: map[string][]Ref{
			"kitchen": {persisted("k1.jpg")},
			"terrace": {persisted("t1.jpg"), pending("t2.jpg")},
		},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if up.calls != 1 {
		t.Errorf("only the terrace bucket should upload, got %d calls", up.calls)
	}
	if len(out.AreaPhotos["kitchen"]) != 1 {
		t.Errorf("kitchen bucket should pass through untouched: %v", out.AreaPhotos["kitchen"])
	}
	terrace := out.AreaPhotos["terrace"]
	if len(terrace) != 2 || terrace[0].Name != "t1.jpg" || terrace[1].Name != "t2.jpg" {
		t.Errorf("terrace bucket merge wrong: %v", terrace)
	}
}

func TestAllOrNothingJoin(t *testing.T) {
	up := &fakeUploader{failFor: map[string]error{"doc1.pdf": errors.New("storage unavailable")}}
	o := NewOrchestrator(up)

	out, err := o.Resolve(context.Background(), "V-100", Input{
		Photos:    []Ref{pending("u1.jpg")},
		Documents: []Ref{pending("doc1.pdf")},
	})
	if err == nil {
		t.Fatal("expected the documents failure to fail the whole resolution")
	}
	if out.Photos != nil || out.Documents != nil {
		t.Errorf("no partial results may be returned, got %+v", out)
	}
}

func TestFailureLeavesInputUntouched(t *testing.T) {
	up := &fakeUploader{failFor: map[string]error{"doc1.pdf": errors.New("storage unavailable")}}
	o := NewOrchestrator(up)

	in := Input{Documents: []Ref{pending("doc1.pdf")}}
	if _, err := o.Resolve(context.Background(), "V-100", in); err == nil {
		t.Fatal("expected failure")
	}
	if len(in.Documents) != 1 || !in.Documents[0].IsPending() {
		t.Error("pending document must survive a failed save for retry")
	}
}

func TestRefWithNeitherDataNorURLIsRejected(t *testing.T) {
	o := NewOrchestrator(&fakeUploader{})
	_, err := o.Resolve(context.Background(), "V-100", Input{
		Photos: []Ref{{Name: "ghost.jpg"}},
	})
	if err == nil {
		t.Fatal("expected an error for an asset in neither state")
	}
}
