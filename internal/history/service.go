// Package history keeps an audit trail of every saved valuation payload in
// a per-record git repository.
package history

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const payloadFile = "record.json"

// CommitInfo describes one save in a record's history.
type CommitInfo struct {
	Hash    string    `json:"hash"`
	Author  string    `json:"author"`
	Message string    `json:"message"`
	When    time.Time `json:"when"`
}

// Service manages the per-record repositories. Records are committed on a
// single main branch; the approval workflow lives in record status, not in
// branches.
type Service struct {
	baseDir string
	lockMu  sync.Mutex
	locks   map[string]*sync.Mutex
}

func New(baseDir string) *Service {
	return &Service{
		baseDir: baseDir,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Commit records a saved payload for the record, creating the repository on
// first save. Saving an unchanged payload is a no-op, not an error.
func (s *Service) Commit(recordID string, payload []byte, author, message string) (CommitInfo, error) {
	lock := s.recordLock(recordID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := s.openOrInit(recordID)
	if err != nil {
		return CommitInfo{}, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("open worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	if err := os.WriteFile(filepath.Join(root, payloadFile), append(payload, '\n'), 0o644); err != nil {
		return CommitInfo{}, fmt.Errorf("write payload: %w", err)
	}
	if _, err := worktree.Add(payloadFile); err != nil {
		return CommitInfo{}, fmt.Errorf("git add payload: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("read worktree status: %w", err)
	}
	if status.IsClean() {
		return s.head(repo)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author,
			Email: sanitizeEmail(author) + "@local.siteval.dev",
			When:  time.Now(),
		},
	})
	if err != nil {
		return CommitInfo{}, fmt.Errorf("commit payload: %w", err)
	}

	commitObj, err := repo.CommitObject(hash)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("read commit object: %w", err)
	}
	return toCommitInfo(commitObj), nil
}

// History lists a record's saves, newest first.
func (s *Service) History(recordID string, limit int) ([]CommitInfo, error) {
	lock := s.recordLock(recordID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(recordID))
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return []CommitInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		return []CommitInfo{}, nil
	}

	iter, err := repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	items := make([]CommitInfo, 0, limit)
	count := 0
	err = iter.ForEach(func(commitObj *object.Commit) error {
		items = append(items, toCommitInfo(commitObj))
		count++
		if limit > 0 && count >= limit {
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return items, nil
}

// PayloadAt returns the payload as it was at a given commit.
func (s *Service) PayloadAt(recordID, hash string) ([]byte, error) {
	lock := s.recordLock(recordID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(recordID))
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	commitObj, err := repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", hash, err)
	}
	file, err := commitObj.File(payloadFile)
	if err != nil {
		return nil, fmt.Errorf("read payload at %s: %w", hash, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("read file contents: %w", err)
	}
	return []byte(contents), nil
}

func (s *Service) openOrInit(recordID string) (*git.Repository, error) {
	path := s.repoPath(recordID)
	repo, err := git.PlainOpen(path)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create repo dir: %w", err)
	}
	repo, err = git.PlainInit(path, false)
	if err != nil {
		return nil, fmt.Errorf("init repo: %w", err)
	}
	return repo, nil
}

func (s *Service) head(repo *git.Repository) (CommitInfo, error) {
	ref, err := repo.Head()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("resolve head: %w", err)
	}
	commitObj, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return CommitInfo{}, fmt.Errorf("read head commit: %w", err)
	}
	return toCommitInfo(commitObj), nil
}

func (s *Service) repoPath(recordID string) string {
	return filepath.Join(s.baseDir, recordID)
}

func (s *Service) recordLock(recordID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.locks[recordID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[recordID] = lock
	}
	return lock
}

func toCommitInfo(c *object.Commit) CommitInfo {
	return CommitInfo{
		Hash:    c.Hash.String(),
		Author:  c.Author.Name,
		Message: strings.TrimSpace(c.Message),
		When:    c.Author.When,
	}
}

func sanitizeEmail(author string) string {
	lowered := strings.ToLower(strings.TrimSpace(author))
	var b strings.Builder
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('.')
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}
