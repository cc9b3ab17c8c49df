// Package gitsource reads commit listings from a local clone with go-git.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/internal/logging"
	"github.com/huangsam/commitmood/schema"
)

// shortHashLen is the length of an abbreviated commit hash.
const shortHashLen = 7

// Source implements contract.CommitSource over a local repository.
type Source struct {
	path string
	repo *git.Repository
}

var _ contract.CommitSource = &Source{} // Compile-time check

// New opens the repository at path or any of its parent directories.
func New(path string) (*Source, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}
	return &Source{path: path, repo: repo}, nil
}

// Fetch walks the history reachable from HEAD, newest commit first. The page
// size has no meaning for a local walk and is ignored. An empty repository
// yields no records.
func (s *Source) Fetch(ctx context.Context, repo schema.RepoRef, limit, _ int) ([]schema.CommitRecord, error) {
	logger := logging.From(ctx).With(slog.String("repo", repo.FullName()), slog.String("path", s.path))

	iter, err := s.repo.Log(&git.LogOptions{Order: git.LogOrderCommitterTime})
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading history of %s: %w", s.path, err)
	}
	defer iter.Close()

	var records []schema.CommitRecord
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		records = append(records, normalize(c))
		if len(records) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return records, fmt.Errorf("error walking history of %s: %w", s.path, err)
	}

	logger.Debug("local history read", slog.Int("total", len(records)))
	return records, nil
}

// normalize converts a commit object into a CommitRecord.
func normalize(c *object.Commit) schema.CommitRecord {
	hash := c.Hash.String()
	if len(hash) > shortHashLen {
		hash = hash[:shortHashLen]
	}
	var timestamp string
	if !c.Author.When.IsZero() {
		timestamp = c.Author.When.UTC().Format(time.RFC3339)
	}
	return schema.CommitRecord{
		ShortHash: hash,
		Message:   c.Message,
		Timestamp: timestamp,
		Author:    c.Author.Name,
	}
}
