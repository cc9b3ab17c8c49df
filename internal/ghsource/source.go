// Package ghsource fetches commit listings from the GitHub REST API.
package ghsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v53/github"

	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/internal/logging"
	"github.com/huangsam/commitmood/schema"
)

// ErrMalformedCommit is returned when a listing entry lacks its sha or commit object.
var ErrMalformedCommit = errors.New("malformed commit entry")

// ErrRepoNotFound is returned when the repository does not exist or is not visible.
var ErrRepoNotFound = errors.New("repository not found or is private")

// shortHashLen is the length of an abbreviated commit hash.
const shortHashLen = 7

// Options configures a Source.
type Options struct {
	Token         contract.GitHubToken
	BaseURL       string // Empty means the public GitHub API
	RateLimitWait time.Duration
	PageDelay     time.Duration
	HTTPClient    *http.Client
}

// Source implements contract.CommitSource on top of go-github.
type Source struct {
	client        *github.Client
	rateLimitWait time.Duration
	pageDelay     time.Duration
}

var _ contract.CommitSource = &Source{} // Compile-time check

// New builds a Source from options.
func New(opts Options) (*Source, error) {
	httpClient := opts.HTTPClient
	if opts.Token != "" {
		httpClient = withToken(httpClient, opts.Token)
	}
	client := github.NewClient(httpClient)
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid api url %q: %w", opts.BaseURL, err)
		}
		client.BaseURL = u
	}
	return &Source{
		client:        client,
		rateLimitWait: opts.RateLimitWait,
		pageDelay:     opts.PageDelay,
	}, nil
}

// tokenTransport sets a bearer token on every request.
type tokenTransport struct {
	token contract.GitHubToken
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+string(t.token))
	return t.base.RoundTrip(req)
}

// withToken returns a copy of client whose transport authenticates with token.
func withToken(client *http.Client, token contract.GitHubToken) *http.Client {
	if client == nil {
		client = &http.Client{}
	}
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	authed := *client
	authed.Transport = &tokenTransport{token: token, base: base}
	return &authed
}

// NewFromConfig builds a Source from the validated runtime config.
func NewFromConfig(cfg *contract.Config) (*Source, error) {
	return New(Options{
		Token:         cfg.Token,
		BaseURL:       cfg.APIURL,
		RateLimitWait: cfg.RateLimitWait,
		PageDelay:     cfg.PageDelay,
	})
}

// Fetch pages through the commits of repo, newest first.
func (s *Source) Fetch(ctx context.Context, repo schema.RepoRef, limit, pageSize int) ([]schema.CommitRecord, error) {
	logger := logging.From(ctx).With(slog.String("repo", repo.FullName()))
	pageSize = clampPageSize(pageSize)

	var records []schema.CommitRecord
	page := 1
	for len(records) < limit {
		perPage := min(pageSize, limit-len(records))
		opts := &github.CommitsListOptions{
			ListOptions: github.ListOptions{Page: page, PerPage: perPage},
		}

		items, _, err := s.client.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			if isRateLimited(err) {
				logger.Warn("rate limit exceeded, waiting", slog.Duration("wait", s.rateLimitWait), slog.Int("page", page))
				if werr := sleep(ctx, s.rateLimitWait); werr != nil {
					return records, werr
				}
				continue
			}
			return records, wrapFetchError(repo, err)
		}

		for _, item := range items {
			record, err := normalize(item)
			if err != nil {
				return nil, fmt.Errorf("%s page %d: %w", repo.FullName(), page, err)
			}
			records = append(records, record)
			if len(records) >= limit {
				break
			}
		}
		logger.Debug("page fetched", slog.Int("page", page), slog.Int("items", len(items)), slog.Int("total", len(records)))

		if len(items) < perPage || len(records) >= limit {
			break
		}
		page++

		if err := sleep(ctx, s.pageDelay); err != nil {
			return records, err
		}
	}

	return records, nil
}

// normalize converts one listing entry into a CommitRecord.
func normalize(item *github.RepositoryCommit) (schema.CommitRecord, error) {
	if item == nil || item.SHA == nil || item.Commit == nil || item.Commit.Message == nil {
		return schema.CommitRecord{}, ErrMalformedCommit
	}
	if a := item.Commit.Author; a == nil || a.Date == nil || a.Name == nil {
		return schema.CommitRecord{}, ErrMalformedCommit
	}
	sha := item.GetSHA()
	if len(sha) > shortHashLen {
		sha = sha[:shortHashLen]
	}

	author := item.GetCommit().GetAuthor()
	var timestamp string
	if date := author.GetDate(); !date.IsZero() {
		timestamp = date.UTC().Format(time.RFC3339)
	}

	return schema.CommitRecord{
		ShortHash: sha,
		Message:   item.GetCommit().GetMessage(),
		Timestamp: timestamp,
		Author:    author.GetName(),
	}, nil
}

// isRateLimited reports whether err signals primary or secondary rate limiting.
func isRateLimited(err error) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusForbidden {
		return strings.Contains(strings.ToLower(respErr.Message), "rate limit")
	}
	return false
}

// wrapFetchError turns a non rate-limit API error into a caller-facing error.
func wrapFetchError(repo schema.RepoRef, err error) error {
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", repo.FullName(), ErrRepoNotFound)
	}
	return fmt.Errorf("error fetching commits from %s: %w", repo.FullName(), err)
}

// clampPageSize bounds the page size to what the API accepts.
func clampPageSize(pageSize int) int {
	switch {
	case pageSize < 1:
		return contract.DefaultPageSize
	case pageSize > contract.MaxPageSize:
		return contract.MaxPageSize
	default:
		return pageSize
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
