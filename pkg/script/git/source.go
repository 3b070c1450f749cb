package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"scribe-hq/proofread/pkg/config"
)

// CommitInfo contains metadata about a Git commit.
type CommitInfo struct {
	SHA       string    `json:"sha"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// SyncResult describes one synchronisation of the script repository.
type SyncResult struct {
	// Cloned is true when the repository was cloned by this call
	Cloned bool

	FromSHA string
	ToSHA   string

	// ChangedScripts lists changed files under the script path with the
	// script suffix, relative to the repository root
	ChangedScripts []string
}

// HadChanges reports whether HEAD moved.
func (r *SyncResult) HadChanges() bool {
	return r.Cloned || r.FromSHA != r.ToSHA
}

// Source keeps a local clone of a rule-script repository up to date.
type Source struct {
	cfg    config.GitConfig
	suffix string
	auth   *Auth
	logger *slog.Logger

	mu   sync.Mutex
	repo *gogit.Repository
}

// NewSource creates a script source. suffix selects the files reported in
// SyncResult.ChangedScripts (e.g., ".go").
func NewSource(cfg *config.GitConfig, suffix string, logger *slog.Logger) (*Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Repository == "" {
		return nil, fmt.Errorf("repository URL cannot be empty")
	}
	if cfg.Branch == "" {
		return nil, fmt.Errorf("branch cannot be empty")
	}

	auth, err := NewAuth(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("invalid repository auth: %w", err)
	}

	local := *cfg
	if local.LocalPath == "" {
		local.LocalPath = config.DefaultGitLocalPath
	}
	if local.Timeout == 0 {
		local.Timeout = config.DefaultGitTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Source{
		cfg:    local,
		suffix: suffix,
		auth:   auth,
		logger: logger.With("component", "script.git", "repository", cfg.Repository),
	}, nil
}

// ScriptDir returns the directory the script loader should read.
func (s *Source) ScriptDir() string {
	return filepath.Join(s.cfg.LocalPath, s.cfg.Path)
}

// Sync clones the repository on first use (or opens an existing clone)
// and pulls otherwise.
func (s *Source) Sync(ctx context.Context) (*SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo == nil {
		cloned, err := s.open(ctx)
		if err != nil {
			return nil, err
		}
		if cloned {
			head, err := s.head()
			if err != nil {
				return nil, err
			}
			s.logger.Info("cloned script repository", "sha", head, "path", s.cfg.LocalPath)
			return &SyncResult{Cloned: true, ToSHA: head}, nil
		}
	}

	return s.pull(ctx)
}

// open clones the repository or opens an existing clone. It reports
// whether a clone happened.
func (s *Source) open(ctx context.Context) (bool, error) {
	gitDir := filepath.Join(s.cfg.LocalPath, ".git")
	if _, err := os.Stat(gitDir); err == nil {
		repo, err := gogit.PlainOpen(s.cfg.LocalPath)
		if err != nil {
			return false, fmt.Errorf("failed to open existing repo: %w", err)
		}
		s.repo = repo
		return false, nil
	}

	if err := os.MkdirAll(s.cfg.LocalPath, 0o755); err != nil {
		return false, fmt.Errorf("failed to create repository directory: %w", err)
	}

	auth, err := s.auth.Method()
	if err != nil {
		return false, fmt.Errorf("failed to get auth: %w", err)
	}

	cloneCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	repo, err := gogit.PlainCloneContext(cloneCtx, s.cfg.LocalPath, false, &gogit.CloneOptions{
		URL:           s.cfg.Repository,
		Auth:          auth,
		ReferenceName: plumbing.NewBranchReferenceName(s.cfg.Branch),
		SingleBranch:  true,
		Depth:         s.cfg.Depth,
	})
	if err != nil {
		return false, fmt.Errorf("failed to clone repository: %w", err)
	}

	s.repo = repo
	return true, nil
}

func (s *Source) pull(ctx context.Context) (*SyncResult, error) {
	fromSHA, err := s.head()
	if err != nil {
		return nil, err
	}

	worktree, err := s.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	auth, err := s.auth.Method()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth: %w", err)
	}

	pullCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	err = worktree.PullContext(pullCtx, &gogit.PullOptions{
		RemoteName:    "origin",
		ReferenceName: plumbing.NewBranchReferenceName(s.cfg.Branch),
		SingleBranch:  true,
		Auth:          auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return nil, fmt.Errorf("failed to pull: %w", err)
	}

	toSHA, err := s.head()
	if err != nil {
		return nil, err
	}

	result := &SyncResult{FromSHA: fromSHA, ToSHA: toSHA}
	if fromSHA != toSHA {
		changed, err := s.changedScripts(fromSHA, toSHA)
		if err != nil {
			return nil, err
		}
		result.ChangedScripts = changed
		s.logger.Info("pulled script repository",
			"from", fromSHA,
			"to", toSHA,
			"changed_scripts", len(changed),
		)
	}
	return result, nil
}

func (s *Source) head() (string, error) {
	ref, err := s.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// changedScripts diffs two commits and keeps script files under the
// configured path.
func (s *Source) changedScripts(fromSHA, toSHA string) ([]string, error) {
	fromCommit, err := s.repo.CommitObject(plumbing.NewHash(fromSHA))
	if err != nil {
		return nil, fmt.Errorf("failed to get from commit: %w", err)
	}
	toCommit, err := s.repo.CommitObject(plumbing.NewHash(toSHA))
	if err != nil {
		return nil, fmt.Errorf("failed to get to commit: %w", err)
	}

	fromTree, err := fromCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get from tree: %w", err)
	}
	toTree, err := toCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get to tree: %w", err)
	}

	changes, err := fromTree.Diff(toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	prefix := strings.Trim(filepath.ToSlash(s.cfg.Path), "/")
	var files []string
	for _, change := range changes {
		name := change.To.Name
		if name == "" {
			// deleted
			name = change.From.Name
		}
		if prefix != "" && !strings.HasPrefix(name, prefix+"/") {
			continue
		}
		if s.suffix != "" && !strings.HasSuffix(name, s.suffix) {
			continue
		}
		files = append(files, name)
	}
	return files, nil
}

// CurrentCommit returns metadata about HEAD.
func (s *Source) CurrentCommit() (*CommitInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo == nil {
		return nil, fmt.Errorf("repository not initialized, call Sync() first")
	}

	ref, err := s.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	commit, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	return &CommitInfo{
		SHA:       commit.Hash.String(),
		Author:    commit.Author.Name,
		Timestamp: commit.Author.When,
		Message:   commit.Message,
	}, nil
}
