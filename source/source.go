// Package source manages the Vulkan-Docs checkout that provides vk.xml.
package source

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"

	"github.com/teranos/vkdoc/errors"
)

// DefaultURL is the upstream registry repository
const DefaultURL = "https://github.com/KhronosGroup/Vulkan-Docs.git"

// Options selects what to check out and where
type Options struct {
	URL   string
	Ref   string // branch name; empty means the remote HEAD
	Dir   string
	Depth int // 0 clones full history
}

// Checkout describes a local registry checkout
type Checkout struct {
	Dir    string `json:"dir"`
	Ref    string `json:"ref"`
	Commit string `json:"commit"`
	Cloned bool   `json:"cloned"`
}

// RegistryPath returns the vk.xml location inside a checkout
func RegistryPath(dir string) string {
	return filepath.Join(dir, "xml", "vk.xml")
}

// IsGitRepository checks if a path is a git repository
func IsGitRepository(path string) bool {
	_, err := git.PlainOpen(path)
	return err == nil
}

// Fetch opens opts.Dir when it already holds a repository and clones
// opts.URL into it otherwise
func Fetch(ctx context.Context, opts Options, logger *zap.SugaredLogger) (*Checkout, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if opts.Dir == "" {
		return nil, errors.New("source directory is empty")
	}
	if IsGitRepository(opts.Dir) {
		logger.Debugw("Using existing checkout", "path", opts.Dir)
		return Open(opts.Dir)
	}
	if opts.URL == "" {
		opts.URL = DefaultURL
	}

	cloneOpts := &git.CloneOptions{
		URL:   opts.URL,
		Depth: opts.Depth,
	}
	if opts.Ref != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Ref)
		cloneOpts.SingleBranch = true
	}

	logger.Infow("Cloning registry source",
		"url", opts.URL,
		"ref", opts.Ref,
		"depth", opts.Depth,
		"destination", opts.Dir,
	)
	if _, err := git.PlainCloneContext(ctx, opts.Dir, false, cloneOpts); err != nil {
		if rmErr := os.RemoveAll(opts.Dir); rmErr != nil {
			logger.Warnw("Failed to remove partial clone", "path", opts.Dir, "error", rmErr)
		}
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to clone %s", opts.URL),
			"check source.url and source.ref, or point registry.path at an existing vk.xml")
	}

	checkout, err := Open(opts.Dir)
	if err != nil {
		return nil, err
	}
	checkout.Cloned = true
	logger.Infow("Clone completed", "path", opts.Dir, "commit", checkout.Commit)
	return checkout, nil
}

// Open reports the checked-out ref and commit of an existing repository
func Open(dir string) (*Checkout, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "not a git repository: %s", dir)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve HEAD of %s", dir)
	}

	ref := head.Hash().String()
	if head.Name().IsBranch() {
		ref = head.Name().Short()
	}
	return &Checkout{Dir: dir, Ref: ref, Commit: head.Hash().String()}, nil
}
