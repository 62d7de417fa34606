// Package gitinfo derives browsable source URLs from a local git checkout.
package gitinfo

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// ErrNoRemote is returned when the checkout has no usable origin remote.
var ErrNoRemote = errors.New("no origin remote configured")

// SourceLinkBase returns "<web url>/blob/<branch>/<subdir>/" for the checkout
// containing root, where subdir is root's position inside the worktree.
func SourceLinkBase(root string) (string, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open git repository: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoRemote, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", ErrNoRemote
	}
	web, err := WebURL(urls[0])
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	ref := head.Hash().String()
	if head.Name().IsBranch() {
		ref = head.Name().Short()
	}

	base := web + "/blob/" + ref + "/"

	wt, err := repo.Worktree()
	if err != nil {
		return base, nil //nolint:nilerr // bare checkouts still get a repository-level link
	}
	top, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		return base, nil //nolint:nilerr // fall back to repository-level link
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return base, nil //nolint:nilerr // fall back to repository-level link
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if rel, err := filepath.Rel(top, abs); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		base += filepath.ToSlash(rel) + "/"
	}
	return base, nil
}

// WebURL converts a clone URL (https, ssh, or scp-like) into the repository's
// browsable https URL, dropping credentials and a trailing ".git".
func WebURL(remote string) (string, error) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return "", ErrNoRemote
	}

	var host, path string
	switch {
	case strings.Contains(remote, "://"):
		u, err := url.Parse(remote)
		if err != nil {
			return "", fmt.Errorf("parse remote url: %w", err)
		}
		host, path = u.Hostname(), u.Path
		if u.Scheme == "http" || u.Scheme == "https" {
			if p := u.Port(); p != "" {
				host += ":" + p
			}
		}
	case strings.Contains(remote, ":"):
		// scp-like: git@github.com:org/repo.git
		hostPart, pathPart, _ := strings.Cut(remote, ":")
		if at := strings.LastIndex(hostPart, "@"); at >= 0 {
			hostPart = hostPart[at+1:]
		}
		host, path = hostPart, pathPart
	default:
		return "", fmt.Errorf("unsupported remote url %q", remote)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	if host == "" || path == "" {
		return "", fmt.Errorf("unsupported remote url %q", remote)
	}
	return "https://" + host + "/" + path, nil
}
