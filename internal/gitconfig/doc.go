// Package gitconfig implements a small pure Go reader and writer for Git SCM
// config files, covering the subset gituser needs: loading a single config
// file, looking up values and rewriting keys like user.name and user.email
// while preserving the original file layout (comments, blank lines and
// unrelated sections).
//
// The reference for the syntax is
// https://mirrors.edge.kernel.org/pub/software/scm/git/docs/git-config.html
//
// On top of the codec the package provides the Applier, which pushes a git
// identity into the per-user ("global") config and reads the currently
// configured one back.
package gitconfig
