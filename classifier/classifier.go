/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package classifier

import (
	"context"
	"io/fs"
	"path"
	"slices"
	"strings"

	"chainguard.dev/registryguard/entity"
	"chainguard.dev/registryguard/failure"
	"chainguard.dev/registryguard/notify"
	"github.com/chainguard-dev/clog"
)

// Classifier resolves change sets against a working tree.
type Classifier struct {
	fsys     fs.FS
	notifier notify.Notifier
	messages failure.Messages
}

// New returns a Classifier reading the working tree from fsys, whose root
// is the repository root.
func New(fsys fs.FS, n notify.Notifier, m failure.Messages) *Classifier {
	return &Classifier{fsys: fsys, notifier: n, messages: m}
}

// Classify maps paths to exactly one entity and describes what changed.
func (c *Classifier) Classify(ctx context.Context, paths []string) (*entity.Descriptor, error) {
	log := clog.FromContext(ctx)

	dirs, notAllowed := partition(paths)

	if len(notAllowed) > 0 {
		return nil, failure.Raise(ctx, c.notifier, c.messages.NotAllowedChanges(notAllowed))
	}
	if len(dirs) > 1 {
		return nil, failure.Raise(ctx, c.notifier, c.messages.MultipleEntities(dirs))
	}
	if len(dirs) == 0 {
		return nil, failure.Raise(ctx, c.notifier, c.messages.EmptyChangeSet())
	}

	dir := dirs[0]
	typ, id := path.Split(dir)
	d := &entity.Descriptor{
		Type: entity.Type(strings.TrimSuffix(typ, "/")),
		ID:   id,
	}

	existing := c.list(ctx, dir)
	if len(existing) == 0 {
		log.With("entity", dir).Info("Entity directory is empty, treating as deleted")
		d.Deleted = true
		return d, nil
	}

	if !slices.Contains(existing, entity.MetadataFile) {
		return nil, failure.Raise(ctx, c.notifier, c.messages.MissingMetadata(dir))
	}

	changed := basenames(paths)
	if changed[entity.MetadataFile] {
		d.Metadata = path.Join(dir, entity.MetadataFile)
	}
	if slices.Contains(existing, entity.LogoFile) && changed[entity.LogoFile] {
		d.Logo = path.Join(dir, entity.LogoFile)
	}

	log.With("entity", dir).
		With("metadata", d.Metadata != "").
		With("logo", d.Logo != "").
		Info("Classified change set")
	return d, nil
}

// partition splits paths into the distinct entity directories they touch and
// the paths that do not follow the layout. Both keep first-seen order.
func partition(paths []string) (dirs, notAllowed []string) {
	for _, p := range paths {
		dir, ok := entityDir(p)
		if !ok {
			if !slices.Contains(notAllowed, p) {
				notAllowed = append(notAllowed, p)
			}
			continue
		}
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs, notAllowed
}

// entityDir returns "{type}/{address}" for a path shaped
// "{type}/{address}/{filename}" with an allowed filename.
func entityDir(p string) (string, bool) {
	parts := strings.Split(p, "/")
	if len(parts) != 3 {
		return "", false
	}
	typ, address, name := parts[0], parts[1], parts[2]

	if _, ok := entity.ParseType(typ); !ok {
		return "", false
	}
	if !entity.IsAddress(address) || !entity.IsAllowedFile(name) {
		return "", false
	}
	return typ + "/" + address, true
}

// list returns the names in dir. A directory that cannot be read is
// reported as empty.
func (c *Classifier) list(ctx context.Context, dir string) []string {
	entries, err := fs.ReadDir(c.fsys, dir)
	if err != nil {
		clog.FromContext(ctx).With("entity", dir).With("error", err).Debug("Unable to list entity directory")
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// basenames returns the set of final path elements of paths.
func basenames(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[path.Base(p)] = true
	}
	return set
}
