/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package logo enforces the image policy for entity logos: a size ceiling,
// the PNG format and fixed square dimensions. Every unmet rule is reported
// in a single comment.
package logo

import (
	"context"
	"fmt"
	"image"
	_ "image/png" // register the PNG decoder
	"io/fs"
	"path"

	"chainguard.dev/registryguard/entity"
	"chainguard.dev/registryguard/failure"
	"chainguard.dev/registryguard/notify"
	"github.com/chainguard-dev/clog"
	"github.com/dustin/go-humanize"
)

const (
	// DefaultMaxBytes is the default size ceiling of a logo.
	DefaultMaxBytes = 100 * 1024

	// Width and Height are the required logo dimensions in pixels.
	Width  = 256
	Height = 256
)

// Validator checks changed logos.
type Validator struct {
	fsys     fs.FS
	notifier notify.Notifier
	messages failure.Messages
	maxBytes int64
}

// New returns a Validator reading images from fsys. A non-positive maxBytes
// selects DefaultMaxBytes.
func New(fsys fs.FS, n notify.Notifier, m failure.Messages, maxBytes int64) *Validator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Validator{fsys: fsys, notifier: n, messages: m, maxBytes: maxBytes}
}

// Validate checks d's logo, if it changed.
func (v *Validator) Validate(ctx context.Context, d *entity.Descriptor) error {
	if d.Logo == "" {
		return nil
	}
	log := clog.FromContext(ctx).With("path", d.Logo)

	problems, err := v.Problems(d.Logo)
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		log.Info("Logo is valid")
		return nil
	}
	log.With("problems", len(problems)).Info("Logo violates policy")
	return failure.Raise(ctx, v.notifier, v.messages.InvalidLogo(d.Logo, problems))
}

// Problems returns every rule the image at name breaks. The dimensions are
// only inspected once the image is known to be a PNG.
func (v *Validator) Problems(name string) ([]string, error) {
	info, err := fs.Stat(v.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}

	var problems []string
	if info.Size() > v.maxBytes {
		problems = append(problems,
			fmt.Sprintf("The image is too large. The maximum size is %s", humanize.IBytes(uint64(v.maxBytes))))
	}

	cfg, ok := v.decodePNG(name)
	if !ok {
		return append(problems, "The image format should be PNG"), nil
	}
	if cfg.Width != Width || cfg.Height != Height {
		problems = append(problems,
			fmt.Sprintf("The image size must be %dx%d pixels. Current size is %dx%d.", Width, Height, cfg.Width, cfg.Height))
	}
	return problems, nil
}

// decodePNG reads the image header, accepting only PNG files with a .png
// extension.
func (v *Validator) decodePNG(name string) (image.Config, bool) {
	if path.Ext(name) != ".png" {
		return image.Config{}, false
	}
	f, err := v.fsys.Open(name)
	if err != nil {
		return image.Config{}, false
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil || format != "png" {
		return image.Config{}, false
	}
	return cfg, true
}
