/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package classifier turns the changed paths of a pull request into the
// single entity the pull request is allowed to touch.
//
// Classification is the gate of every validation run. Given the changed
// paths and the checked-out working tree it:
//
//  1. Splits each path into "{type}/{address}/{filename}" and separates
//     paths that follow the layout from those that do not.
//  2. Rejects the change set if any path is not allowed.
//  3. Rejects the change set if it touches more than one entity directory.
//  4. Lists the entity directory in the working tree. An empty or missing
//     directory means the entity was deleted.
//  5. Rejects an existing entity without info.json.
//  6. Reports info.json and logo.png for downstream validation only when
//     the file was changed and is still present.
//
// Every rejection posts exactly one notice to the pull request before the
// error is returned.
//
// # Basic Usage
//
//	c := classifier.New(os.DirFS(root), notifier, failure.Messages{})
//	d, err := c.Classify(ctx, paths)
//	if err != nil {
//	    return err
//	}
//	if d.Deleted {
//	    return nil
//	}
package classifier
