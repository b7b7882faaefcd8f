// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docsync

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/projectmate/internal/model"
)

// Result is one kind's outcome from FetchAll.
type Result struct {
	Kind model.DocKind
	Doc  model.DocContent
	Err  error
}

// FetchAll fetches every document kind of a project concurrently. Results
// come back in tab order; a failed kind carries its error and never stops
// the others.
func FetchAll(ctx context.Context, gw Gateway, projectID int) []Result {
	kinds := model.DocKinds()
	results := make([]Result, len(kinds))

	eg, ctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		eg.Go(func() error {
			doc, err := gw.GetDocument(ctx, projectID, kind)
			results[i] = Result{Kind: kind, Doc: doc, Err: err}
			// Failures are reported per kind; returning nil keeps the group's
			// context alive for the remaining fetches.
			return nil
		})
	}
	_ = eg.Wait()
	return results
}
