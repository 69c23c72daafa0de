// Package catalog computes visible pages of the department catalog. The
// helper is pure: it recomputes against whatever the current catalog state
// is, so entries added or deleted between page views are tolerated.
package catalog

import (
	"fmt"

	boterrors "hr-intake-bot/internal/common/errors"
	"hr-intake-bot/internal/models"
)

// WindowRequest asks for one page. Exactly one of Start and End is set:
// Start pages forward (ids >= Start), End pages backward (ids <= End).
type WindowRequest struct {
	Start *int64
	End   *int64
	Limit int
}

// Forward builds a forward-paging request.
func Forward(start int64, limit int) WindowRequest {
	return WindowRequest{Start: &start, Limit: limit}
}

// Backward builds a backward-paging request.
func Backward(end int64, limit int) WindowRequest {
	return WindowRequest{End: &end, Limit: limit}
}

// Page is one visible slice of the catalog, always ascending by id.
type Page struct {
	Entries []models.Department
	IsFirst bool
	IsLast  bool
}

// FirstID returns the id of the first visible entry.
func (p Page) FirstID() int64 { return p.Entries[0].ID }

// LastID returns the id of the last visible entry.
func (p Page) LastID() int64 { return p.Entries[len(p.Entries)-1].ID }

// Window computes the visible slice of the catalog for one page request.
// The catalog must be ordered ascending by id. An empty catalog yields
// ErrCatalogEmpty rather than an empty page.
func Window(entries []models.Department, req WindowRequest) (Page, error) {
	if len(entries) == 0 {
		return Page{}, boterrors.ErrCatalogEmpty
	}
	if (req.Start == nil) == (req.End == nil) {
		return Page{}, fmt.Errorf("window: exactly one of start and end must be set")
	}
	if req.Limit <= 0 {
		return Page{}, fmt.Errorf("window: limit must be positive")
	}

	var visible []models.Department
	if req.Start != nil {
		for _, e := range entries {
			if e.ID >= *req.Start {
				visible = append(visible, e)
				if len(visible) == req.Limit {
					break
				}
			}
		}
	} else {
		// Take the descending tail at or below End, then re-ascend so the
		// visible order stays ascending regardless of paging direction.
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].ID <= *req.End {
				visible = append([]models.Department{entries[i]}, visible...)
				if len(visible) == req.Limit {
					break
				}
			}
		}
	}

	if len(visible) == 0 {
		// The cursor ran past the catalog, e.g. the referenced entries were
		// deleted mid-browse. Fall back to the first page.
		return Window(entries, WindowRequest{Start: &entries[0].ID, Limit: req.Limit})
	}

	return Page{
		Entries: visible,
		IsFirst: visible[0].ID == entries[0].ID,
		IsLast:  visible[len(visible)-1].ID == entries[len(entries)-1].ID,
	}, nil
}
