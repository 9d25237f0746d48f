package discovery

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/postroom/editorsearch/internal/model"
	"github.com/postroom/editorsearch/internal/store"
)

// Merger applies a resolved candidate to the record set. Matched candidates
// enrich the existing record; unmatched candidates become new records.
type Merger struct {
	store store.Store
}

// NewMerger creates a Merger backed by the given store.
func NewMerger(st store.Store) *Merger {
	return &Merger{store: st}
}

// Merge persists the outcome of resolving cand. For exact and fuzzy matches
// target must be the matched record; it is enriched in place. For no match a
// new unverified record is created. Returns the resulting record and whether
// it was newly created.
//
// Merge is idempotent: re-merging the same candidate against its own result
// changes nothing but the timestamp.
func (m *Merger) Merge(ctx context.Context, cand model.Candidate, match model.MatchResult, target *model.Editor, now time.Time) (*model.Editor, bool, error) {
	switch match.Kind {
	case model.MatchExact, model.MatchFuzzy:
		if target == nil {
			return nil, false, eris.Errorf("merge: %s match for %q without target record", match.Kind, cand.RawName)
		}
		changed := target.AddSpecialties(cand.Specialties) > 0
		changed = target.AddOrigin(cand.OriginID, now) || changed
		if target.StartYear == 0 && cand.StartYear > 0 {
			target.StartYear = cand.StartYear
			changed = true
		}
		if changed {
			target.UpdatedAt = now
			if err := m.store.UpsertEditor(ctx, target); err != nil {
				return nil, false, err
			}
		}
		zap.L().Debug("candidate merged",
			zap.String("name", cand.RawName),
			zap.String("editor_id", target.ID),
			zap.String("kind", string(match.Kind)),
			zap.Bool("changed", changed))
		return target, false, nil

	case model.MatchNone:
		e := &model.Editor{
			ID:          uuid.New().String(),
			Name:        cand.RawName,
			Specialties: cand.Specialties,
			StartYear:   cand.StartYear,
			Status:      model.StatusUnknown,
			Provenance:  []model.ProvenanceEntry{{OriginID: cand.OriginID, ContributedAt: now}},
			Verified:    false,
			UpdatedAt:   now,
		}
		if err := m.store.UpsertEditor(ctx, e); err != nil {
			return nil, false, err
		}
		zap.L().Debug("candidate promoted to new record",
			zap.String("name", cand.RawName),
			zap.String("editor_id", e.ID))
		return e, true, nil

	default:
		return nil, false, eris.Errorf("merge: unknown match kind %q", match.Kind)
	}
}

// Blend combines locally retrieved records with records touched by a
// discovery run, deduplicated by ID with the touched version winning,
// ordered most recently updated first and capped at limit.
func Blend(local []model.Editor, touched []model.Editor, limit int) []model.Editor {
	byID := make(map[string]model.Editor, len(local)+len(touched))
	order := make([]string, 0, len(local)+len(touched))
	for _, e := range local {
		if _, ok := byID[e.ID]; !ok {
			order = append(order, e.ID)
		}
		byID[e.ID] = e
	}
	for _, e := range touched {
		if _, ok := byID[e.ID]; !ok {
			order = append(order, e.ID)
		}
		byID[e.ID] = e
	}

	out := make([]model.Editor, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
