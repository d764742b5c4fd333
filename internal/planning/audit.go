package planning

import (
	"sort"

	"github.com/formaplan/formaplan-api/internal/models"
)

// DuplicateTemplate reports several validated template entries occupying the
// same (owner, weekday, slot) cell. Resolution still works (oldest entry
// wins) but the dataset should be repaired.
type DuplicateTemplate struct {
	OwnerType models.TemplateOwner `json:"owner_type"`
	OwnerID   string               `json:"owner_id"`
	Weekday   models.Weekday       `json:"weekday"`
	Slot      models.Slot          `json:"slot"`
	EntryIDs  []string             `json:"entry_ids"`
}

// FindDuplicateTemplates scans validated entries for cells holding more than
// one entry. Entry IDs are listed in creation order, so the first ID is the
// one resolution actually uses.
func FindDuplicateTemplates(entries []models.TemplateEntry) []DuplicateTemplate {
	type cell struct {
		owner   models.TemplateOwner
		ownerID string
		weekday models.Weekday
		slot    models.Slot
	}
	grouped := map[cell][]models.TemplateEntry{}
	var order []cell
	for _, e := range entries {
		if !e.Validated {
			continue
		}
		key := cell{owner: e.OwnerType, ownerID: e.OwnerID, weekday: e.Weekday, slot: e.Slot}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], e)
	}

	var out []DuplicateTemplate
	for _, key := range order {
		group := grouped[key]
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool { return group[i].CreatedAt.Before(group[j].CreatedAt) })
		dup := DuplicateTemplate{OwnerType: key.owner, OwnerID: key.ownerID, Weekday: key.weekday, Slot: key.slot}
		for _, e := range group {
			dup.EntryIDs = append(dup.EntryIDs, e.ID)
		}
		out = append(out, dup)
	}
	return out
}

// FindOrphanAbsences returns absences whose trainer is no longer in the
// roster. Orphans are surfaced for cleanup, never deleted implicitly.
func FindOrphanAbsences(absences []models.Absence, trainers []models.Trainer) []models.Absence {
	known := make(map[string]struct{}, len(trainers))
	for _, t := range trainers {
		known[t.ID] = struct{}{}
	}
	var out []models.Absence
	for _, a := range absences {
		if _, ok := known[a.TrainerID]; !ok {
			out = append(out, a)
		}
	}
	return out
}
