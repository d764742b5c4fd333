package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formaplan/formaplan-api/internal/models"
)

func TestFindDuplicateTemplates(t *testing.T) {
	older := templateEntry("tpl-old", "t1", models.Monday, models.SlotMorning, nil, day(t, "2024-01-01"))
	newer := templateEntry("tpl-new", "t1", models.Monday, models.SlotMorning, nil, day(t, "2025-01-01"))
	other := templateEntry("tpl-other", "t1", models.Monday, models.SlotAfternoon, nil, day(t, "2024-01-01"))
	unvalidated := templateEntry("tpl-draft", "t1", models.Monday, models.SlotMorning, nil, day(t, "2023-01-01"))
	unvalidated.Validated = false

	dups := FindDuplicateTemplates([]models.TemplateEntry{newer, older, other, unvalidated})
	require.Len(t, dups, 1)
	assert.Equal(t, "t1", dups[0].OwnerID)
	assert.Equal(t, models.Monday, dups[0].Weekday)
	assert.Equal(t, models.SlotMorning, dups[0].Slot)
	// Oldest first: the entry resolution actually uses.
	assert.Equal(t, []string{"tpl-old", "tpl-new"}, dups[0].EntryIDs)
}

func TestFindDuplicateTemplatesNoneOnCleanData(t *testing.T) {
	entries := []models.TemplateEntry{
		templateEntry("tpl1", "t1", models.Monday, models.SlotMorning, nil, day(t, "2024-01-01")),
		templateEntry("tpl2", "t1", models.Tuesday, models.SlotMorning, nil, day(t, "2024-01-01")),
		templateEntry("tpl3", "t2", models.Monday, models.SlotMorning, nil, day(t, "2024-01-01")),
	}
	assert.Empty(t, FindDuplicateTemplates(entries))
}

func TestFindOrphanAbsences(t *testing.T) {
	trainers := []models.Trainer{{ID: "t1"}, {ID: "t2"}}
	kept := absence("t1", models.AbsencePersonal, models.AbsenceValidated, day(t, "2025-09-01"), day(t, "2025-09-01"))
	orphan := absence("ghost", models.AbsencePersonal, models.AbsenceValidated, day(t, "2025-09-01"), day(t, "2025-09-01"))

	got := FindOrphanAbsences([]models.Absence{kept, orphan}, trainers)
	require.Len(t, got, 1)
	assert.Equal(t, "ghost", got[0].TrainerID)
}
