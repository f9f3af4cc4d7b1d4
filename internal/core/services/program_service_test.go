package services

import (
	"errors"
	"testing"
	"time"

	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/core/domain"

	"github.com/samber/lo"
)

func TestProgramService_CreateDerivesStatus(t *testing.T) {
	f := newFixture(t)
	svc := f.programService()

	cases := []struct {
		start, end string
		want       string
	}{
		{"2025-01-01", "2025-12-31", "ONGOING"},
		{"2024-01-01", "2024-12-31", "COMPLETED"},
		{"2026-01-01", "2026-03-31", "UPCOMING"},
	}
	for _, tc := range cases {
		p, err := svc.Create(f.ctx, &CreateProgramInput{Name: "P", Description: "d", StartDate: tc.start, EndDate: tc.end})
		if err != nil {
			t.Fatalf("Create(%s..%s): %v", tc.start, tc.end, err)
		}
		if p.Status != tc.want {
			t.Errorf("Create(%s..%s) status = %s, want %s", tc.start, tc.end, p.Status, tc.want)
		}
	}

	p, err := svc.Create(f.ctx, &CreateProgramInput{
		Name: "Archived", Description: "d", StartDate: "2025-01-01", EndDate: "2025-12-31", Status: lo.ToPtr("archived"),
	})
	if err != nil {
		t.Fatalf("Create with status: %v", err)
	}
	if p.Status != "ARCHIVED" {
		t.Errorf("explicit status = %s", p.Status)
	}
}

func TestProgramService_CreateValidates(t *testing.T) {
	f := newFixture(t)
	svc := f.programService()

	cases := []struct {
		name  string
		input CreateProgramInput
		want  error
	}{
		{"missing name", CreateProgramInput{Description: "d", StartDate: "2025-01-01", EndDate: "2025-02-01"}, ErrProgramFieldsMissing},
		{"bad date", CreateProgramInput{Name: "P", Description: "d", StartDate: "soon", EndDate: "2025-02-01"}, ErrInvalidProgramDates},
		{"end before start", CreateProgramInput{Name: "P", Description: "d", StartDate: "2025-02-01", EndDate: "2025-01-01"}, ErrProgramDateOrder},
		{"bad status", CreateProgramInput{Name: "P", Description: "d", StartDate: "2025-01-01", EndDate: "2025-02-01", Status: lo.ToPtr("PAUSED")}, ErrInvalidProgramStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(f.ctx, &tc.input)
			if !errors.Is(err, tc.want) || !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestProgramService_UpdatePartial(t *testing.T) {
	f := newFixture(t)
	svc := f.programService()

	p, err := svc.Create(f.ctx, &CreateProgramInput{Name: "Rehab", Description: "d", StartDate: "2025-01-01", EndDate: "2025-12-31"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(f.ctx, p.ID, &UpdateProgramInput{Name: lo.ToPtr("Rehab II")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Rehab II" || updated.Description != "d" || !updated.EndDate.Equal(date(2025, 12, 31)) {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := svc.Update(f.ctx, p.ID, &UpdateProgramInput{EndDate: lo.ToPtr("2024-12-31")}); !errors.Is(err, ErrProgramDateOrder) {
		t.Errorf("end before start error = %v", err)
	}
	if _, err := svc.Update(f.ctx, "missing", &UpdateProgramInput{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing program error = %v", err)
	}
}

func TestProgramService_SweepStatuses(t *testing.T) {
	f := newFixture(t)
	svc := f.programService()

	ended := f.createProgram("ended", date(2025, 1, 1), date(2025, 3, 1), "ONGOING")
	running := f.createProgram("running", date(2025, 6, 1), date(2025, 7, 1), "UPCOMING")
	future := f.createProgram("future", date(2025, 9, 1), date(2025, 10, 1), "COMPLETED")
	archivedPast := f.createProgram("archived past", date(2024, 1, 1), date(2024, 12, 31), "ARCHIVED")
	archivedCurrent := f.createProgram("archived current", date(2025, 1, 1), date(2025, 12, 31), "ARCHIVED")

	result, err := svc.SweepStatuses(f.ctx)
	if err != nil {
		t.Fatalf("SweepStatuses: %v", err)
	}
	if result.Completed != 2 || result.Ongoing != 2 || result.Upcoming != 1 {
		t.Errorf("result = %+v", result)
	}

	want := map[string]string{
		ended.ID: "COMPLETED", running.ID: "ONGOING", future.ID: "UPCOMING",
		archivedPast.ID: "COMPLETED", archivedCurrent.ID: "ONGOING",
	}
	for id, status := range want {
		p, err := svc.GetByID(f.ctx, id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if p.Status != status {
			t.Errorf("%s status = %s, want %s", p.Name, p.Status, status)
		}
	}

	again, err := svc.SweepStatuses(f.ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if again.Total() != 0 {
		t.Errorf("second sweep changed %d programs", again.Total())
	}

	f.now = time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	later, err := svc.SweepStatuses(f.ctx)
	if err != nil {
		t.Fatalf("later sweep: %v", err)
	}
	if later.Completed != 1 || later.Total() != 1 {
		t.Errorf("later sweep = %+v", later)
	}
}

func TestProgramService_ListCacheInvalidation(t *testing.T) {
	f := newFixture(t)
	svc := f.programService()

	if _, err := svc.Create(f.ctx, &CreateProgramInput{Name: "A", Description: "d", StartDate: "2025-01-01", EndDate: "2025-12-31"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	first, err := svc.List(f.ctx)
	if err != nil || len(first) != 1 {
		t.Fatalf("List = %d, %v", len(first), err)
	}

	// rows written behind the service's back stay hidden until invalidation
	f.createProgram("B", date(2025, 1, 1), date(2025, 12, 31), "ONGOING")
	cached, _ := svc.List(f.ctx)
	if len(cached) != 1 {
		t.Errorf("cached List = %d, want 1", len(cached))
	}

	if _, err := svc.Create(f.ctx, &CreateProgramInput{Name: "C", Description: "d", StartDate: "2025-01-01", EndDate: "2025-12-31"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	fresh, err := svc.List(f.ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(fresh) != 3 {
		t.Errorf("List after create = %d, want 3", len(fresh))
	}
}

func TestProgramService_ListUpcoming(t *testing.T) {
	f := newFixture(t)
	svc := f.programService()

	f.createProgram("past", date(2024, 1, 1), date(2024, 2, 1), "COMPLETED")
	f.createProgram("later", date(2025, 9, 1), date(2025, 10, 1), "UPCOMING")
	f.createProgram("now", date(2025, 6, 1), date(2025, 7, 1), "ONGOING")

	programs, err := svc.ListUpcoming(f.ctx)
	if err != nil {
		t.Fatalf("ListUpcoming: %v", err)
	}
	names := lo.Map(programs, func(p *models.Program, _ int) string { return p.Name })
	if len(names) != 2 || names[0] != "now" || names[1] != "later" {
		t.Errorf("ListUpcoming = %v", names)
	}
}
