package services

import (
	"errors"
	"testing"

	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/pkg/pagination"

	"github.com/samber/lo"
)

func TestPatientService_Create(t *testing.T) {
	f := newFixture(t)
	svc := NewPatientService(f.patients, f.users, f.cfg)
	svc.now = f.clock
	staff := f.createUser("staff@clinic.test", "STAFF", "password123")

	p, err := svc.Create(f.ctx, &CreatePatientInput{
		FirstName:    " Jane ",
		LastName:     "Doe",
		DateOfBirth:  "1990-05-17",
		Gender:       lo.ToPtr("female"),
		AssignedToID: &staff.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.FirstName != "Jane" || *p.Gender != "FEMALE" || *p.AssignedToID != staff.ID {
		t.Errorf("patient = %+v", p)
	}

	cases := []struct {
		name  string
		input CreatePatientInput
		want  error
	}{
		{"missing name", CreatePatientInput{FirstName: "Jane", DateOfBirth: "1990-05-17"}, ErrPatientNameRequired},
		{"bad date", CreatePatientInput{FirstName: "Jane", LastName: "Doe", DateOfBirth: "17/05/1990"}, ErrInvalidDateOfBirth},
		{"future date", CreatePatientInput{FirstName: "Jane", LastName: "Doe", DateOfBirth: "2030-01-01"}, ErrInvalidDateOfBirth},
		{"bad gender", CreatePatientInput{FirstName: "Jane", LastName: "Doe", DateOfBirth: "1990-05-17", Gender: lo.ToPtr("X")}, ErrInvalidGender},
		{"unknown assignee", CreatePatientInput{FirstName: "Jane", LastName: "Doe", DateOfBirth: "1990-05-17", AssignedToID: lo.ToPtr("ghost")}, ErrAssigneeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(f.ctx, &tc.input); !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPatientService_ListAndAssigned(t *testing.T) {
	f := newFixture(t)
	svc := NewPatientService(f.patients, f.users, f.cfg)
	svc.now = f.clock
	staff := f.createUser("staff@clinic.test", "STAFF", "password123")

	for i := 0; i < 3; i++ {
		in := &CreatePatientInput{FirstName: "P", LastName: string(rune('A' + i)), DateOfBirth: "1990-01-01"}
		if i == 0 {
			in.AssignedToID = &staff.ID
		}
		if _, err := svc.Create(f.ctx, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	page, err := svc.List(f.ctx, pagination.New(1, 2))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	items, _ := page.Items.([]*models.Patient)
	if len(items) != 2 || page.Meta.Total != 3 || !page.Meta.HasNext {
		t.Errorf("page = %d items, meta %+v", len(items), page.Meta)
	}

	assigned, err := svc.ListAssignedTo(f.ctx, staff.ID)
	if err != nil || len(assigned) != 1 {
		t.Errorf("ListAssignedTo = %d, %v", len(assigned), err)
	}
	if _, err := svc.ListAssignedTo(f.ctx, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user error = %v", err)
	}

	users, err := NewUserService(f.users).ListUsers(f.ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 || len(users[0].AssignedPatients) != 1 {
		t.Errorf("ListUsers = %+v", users)
	}
}
