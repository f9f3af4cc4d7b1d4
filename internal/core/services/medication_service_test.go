package services

import (
	"errors"
	"testing"
	"time"

	"carepath-api/internal/core/domain"
	"carepath-api/internal/pkg/pagination"
)

func TestMedicationService_CreateMedication(t *testing.T) {
	f := newFixture(t)
	svc := f.medicationService()

	if _, err := svc.CreateMedication(f.ctx, &CreateMedicationInput{Name: "Ibuprofen"}); err != nil {
		t.Fatalf("CreateMedication: %v", err)
	}
	if _, err := svc.CreateMedication(f.ctx, &CreateMedicationInput{Name: " Ibuprofen "}); !errors.Is(err, ErrMedicationExists) || !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate error = %v, want ErrMedicationExists", err)
	}
	if _, err := svc.CreateMedication(f.ctx, &CreateMedicationInput{Name: "  "}); !errors.Is(err, ErrMedicationNameRequired) {
		t.Errorf("blank name error = %v", err)
	}
}

func TestMedicationService_CreateMedicationsSkipsExisting(t *testing.T) {
	f := newFixture(t)
	svc := f.medicationService()

	if _, err := svc.CreateMedication(f.ctx, &CreateMedicationInput{Name: "Ibuprofen"}); err != nil {
		t.Fatalf("CreateMedication: %v", err)
	}

	result, err := svc.CreateMedications(f.ctx, &BulkCreateMedicationsInput{Medications: []CreateMedicationInput{
		{Name: "Ibuprofen"}, {Name: "Paracetamol"}, {Name: "Amoxicillin"}, {Name: "Paracetamol"},
	}})
	if err != nil {
		t.Fatalf("CreateMedications: %v", err)
	}
	if len(result.Created) != 2 || len(result.Skipped) != 1 || result.Skipped[0] != "Ibuprofen" {
		t.Errorf("result created=%d skipped=%v", len(result.Created), result.Skipped)
	}

	_, err = svc.CreateMedications(f.ctx, &BulkCreateMedicationsInput{Medications: []CreateMedicationInput{
		{Name: "Ibuprofen"}, {Name: "Paracetamol"},
	}})
	if !errors.Is(err, ErrAllMedicationsExist) {
		t.Errorf("all existing error = %v, want ErrAllMedicationsExist", err)
	}

	all, err := svc.ListMedications(f.ctx)
	if err != nil || len(all) != 3 {
		t.Errorf("ListMedications = %d, %v", len(all), err)
	}
}

func TestMedicationService_PrescribeOncePerPatient(t *testing.T) {
	f := newFixture(t)
	svc := f.medicationService()
	patient := f.createPatient("Jane", "Doe")
	med, err := svc.CreateMedication(f.ctx, &CreateMedicationInput{Name: "Ibuprofen"})
	if err != nil {
		t.Fatalf("CreateMedication: %v", err)
	}

	in := &PrescribeInput{MedicationID: med.ID, PatientID: patient.ID, Dosage: "200mg", Frequency: "daily"}
	p, err := svc.Prescribe(f.ctx, in)
	if err != nil {
		t.Fatalf("Prescribe: %v", err)
	}
	if p.Frequency != "DAILY" {
		t.Errorf("frequency = %s", p.Frequency)
	}

	if _, err := svc.Prescribe(f.ctx, in); !errors.Is(err, ErrPrescriptionExists) {
		t.Errorf("duplicate error = %v, want ErrPrescriptionExists", err)
	}

	bad := *in
	bad.Frequency = "HOURLY"
	if _, err := svc.Prescribe(f.ctx, &bad); !errors.Is(err, ErrInvalidMedicationFrequency) {
		t.Errorf("bad frequency error = %v", err)
	}
	bad = *in
	bad.MedicationID = "ghost"
	if _, err := svc.Prescribe(f.ctx, &bad); !errors.Is(err, ErrMedicationNotFound) {
		t.Errorf("unknown medication error = %v", err)
	}

	list, err := svc.ListPrescriptions(f.ctx)
	if err != nil || len(list) != 1 {
		t.Errorf("ListPrescriptions = %d, %v", len(list), err)
	}
}

func TestMedicationService_DispenseWindows(t *testing.T) {
	cases := []struct {
		frequency string
		first     time.Time
		blocked   time.Time
		allowed   time.Time
	}{
		{
			frequency: "DAILY",
			first:     time.Date(2025, 6, 11, 8, 0, 0, 0, time.UTC),
			blocked:   time.Date(2025, 6, 11, 23, 59, 0, 0, time.UTC),
			allowed:   time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			// Wednesday, then Sunday of the same ISO week, then Monday
			frequency: "WEEKLY",
			first:     time.Date(2025, 6, 11, 8, 0, 0, 0, time.UTC),
			blocked:   time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC),
			allowed:   time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			frequency: "MONTHLY",
			first:     time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC),
			blocked:   time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC),
			allowed:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.frequency, func(t *testing.T) {
			f := newFixture(t)
			svc := f.medicationService()
			patient := f.createPatient("Jane", "Doe")
			med, err := svc.CreateMedication(f.ctx, &CreateMedicationInput{Name: "Med " + tc.frequency})
			if err != nil {
				t.Fatalf("CreateMedication: %v", err)
			}
			p, err := svc.Prescribe(f.ctx, &PrescribeInput{MedicationID: med.ID, PatientID: patient.ID, Dosage: "1 tab", Frequency: tc.frequency})
			if err != nil {
				t.Fatalf("Prescribe: %v", err)
			}
			in := &DispenseInput{AssignmentID: p.ID, PatientID: patient.ID}

			f.now = tc.first
			if _, err := svc.Dispense(f.ctx, in); err != nil {
				t.Fatalf("first Dispense: %v", err)
			}

			f.now = tc.blocked
			if _, err := svc.Dispense(f.ctx, in); !errors.Is(err, ErrAlreadyDispensed) || !errors.Is(err, domain.ErrConflict) {
				t.Errorf("Dispense in same window error = %v, want ErrAlreadyDispensed", err)
			}

			f.now = tc.allowed
			if _, err := svc.Dispense(f.ctx, in); err != nil {
				t.Errorf("Dispense in next window: %v", err)
			}
		})
	}
}

func TestMedicationService_DispenseValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.medicationService()
	jane := f.createPatient("Jane", "Doe")
	john := f.createPatient("John", "Roe")
	med, _ := svc.CreateMedication(f.ctx, &CreateMedicationInput{Name: "Ibuprofen"})
	p, err := svc.Prescribe(f.ctx, &PrescribeInput{MedicationID: med.ID, PatientID: jane.ID, Dosage: "200mg", Frequency: "WEEKLY"})
	if err != nil {
		t.Fatalf("Prescribe: %v", err)
	}

	if _, err := svc.Dispense(f.ctx, &DispenseInput{AssignmentID: p.ID, PatientID: john.ID}); !errors.Is(err, ErrDispensePatientMismatch) {
		t.Errorf("mismatch error = %v", err)
	}
	if _, err := svc.Dispense(f.ctx, &DispenseInput{AssignmentID: "ghost", PatientID: jane.ID}); !errors.Is(err, ErrPrescriptionNotFound) {
		t.Errorf("unknown prescription error = %v", err)
	}
	if _, err := svc.Dispense(f.ctx, &DispenseInput{}); !errors.Is(err, ErrDispenseFieldsMissing) {
		t.Errorf("empty input error = %v", err)
	}

	if _, err := svc.Dispense(f.ctx, &DispenseInput{AssignmentID: p.ID, PatientID: jane.ID}); err != nil {
		t.Fatalf("Dispense: %v", err)
	}
	page, err := svc.ListDispenseHistory(f.ctx, pagination.New(1, 20))
	if err != nil {
		t.Fatalf("ListDispenseHistory: %v", err)
	}
	if page.Meta.Total != 1 {
		t.Errorf("history total = %d", page.Meta.Total)
	}
}
