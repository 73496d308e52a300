package service

import (
	"context"

	"lis_client/internal/api"
	"lis_client/internal/model"
)

// Listing provides the read side: fresh, uncached fetches of patients and
// entries. Every call performs an independent read with no dependency on
// prior calls.
type Listing interface {
	// AvailablePatients returns patients not yet consumed by any entry,
	// regardless of that entry's status.
	AvailablePatients(ctx context.Context) ([]model.Patient, error)
	// GeneratePatients asks the backend for a fresh patient pool and then
	// applies the same consumed-patient filter.
	GeneratePatients(ctx context.Context) ([]model.Patient, error)
	Entries(ctx context.Context) ([]model.Entry, error)
	// LookupPatient finds one patient by id in the current pool. A missing
	// patient is (nil, nil), not an error.
	LookupPatient(ctx context.Context, patientID string) (*model.Patient, error)
}

type listing struct {
	client *api.Client
}

// NewListing creates a new Listing
func NewListing(client *api.Client) Listing {
	return &listing{client: client}
}

func (l *listing) AvailablePatients(ctx context.Context) ([]model.Patient, error) {
	used, err := l.consumedPatientIDs(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := l.client.ListPatients(ctx)
	if err != nil {
		return nil, err
	}
	return filterPatients(patients, used), nil
}

func (l *listing) GeneratePatients(ctx context.Context) ([]model.Patient, error) {
	used, err := l.consumedPatientIDs(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := l.client.GeneratePatients(ctx)
	if err != nil {
		return nil, err
	}
	return filterPatients(patients, used), nil
}

func (l *listing) Entries(ctx context.Context) ([]model.Entry, error) {
	return l.client.ListEntries(ctx)
}

func (l *listing) LookupPatient(ctx context.Context, patientID string) (*model.Patient, error) {
	patients, err := l.client.ListPatients(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range patients {
		if p.ID == patientID {
			return &p, nil
		}
	}
	return nil, nil
}

// consumedPatientIDs is fetched before the patient list so a patient
// consumed in between the two reads can only disappear, never reappear.
func (l *listing) consumedPatientIDs(ctx context.Context) (map[string]bool, error) {
	entries, err := l.client.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	used := make(map[string]bool, len(entries))
	for _, e := range entries {
		used[e.PatientID] = true
	}
	return used, nil
}

func filterPatients(patients []model.Patient, used map[string]bool) []model.Patient {
	available := make([]model.Patient, 0, len(patients))
	for _, p := range patients {
		if !used[p.ID] {
			available = append(available, p)
		}
	}
	return available
}
