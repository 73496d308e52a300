package fakelis

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"lis_client/internal/model"
)

var firstNames = []string{
	"James", "Mary", "John", "Patricia",
	"David", "Linda", "Michael", "Jennifer",
}

var lastNames = []string{
	"Smith", "Johnson", "Brown", "Williams",
	"Jones", "Garcia", "Miller", "Davis",
}

var rolePrefix = map[model.Role]string{
	model.RoleAdmin:      "A",
	model.RoleTechnician: "T",
	model.RoleSupervisor: "S",
}

// userRecord is a user account plus the credential the API never exposes.
type userRecord struct {
	model.User
	PasswordHash string
}

// store holds all backend state in memory. One mutex guards everything;
// the stand-in trades throughput for being trivially correct.
type store struct {
	mu          sync.Mutex
	users       map[string]*userRecord
	patients    map[string]model.Patient
	entries     map[int]*model.Entry
	nextEntryID int
	rng         *rand.Rand
}

func newStore() *store {
	return &store{
		users:       make(map[string]*userRecord),
		patients:    make(map[string]model.Patient),
		entries:     make(map[int]*model.Entry),
		nextEntryID: 1,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// putUser inserts a user under a fixed id, used for the seeded accounts.
func (s *store) putUser(id, name, passwordHash string, role model.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = &userRecord{
		User:         model.User{ID: id, Name: name, Role: role},
		PasswordHash: passwordHash,
	}
}

// userByName looks a user up by login name.
func (s *store) userByName(name string) (*userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Name == name {
			return u, true
		}
	}
	return nil, false
}

func (s *store) userByID(id string) (*userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

// createUser allocates a role-prefixed id and stores the account.
func (s *store) createUser(name, passwordHash string, role model.Role) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix, ok := rolePrefix[role]
	if !ok {
		prefix = "U"
	}
	var id string
	for {
		id = fmt.Sprintf("%s%02d", prefix, 10+s.rng.Intn(90))
		if _, taken := s.users[id]; !taken {
			break
		}
	}
	u := &userRecord{
		User:         model.User{ID: id, Name: name, Role: role},
		PasswordHash: passwordHash,
	}
	s.users[id] = u
	return u.User
}

func (s *store) deleteUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	return true
}

func (s *store) promoteUser(id string, role model.Role) (*model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	u.Role = role
	out := u.User
	return &out, true
}

func (s *store) listUsers() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// regeneratePatients drops patients not yet consumed by an entry and
// generates a fresh pool of n random ones.
func (s *store) regeneratePatients(n int) []model.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := make(map[string]bool)
	for _, e := range s.entries {
		used[e.PatientID] = true
	}
	for id := range s.patients {
		if !used[id] {
			delete(s.patients, id)
		}
	}

	fresh := make([]model.Patient, 0, n)
	for len(fresh) < n {
		var id string
		for {
			id = fmt.Sprintf("P%02d", 10+s.rng.Intn(90))
			if _, taken := s.patients[id]; !taken {
				break
			}
		}
		p := model.Patient{
			ID:       id,
			Name:     firstNames[s.rng.Intn(len(firstNames))] + " " + lastNames[s.rng.Intn(len(lastNames))],
			TestName: model.TestNames()[s.rng.Intn(len(model.TestNames()))],
		}
		s.patients[id] = p
		fresh = append(fresh, p)
	}
	return fresh
}

func (s *store) listPatients() []model.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) patientByID(id string) (model.Patient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	return p, ok
}

// entryForPatient reports whether any entry already references the patient,
// regardless of that entry's status.
func (s *store) entryForPatient(patientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.PatientID == patientID {
			return true
		}
	}
	return false
}

func (s *store) createEntry(patientID, testName, technicianID string) model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &model.Entry{
		ID:           s.nextEntryID,
		PatientID:    patientID,
		TechnicianID: &technicianID,
		TestName:     testName,
		Status:       model.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	s.nextEntryID++
	s.entries[e.ID] = e
	return *e
}

func (s *store) entryByID(id int) (model.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return model.Entry{}, false
	}
	return *e, true
}

func (s *store) listEntries() []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// processEntry moves a Pending entry to Processed. The returned bool pair is
// (found, wasPending).
func (s *store) processEntry(id int) (model.Entry, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return model.Entry{}, false, false
	}
	if e.Status != model.StatusPending {
		return *e, true, false
	}
	e.Status = model.StatusProcessed
	return *e, true, true
}

// verifyEntry moves a Processed entry to Verified, recording the result and
// the verifying supervisor. The returned bool pair is (found, wasProcessed).
func (s *store) verifyEntry(id int, result model.Result, supervisorID string) (model.Entry, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return model.Entry{}, false, false
	}
	if e.Status != model.StatusProcessed {
		return *e, true, false
	}
	e.Status = model.StatusVerified
	e.Result = &result
	e.SupervisorID = &supervisorID
	return *e, true, true
}
