package model

// Test names the backend accepts for a diagnostic entry.
const (
	TestBlood = "Blood Test"
	TestUrine = "Urine Test"
	TestXRay  = "X-Ray"
	TestMRI   = "MRI"
)

// TestNames lists every accepted test name.
func TestNames() []string {
	return []string{TestBlood, TestUrine, TestXRay, TestMRI}
}

// ValidTestName reports whether name is one of the accepted test names.
func ValidTestName(name string) bool {
	for _, t := range TestNames() {
		if name == t {
			return true
		}
	}
	return false
}

// Patient is read-only from the client's perspective. A patient is consumed
// (converted into an Entry) at most once.
type Patient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TestName string `json:"test_name"`
}
