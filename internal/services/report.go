package services

// ImportReport summarises a bundle import.
type ImportReport struct {
	// Accounts is the number of manifest lines reconciled.
	Accounts int
	// MaFiles is the number of credential files reconciled.
	MaFiles int
	// Errors are advisory, in the order they were found.
	Errors []string
}

// Preview returns at most n advisory errors and how many were left out.
func (r ImportReport) Preview(n int) ([]string, int) {
	if len(r.Errors) <= n {
		return r.Errors, 0
	}
	return r.Errors[:n], len(r.Errors) - n
}
