package ports

// OverwritePolicy substitutes deployment-managed values into decrypted
// credential data. Apply must be pure: no I/O, no mutation of the
// input, and when nothing changes it must return data itself, not a
// copy.
type OverwritePolicy interface {
	Apply(credType string, data map[string]any) map[string]any
}
