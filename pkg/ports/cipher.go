package ports

// Cipher converts credential payloads to their stored form and back.
type Cipher interface {
	// Encrypt serializes and seals a credential payload.
	Encrypt(data map[string]any) ([]byte, error)

	// Decrypt opens a stored payload back into its fields.
	Decrypt(blob []byte) (map[string]any, error)
}
