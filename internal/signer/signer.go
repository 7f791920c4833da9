package signer

// Signer signs generated properties documents
type Signer interface {
	// SignDetached creates an armored detached signature (<doc>.xml.asc)
	SignDetached(data []byte) ([]byte, error)

	// GetPublicKey returns the armored public key
	GetPublicKey() ([]byte, error)
}
