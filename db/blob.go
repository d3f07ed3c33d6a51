package db

// Blob is opaque file content.
type Blob struct {
	Data []byte
}

func (blob *Blob) Kind() Kind {
	return KindBlob
}

func (blob *Blob) Serialize() ([]byte, error) {
	return blob.Data, nil
}

func (blob *Blob) Deserialize(payload []byte) error {
	blob.Data = payload
	return nil
}
