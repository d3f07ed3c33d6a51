package db

// Tree is a directory listing.  Its entry format is not interpreted
// here; the payload is carried as-is.
// XXX parse entries once ls-tree or checkout needs them
type Tree struct {
	Data []byte
}

func (tree *Tree) Kind() Kind {
	return KindTree
}

func (tree *Tree) Serialize() ([]byte, error) {
	return tree.Data, nil
}

func (tree *Tree) Deserialize(payload []byte) error {
	tree.Data = payload
	return nil
}
