//Package store keeps trained trees in a bbolt database under user chosen names.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
	"go.etcd.io/bbolt"
)

const treesBucket = "trees"

//ErrTreeNotFound is returned for names without a stored tree.
var ErrTreeNotFound = errors.New("tree not found")

//TreeStore is a database of trees. It is safe for concurrent use.
type TreeStore struct {
	path string
	db   *bbolt.DB
}

//Open opens or creates the database file.
func Open(path string) (*TreeStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, &udtl.PersistenceError{Op: "open", Path: path, Err: err}
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(treesBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, &udtl.PersistenceError{Op: "create bucket", Path: path, Err: err}
	}

	return &TreeStore{path: path, db: db}, nil
}

//Close releases the database file. Closing twice is allowed.
func (s *TreeStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

//Put stores the tree, replacing a tree of the same name.
func (s *TreeStore) Put(name string, tree *udtl.DecisionTree) error {
	if name == "" {
		return &udtl.DataError{Reason: "empty tree name"}
	}
	data, err := udtl.MarshalTree(tree)
	if err != nil {
		return &udtl.PersistenceError{Op: "encode", Path: s.path, Err: err}
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(treesBucket)).Put([]byte(name), data)
	})
	if err != nil {
		return &udtl.PersistenceError{Op: "put " + name, Path: s.path, Err: err}
	}
	return nil
}

//Get loads the named tree.
func (s *TreeStore) Get(name string) (*udtl.DecisionTree, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		value := tx.Bucket([]byte(treesBucket)).Get([]byte(name))
		if value == nil {
			return ErrTreeNotFound
		}
		// value is valid only inside the transaction
		data = append([]byte(nil), value...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", name, err)
	}

	tree, err := udtl.UnmarshalTree(data)
	if err != nil {
		return nil, &udtl.PersistenceError{Op: "decode " + name, Path: s.path, Err: err}
	}
	return tree, nil
}

//List returns names of all stored trees in lexicographic order.
func (s *TreeStore) List() ([]string, error) {
	names := make([]string, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(treesBucket)).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, &udtl.PersistenceError{Op: "list", Path: s.path, Err: err}
	}
	return names, nil
}

//Delete removes the named tree.
func (s *TreeStore) Delete(name string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(treesBucket))
		if b.Get([]byte(name)) == nil {
			return ErrTreeNotFound
		}
		return b.Delete([]byte(name))
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	return nil
}
