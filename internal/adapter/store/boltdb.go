package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.etcd.io/bbolt"
	"ternsnip/internal/domain"
)

var (
	bucketDefs       = []byte("defs")
	bucketOriginDefs = []byte("origin_defs")
	bucketOrigins    = []byte("origins")
	bucketStats      = []byte("stats")
)

// ErrNotFound is returned when a definition is not in the catalog.
var ErrNotFound = errors.New("definition not found")

type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketDefs, bucketOriginDefs, bucketOrigins, bucketStats}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type originMeta struct {
	ModTime int64 `json:"mod_time"`
	Defs    int   `json:"defs"`
}

// PutDefinitions replaces the definitions previously stored for origin.
// A name defined by several origins belongs to the last one written.
func (s *BoltStore) PutDefinitions(origin string, modTime time.Time, defs []domain.Definition) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := deleteOrigin(tx, origin); err != nil {
			return err
		}

		defsBucket := tx.Bucket(bucketDefs)
		names := make([]string, 0, len(defs))
		for _, def := range defs {
			def.Origin = origin
			data, err := json.Marshal(def)
			if err != nil {
				return err
			}
			if err := defsBucket.Put([]byte(def.Name), data); err != nil {
				return err
			}
			names = append(names, def.Name)
		}

		namesData, err := json.Marshal(names)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketOriginDefs).Put([]byte(origin), namesData); err != nil {
			return err
		}

		metaData, err := json.Marshal(originMeta{ModTime: modTime.Unix(), Defs: len(defs)})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketOrigins).Put([]byte(origin), metaData)
	})
}

func (s *BoltStore) GetDefinition(name string) (domain.Definition, error) {
	var def domain.Definition
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDefs).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return json.Unmarshal(data, &def)
	})
	return def, err
}

func (s *BoltStore) DeleteOrigin(origin string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := deleteOrigin(tx, origin); err != nil {
			return err
		}
		return tx.Bucket(bucketOrigins).Delete([]byte(origin))
	})
}

// deleteOrigin removes the definitions origin still owns.
func deleteOrigin(tx *bbolt.Tx, origin string) error {
	originDefs := tx.Bucket(bucketOriginDefs)
	data := originDefs.Get([]byte(origin))
	if data == nil {
		return nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}

	defsBucket := tx.Bucket(bucketDefs)
	for _, name := range names {
		existing := defsBucket.Get([]byte(name))
		if existing == nil {
			continue
		}
		var def domain.Definition
		if err := json.Unmarshal(existing, &def); err != nil || def.Origin != origin {
			continue
		}
		if err := defsBucket.Delete([]byte(name)); err != nil {
			return err
		}
	}
	return originDefs.Delete([]byte(origin))
}

func (s *BoltStore) ListOrigins() ([]domain.Origin, error) {
	var origins []domain.Origin
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketOrigins).ForEach(func(k, v []byte) error {
			var meta originMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			origins = append(origins, domain.Origin{
				Path:    string(k),
				ModTime: time.Unix(meta.ModTime, 0),
				Defs:    meta.Defs,
			})
			return nil
		})
	})
	return origins, err
}

// SearchDefinitions returns definitions whose name contains query,
// ignoring case, sorted by name.
func (s *BoltStore) SearchDefinitions(query string) ([]domain.Definition, error) {
	var matches []domain.Definition
	queryLower := strings.ToLower(query)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDefs).ForEach(func(k, v []byte) error {
			if !strings.Contains(strings.ToLower(string(k)), queryLower) {
				return nil
			}
			var def domain.Definition
			if err := json.Unmarshal(v, &def); err != nil {
				return nil
			}
			matches = append(matches, def)
			return nil
		})
	})
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, err
}

func (s *BoltStore) GetStats() (domain.Stats, error) {
	var stats domain.Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		stats.TotalOrigins = tx.Bucket(bucketOrigins).Stats().KeyN
		return tx.Bucket(bucketDefs).ForEach(func(k, v []byte) error {
			stats.TotalDefs++
			var def domain.Definition
			if err := json.Unmarshal(v, &def); err == nil && def.Snippet != "" {
				stats.WithSnippet++
			}
			return nil
		})
	})
	return stats, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
