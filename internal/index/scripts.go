package index

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	domainbuild "lessonscript/internal/domain/build"
	"lessonscript/internal/mdx"
	"lessonscript/internal/render"

	bolt "go.etcd.io/bbolt"
)

var ErrNotFound = errors.New("not found")

// Entry is one cached normalized script.
type Entry struct {
	Source       string                  `json:"source"`
	Mode         string                  `json:"mode"`
	PreserveCode bool                    `json:"preserve_code"`
	Fingerprint  domainbuild.Fingerprint `json:"fingerprint"`
	Fragments    []mdx.FragmentRef       `json:"fragments,omitempty"`
	Text         string                  `json:"text"`
	Title        string                  `json:"title"`
	Outline      render.OutlineResult    `json:"outline"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

func (e Entry) Key() []byte {
	return Key(e.Source, e.Mode, e.PreserveCode)
}

// FragmentHashes maps each recorded fragment path to the hash it had when
// the entry was built. Missing fragments map to "".
func (e Entry) FragmentHashes() map[string]string {
	out := make(map[string]string, len(e.Fragments))
	for _, f := range e.Fragments {
		out[f.Path] = f.Hash
	}
	return out
}

func (s *Store) Get(key []byte) (Entry, error) {
	var e Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bScripts)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get(key)
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &e)
	})
	return e, err
}

func (s *Store) Put(e Entry) error {
	if e.Source == "" {
		return errBadKey
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bk, err := tx.CreateBucketIfNotExists(bScripts)
		if err != nil {
			return err
		}
		return bk.Put(e.Key(), b)
	})
}

// List returns every cached entry ordered by source, mode and preserve flag.
func (s *Store) List() ([]Entry, error) {
	var out []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bScripts)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			out = append(out, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		if out[i].Mode != out[j].Mode {
			return out[i].Mode < out[j].Mode
		}
		return !out[i].PreserveCode && out[j].PreserveCode
	})
	return out, nil
}

// Prune deletes every entry whose key is not in keep and reports how many
// were removed. Malformed keys are always removed.
func (s *Store) Prune(keep map[string]struct{}) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bScripts)
		if b == nil {
			return nil
		}
		var stale [][]byte
		err := b.ForEach(func(k, _ []byte) error {
			if _, _, _, err := splitKey(k); err != nil {
				stale = append(stale, append([]byte(nil), k...))
				return nil
			}
			if _, ok := keep[string(k)]; !ok {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		// bbolt forbids deleting while iterating
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}
