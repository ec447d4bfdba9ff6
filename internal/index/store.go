package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	domainbuild "lessonscript/internal/domain/build"

	bolt "go.etcd.io/bbolt"
)

type Store struct {
	db *bolt.DB
}

type OpenOptions struct {
	Path string // e.g. ".lessonscript/cache.db"
}

// Open creates the cache database if needed. A database written by a
// different engine version is emptied so no stale script survives.
func Open(opt OpenOptions) (*Store, error) {
	if opt.Path == "" {
		return nil, errors.New("index: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("index: open %s: %w", opt.Path, err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bMeta)
		if err != nil {
			return err
		}
		if string(meta.Get(metaEngineKey)) != domainbuild.EngineVersion {
			if tx.Bucket(bScripts) != nil {
				if err := tx.DeleteBucket(bScripts); err != nil {
					return err
				}
			}
			if err := meta.Put(metaEngineKey, []byte(domainbuild.EngineVersion)); err != nil {
				return err
			}
		}
		_, err = tx.CreateBucketIfNotExists(bScripts)
		return err
	})
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
