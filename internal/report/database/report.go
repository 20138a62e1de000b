package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-knc/knc/internal/database"
	"github.com/go-knc/knc/internal/report/model"
	bolt "go.etcd.io/bbolt"
)

const (
	reportKeys = "report:keys:"
	prefix     = "report:"
)

type FilterFn func(report model.Report) bool

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

type DB struct {
	sDB *database.DB
}

func (db *DB) Keys() ([]string, error) {
	var bucketKeys []string
	err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(reportKeys))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			bucketKeys = append(bucketKeys, string(k))
		}
		return nil
	})
	return bucketKeys, err
}

func (db *DB) Store(_ context.Context, report model.Report) error {
	var b *bolt.Bucket
	bytes, err := json.Marshal(report)
	if err != nil {
		return err
	}
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b = tx.Bucket([]byte(prefix + report.EntityID))
		if b == nil {
			b, err = tx.CreateBucket([]byte(prefix + report.EntityID))
			if err != nil {
				return fmt.Errorf("create bucket: %w", err)
			}
		}
		if err := b.Put([]byte(report.ID.String()), bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		b = tx.Bucket([]byte(reportKeys))
		if b == nil {
			b, err = tx.CreateBucket([]byte(reportKeys))
			if err != nil {
				return fmt.Errorf("unable create entities bucket: %w", err)
			}
		}
		if err := b.Put([]byte(prefix+report.EntityID), []byte{0x0}); err != nil {
			return fmt.Errorf("unable put to entities bucket: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}
	return nil
}

func (db *DB) Delete(_ context.Context, report model.Report) error {
	var b *bolt.Bucket
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b = tx.Bucket([]byte(prefix + report.EntityID))
		if b == nil {
			return nil
		}

		return b.Delete([]byte(report.ID.String()))
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}
	return nil
}

func (db *DB) FindAll(_ context.Context, filter FilterFn) ([]model.Report, error) {
	var reports []model.Report
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		keysBucket := tx.Bucket([]byte(reportKeys))
		if keysBucket == nil {
			return nil
		}
		c := keysBucket.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			b := tx.Bucket(k)
			if b == nil {
				continue
			}
			ec := b.Cursor()
			for rk, v := ec.First(); rk != nil; rk, v = ec.Next() {
				var rep model.Report
				if err := json.Unmarshal(v, &rep); err != nil {
					return fmt.Errorf("json unmarshal error, %q", err)
				}
				if filter == nil || filter(rep) {
					reports = append(reports, rep)
				}
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %v", err)
	}
	return reports, nil
}
