package server

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"

	"github.com/scriptcast/scriptcast/pkg/player"
)

const (
	// Bucket names
	BCASTS string = "CASTS"
	BNAMES string = "NAMES"
)

// CastInfo is the indexed metadata of one cast file.
type CastInfo struct {
	Id       uint64    `json:"id"`
	Uuid     string    `json:"uuid"`
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Duration float64   `json:"duration"`
	Size     int64     `json:"size"`
	AddedAt  time.Time `json:"addedAt"`
}

// describeCast loads a cast file and builds its index record.
func describeCast(path, name string) (CastInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return CastInfo{}, err
	}
	defer f.Close()

	cast, err := player.Load(f)
	if err != nil {
		return CastInfo{}, err
	}
	stat, err := f.Stat()
	if err != nil {
		return CastInfo{}, err
	}
	return CastInfo{
		Uuid:     uuid.New().String(),
		Name:     name,
		Title:    cast.Header.Title,
		Width:    cast.Header.Width,
		Height:   cast.Header.Height,
		Duration: cast.Duration().Seconds(),
		Size:     stat.Size(),
		AddedAt:  time.Now(),
	}, nil
}

type DB struct {
	*bolt.DB
}

func SetupDB(path string) (*DB, error) {
	bdb, err := bolt.Open(fmt.Sprintf("%s.boltdb", path), 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("could not open db, %v", err)
	}

	err = bdb.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BCASTS)); err != nil {
			return fmt.Errorf("could not create casts bucket: %v", err)
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(BNAMES)); err != nil {
			return fmt.Errorf("could not create names bucket: %v", err)
		}
		return nil
	})
	if err != nil {
		bdb.Close()
		return nil, err
	}

	return &DB{bdb}, nil
}

// itob returns an 8-byte big endian representation of v.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

/*
DB
- CASTS
  - CASTID: CASTINFO
- NAMES
  - NAME: CASTID
CASTID is auto increment; newest record sits at the end of the table.
*/
func (db *DB) AddCast(obj CastInfo) (uint64, error) {
	var id uint64
	err := db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BCASTS))

		id, _ = b.NextSequence()
		obj.Id = id

		buf, err := json.Marshal(obj)
		if err != nil {
			return err
		}
		if err := b.Put(itob(id), buf); err != nil {
			return fmt.Errorf("Failed to put: %v", err)
		}
		return tx.Bucket([]byte(BNAMES)).Put([]byte(obj.Name), itob(id))
	})
	return id, err
}

// HasCast reports whether a cast name is already indexed.
func (db *DB) HasCast(name string) (bool, error) {
	var found bool
	err := db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket([]byte(BNAMES)).Get([]byte(name)) != nil
		return nil
	})
	return found, err
}

// GetCast looks up one cast by name.
func (db *DB) GetCast(name string) (CastInfo, error) {
	var info CastInfo
	err := db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket([]byte(BNAMES)).Get([]byte(name))
		if id == nil {
			return fmt.Errorf("cast %s not found", name)
		}
		v := tx.Bucket([]byte(BCASTS)).Get(id)
		if v == nil {
			return fmt.Errorf("cast %s not found", name)
		}
		return json.Unmarshal(v, &info)
	})
	return info, err
}

// skip: number of records to skip
// n : number of records to get. Set to 0 to get all
// return a list of casts with the first item being the latest cast
func (db *DB) GetCasts(skip int, n int) ([]CastInfo, error) {
	var casts []CastInfo

	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BCASTS))
		c := b.Cursor()

		count := 0
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if count < skip {
				count += 1
				continue
			}
			if n != 0 && count == (n+skip) {
				break
			}

			info := CastInfo{}
			if err := json.Unmarshal(v, &info); err != nil {
				return err
			}
			casts = append(casts, info)
			count += 1
		}
		return nil
	})
	return casts, err
}
