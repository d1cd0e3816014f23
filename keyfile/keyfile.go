// Package keyfile implements a durable ordered key value file on top of
// bbolt.
//
// Keys iterate in the buffer order defined by bufcmp, which is also bolt's
// native key order. Values are framed before storage: a flag byte, the
// varint encoded raw length, an xxhash checksum of the raw value and the
// payload, compressed with minlz when that pays off. Live records are
// additionally tracked in a roaring bitmap keyed by bucket sequence, which
// makes counting cheap.
package keyfile

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"math"

	"github.com/benbjohnson/immutable"
	"github.com/gernest/roaring"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/gernest/varbuf/bufcmp"
	"github.com/gernest/varbuf/internal/checksum"
	"github.com/gernest/varbuf/internal/compress"
	"github.com/gernest/varbuf/internal/magic"
	"github.com/gernest/varbuf/membuf"
	"github.com/gernest/varbuf/varint"
)

var (
	records = []byte("records")
	seqs    = []byte("seqs")
	sys     = []byte("sys")
	live    = []byte("live")
)

var (
	ErrNotFound = errors.New("keyfile: key not found")
	ErrCorrupt  = errors.New("keyfile: corrupt record")
)

const (
	flagRaw byte = iota
	flagCompressed
)

// compressMin is the smallest raw value worth handing to the compressor.
const compressMin = 64

type Options struct {
	Logger *slog.Logger

	// NoCompress stores all values raw.
	NoCompress bool
}

// File is an ordered key value store backed by a single bolt file. Safe for
// concurrent use.
type File struct {
	db         *bbolt.DB
	lo         *slog.Logger
	noCompress bool
}

func Open(path string, opts Options) (*File, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening key file %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{records, seqs, sys} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating buckets")
	}
	lo := opts.Logger
	if lo == nil {
		lo = slog.Default()
	}
	lo.Info("opened key file", "path", path)
	return &File{db: db, lo: lo, noCompress: opts.NoCompress}, nil
}

func (f *File) Close() error {
	return f.db.Close()
}

// Put stores value under key, replacing any previous value.
func (f *File) Put(key, value []byte) error {
	if len(key) == 0 {
		return errors.New("keyfile: empty key")
	}
	frame, err := f.frame(value)
	if err != nil {
		return err
	}
	return f.db.Update(func(tx *bbolt.Tx) error {
		sq := tx.Bucket(seqs)
		if sq.Get(key) == nil {
			seq, err := sq.NextSequence()
			if err != nil {
				return errors.Wrap(err, "allocating sequence")
			}
			var sb [8]byte
			binary.BigEndian.PutUint64(sb[:], seq)
			if err := sq.Put(key, sb[:]); err != nil {
				return err
			}
			err = updateLive(tx, func(ra *roaring.Bitmap) error {
				ra.DirectAdd(seq)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return tx.Bucket(records).Put(key, frame)
	})
}

// Get returns the value stored under key. Missing keys fail with
// ErrNotFound, damaged records with ErrCorrupt.
func (f *File) Get(key []byte) (value []byte, err error) {
	err = f.db.View(func(tx *bbolt.Tx) error {
		rec := tx.Bucket(records).Get(key)
		if rec == nil {
			return errors.Wrapf(ErrNotFound, "%q", key)
		}
		value, err = unframe(rec)
		if err != nil {
			f.lo.Error("corrupt record", "key", string(key), "err", err)
		}
		return err
	})
	return
}

// Delete removes key and its value. Missing keys fail with ErrNotFound.
func (f *File) Delete(key []byte) error {
	return f.db.Update(func(tx *bbolt.Tx) error {
		sq := tx.Bucket(seqs)
		sv := sq.Get(key)
		if sv == nil {
			return errors.Wrapf(ErrNotFound, "%q", key)
		}
		seq := binary.BigEndian.Uint64(sv)
		if err := sq.Delete(key); err != nil {
			return err
		}
		if err := tx.Bucket(records).Delete(key); err != nil {
			return err
		}
		return updateLive(tx, func(ra *roaring.Bitmap) error {
			_, err := ra.Remove(seq)
			return err
		})
	})
}

// Count returns the number of live records, read from the existence bitmap
// without touching the records bucket.
func (f *File) Count() (n uint64, err error) {
	err = f.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(sys).Get(live)
		if data == nil {
			return nil
		}
		ra := roaring.NewBitmap()
		if err := ra.UnmarshalBinary(data); err != nil {
			return errors.Wrap(err, "reading live bitmap")
		}
		n = ra.Count()
		return nil
	})
	return
}

// Ascend calls fn for every record in key order. Both slices passed to fn
// are owned by the callback.
func (f *File) Ascend(fn func(key, value []byte) error) error {
	return f.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(records).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			value, err := unframe(v)
			if err != nil {
				return errors.Wrapf(err, "key %q", k)
			}
			if err := fn(membuf.Clone(k), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// AscendPrefix calls fn for every record whose key starts with prefix, in
// key order. Keys sharing a prefix are contiguous, so the scan seeks to the
// prefix and stops at the first key that diverges.
func (f *File) AscendPrefix(prefix []byte, fn func(key, value []byte) error) error {
	return f.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(records).Cursor()
		for k, v := c.Seek(prefix); k != nil; k, v = c.Next() {
			if bufcmp.CommonPrefixLen(k, prefix) != len(prefix) {
				return nil
			}
			value, err := unframe(v)
			if err != nil {
				return errors.Wrapf(err, "key %q", k)
			}
			if err := fn(membuf.Clone(k), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Records is an immutable snapshot of key to sequence assignments, sorted
// in bufcmp order.
type Records = immutable.SortedMap[string, uint64]

type keyOrder struct{}

func (keyOrder) Compare(a, b string) int {
	return bufcmp.Compare(magic.Slice(a), magic.Slice(b))
}

// Records returns a point in time snapshot of all live keys and their
// sequence numbers.
func (f *File) Records() (*Records, error) {
	m := immutable.NewSortedMap[string, uint64](keyOrder{})
	err := f.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(seqs).ForEach(func(k, v []byte) error {
			m = m.Set(string(k), binary.BigEndian.Uint64(v))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (f *File) frame(value []byte) ([]byte, error) {
	if uint64(len(value)) > math.MaxUint32 {
		return nil, errors.Errorf("keyfile: value of %d bytes exceeds the frame limit", len(value))
	}
	payload := value
	flag := flagRaw
	if !f.noCompress && len(value) >= compressMin {
		// fall back to raw storage when compression fails or does not
		// shrink the value
		if enc, err := compress.Encode(nil, value); err == nil && len(enc) < len(value) {
			payload = enc
			flag = flagCompressed
		}
	}
	buf := make([]byte, 0, 1+varint.MaxLen+8+len(payload))
	buf = append(buf, flag)
	buf = varint.Append(buf, uint32(len(value)))
	buf = binary.BigEndian.AppendUint64(buf, checksum.Sum(value))
	return append(buf, payload...), nil
}

func unframe(rec []byte) ([]byte, error) {
	if len(rec) < 2 {
		return nil, errors.Wrap(ErrCorrupt, "frame header truncated")
	}
	flag := rec[0]
	rawLen, n, err := varint.Uint32(rec[1:])
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "frame length: %v", err)
	}
	rest := rec[1+n:]
	if len(rest) < 8 {
		return nil, errors.Wrap(ErrCorrupt, "frame checksum truncated")
	}
	sum := binary.BigEndian.Uint64(rest)
	payload := rest[8:]

	var value []byte
	switch flag {
	case flagRaw:
		// copy out of the bolt page, the caller keeps the value past the
		// transaction
		value = membuf.Clone(payload)
	case flagCompressed:
		value, err = compress.Decode(nil, payload)
		if err != nil {
			return nil, errors.Wrapf(ErrCorrupt, "frame payload: %v", err)
		}
	default:
		return nil, errors.Wrapf(ErrCorrupt, "unknown frame flag %#02x", flag)
	}
	if uint32(len(value)) != rawLen || checksum.Sum(value) != sum {
		return nil, errors.Wrap(ErrCorrupt, "checksum mismatch")
	}
	return value, nil
}

func updateLive(tx *bbolt.Tx, fn func(*roaring.Bitmap) error) error {
	b := tx.Bucket(sys)
	ra := roaring.NewBitmap()
	if data := b.Get(live); data != nil {
		if err := ra.UnmarshalBinary(data); err != nil {
			return errors.Wrap(err, "reading live bitmap")
		}
	}
	if err := fn(ra); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := ra.WriteTo(&buf); err != nil {
		return errors.Wrap(err, "writing live bitmap")
	}
	return b.Put(live, buf.Bytes())
}
