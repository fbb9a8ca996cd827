package trajectory

import (
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
)

var framePrefix = []byte("frame/")

// BadgerStore is an append-only frame store. Frames are keyed by their
// big-endian step so iteration replays them in step order.
type BadgerStore struct {
	db   *badger.DB
	last int
	any  bool
}

// OpenBadger opens the store at dir, or an in-memory store when dir is
// empty.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.DetectConflicts = false
	if dir == "" {
		opts.InMemory = true
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open frame store")
	}
	s := &BadgerStore{db: db}
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: framePrefix, Reverse: true})
		defer it.Close()
		it.Seek(frameKey(1<<31 - 1))
		if it.ValidForPrefix(framePrefix) {
			s.last, s.any = stepOf(it.Item().Key()), true
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "scan frame store")
	}
	return s, nil
}

func frameKey(step int) []byte {
	k := make([]byte, len(framePrefix)+8)
	copy(k, framePrefix)
	binary.BigEndian.PutUint64(k[len(framePrefix):], uint64(step))
	return k
}

func stepOf(key []byte) int {
	return int(binary.BigEndian.Uint64(key[len(framePrefix):]))
}

func (s *BadgerStore) Record(f Frame) error {
	if s.db == nil {
		return ErrClosed
	}
	if f.Step < 0 || (s.any && f.Step <= s.last) {
		return errors.Wrapf(ErrOutOfOrder, "step %d after %d", f.Step, s.last)
	}
	buf, err := json.Marshal(f)
	if err != nil {
		return errors.Wrapf(err, "encode frame %d", f.Step)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(frameKey(f.Step), buf)
	})
	if err != nil {
		return errors.Wrapf(err, "store frame %d", f.Step)
	}
	s.last, s.any = f.Step, true
	return nil
}

// Frames replays every stored frame in step order until fn returns an
// error.
func (s *BadgerStore) Frames(fn func(Frame) error) error {
	if s.db == nil {
		return ErrClosed
	}
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: framePrefix, PrefetchValues: true, PrefetchSize: 16})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var f Frame
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &f)
			})
			if err != nil {
				return errors.Wrapf(err, "decode frame %d", stepOf(it.Item().Key()))
			}
			if err := fn(f); err != nil {
				return err
			}
		}
		return nil
	})
}

// Frame loads the frame recorded at step.
func (s *BadgerStore) Frame(step int) (Frame, bool, error) {
	if s.db == nil {
		return Frame{}, false, ErrClosed
	}
	var f Frame
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(frameKey(step))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &f)
		})
	})
	if err == badger.ErrKeyNotFound {
		return Frame{}, false, nil
	}
	if err != nil {
		return Frame{}, false, errors.Wrapf(err, "load frame %d", step)
	}
	return f, true, nil
}

func (s *BadgerStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// WriteJSONLines writes every stored frame to w, one JSON object per line.
func WriteJSONLines(w io.Writer, s *BadgerStore) error {
	enc := json.NewEncoder(w)
	return s.Frames(func(f Frame) error {
		return enc.Encode(f)
	})
}
