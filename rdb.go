package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jinzhu/copier"
)

// Binary RDB framing, ported from saveDb/loadDb in original_source/redis.c:
// a 9-byte magic, then per-database REDIS_SELECTDB opcode + big-endian
// uint32 db index, then one record per key (type byte, big-endian uint32
// key length, key bytes, type-specific value), terminated by REDIS_EOF.
const (
	rdbMagic    = "REDIS0000"
	rdbSelectDB = 0xFE
	rdbEOF      = 0xFF
)

func rdbTypeByte(t Gtype) byte {
	return byte(t)
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func writeLenPrefixed(w io.Writer, b []byte) error {
	if err := writeU32(w, uint32(len(b))); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	_, err := w.Write(b)
	return err
}

func readLenPrefixed(r io.Reader) ([]byte, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// saveDbs snapshots every non-empty database in dbs to filename via a
// temp-file-then-rename, exactly as saveDb() does: a write error unlinks
// the temp file and returns failure, leaving the previous snapshot intact.
func saveDbs(filename string, dbs []*GodisDB) error {
	tmpName := fmt.Sprintf("temp-%d.%d.rdb", time.Now().Unix(), os.Getpid())
	f, err := os.Create(tmpName)
	if err != nil {
		log.Warnw("failed saving the db", "error", err)
		return err
	}

	w := bufio.NewWriter(f)
	writeErr := func() error {
		if _, err := w.WriteString(rdbMagic); err != nil {
			return err
		}
		for _, db := range dbs {
			if db.data.Size() == 0 {
				continue
			}
			if err := w.WriteByte(rdbSelectDB); err != nil {
				return err
			}
			if err := writeU32(w, uint32(db.id)); err != nil {
				return err
			}
			var saveErr error
			db.data.ForEach(func(key, val *Gobj) bool {
				if err := w.WriteByte(rdbTypeByte(val.Type_)); err != nil {
					saveErr = err
					return false
				}
				if err := writeLenPrefixed(w, []byte(key.StrVal())); err != nil {
					saveErr = err
					return false
				}
				if err := saveValue(w, val); err != nil {
					saveErr = err
					return false
				}
				return true
			})
			if saveErr != nil {
				return saveErr
			}
		}
		return w.WriteByte(rdbEOF)
	}()

	if writeErr == nil {
		writeErr = w.Flush()
	}
	if writeErr == nil {
		writeErr = f.Sync()
	}
	f.Close()
	if writeErr != nil {
		os.Remove(tmpName)
		log.Warnw("write error saving db on disk", "error", writeErr)
		return writeErr
	}

	if err := os.Rename(tmpName, filename); err != nil {
		os.Remove(tmpName)
		log.Warnw("error moving temp db file to final destination", "error", err)
		return err
	}
	log.Infow("db saved on disk")
	server.dirty = 0
	server.lastsave = time.Now().Unix()
	return nil
}

func saveValue(w *bufio.Writer, val *Gobj) error {
	switch val.Type_ {
	case GSTR:
		return writeLenPrefixed(w, []byte(val.StrVal()))
	case GLIST:
		list := val.List()
		if err := writeU32(w, uint32(list.Length())); err != nil {
			return err
		}
		var saveErr error
		list.ForEach(func(n *Node) bool {
			if err := writeLenPrefixed(w, []byte(n.Val.StrVal())); err != nil {
				saveErr = err
				return false
			}
			return true
		})
		return saveErr
	case GSET:
		dict := val.Dict()
		if err := writeU32(w, uint32(dict.Size())); err != nil {
			return err
		}
		var saveErr error
		dict.ForEach(func(key, _ *Gobj) bool {
			if err := writeLenPrefixed(w, []byte(key.StrVal())); err != nil {
				saveErr = err
				return false
			}
			return true
		})
		return saveErr
	default:
		return fmt.Errorf("rdb: unsupported value type %d", val.Type_)
	}
}

// snapshotCopy deep-clones every database before handing the clone to a
// background goroutine. original_source/redis.c's saveDbBackground relies
// on fork()'s copy-on-write page sharing so the parent can keep mutating
// the live heap while the child (which never writes) serializes a frozen
// view; Go has no fork(), so the in-process analogue is an explicit
// synchronous deep-copy before the async write — spec.md §9's sanctioned
// fallback "serialize a point-in-time copy inline before snapshotting".
func snapshotCopy(dbs []*GodisDB) ([]*GodisDB, error) {
	clones := make([]*GodisDB, len(dbs))
	for i, db := range dbs {
		clone := &GodisDB{id: db.id, data: DictCreate(db.data.DictType)}
		var copyErr error
		db.data.ForEach(func(key, val *Gobj) bool {
			valCopy, err := cloneValue(val)
			if err != nil {
				copyErr = err
				return false
			}
			clone.data.Set(key, valCopy)
			valCopy.DecrRefCount() // Set already took its own reference
			return true
		})
		if copyErr != nil {
			return nil, copyErr
		}
		clones[i] = clone
	}
	return clones, nil
}

// cloneValue deep-copies one value object so the background-save
// goroutine never reads a *List or *Dict the reactor is still mutating.
// copier.Copy populates header's Type_/Val_ from val; for GSTR that shallow
// copy is the whole clone (strings are immutable), so it's returned as-is.
// GLIST/GSET still need their container payload hand rebuilt afterward,
// since copier.Copy's Val_ assignment only copies the *List/*Dict pointer,
// not what it points to, and that pointer is the exact thing the reactor
// keeps mutating concurrently.
func cloneValue(val *Gobj) (*Gobj, error) {
	var header Gobj
	if err := copier.Copy(&header, val); err != nil {
		return nil, err
	}
	clone := CreateObject(header.Type_, header.Val_)
	switch clone.Type_ {
	case GSTR:
		return clone, nil
	case GLIST:
		clone.Val_ = ListCreate(ListType{EqualFunc: GStrEqual})
		val.List().ForEach(func(n *Node) bool {
			clone.List().Append(CreateStringObject(n.Val.StrVal()))
			return true
		})
		return clone, nil
	case GSET:
		clone.Val_ = DictCreate(DictType{HashFunc: GStrHash, EqualFunc: GStrEqual})
		val.Dict().ForEach(func(key, _ *Gobj) bool {
			clone.Dict().Add(CreateStringObject(key.StrVal()), nil)
			return true
		})
		return clone, nil
	default:
		return nil, fmt.Errorf("rdb: unsupported value type %d", val.Type_)
	}
}

// bgsave kicks off an asynchronous snapshot, refusing if one is already
// running (spec.md §4.6, "Exactly one background save may be in flight").
// The snapshot itself runs against snapshotCopy's frozen clone so it can
// never observe a mutation made after BGSAVE was accepted.
func bgsave(filename string) error {
	if server.bgsaveInProgress {
		return fmt.Errorf("background save already in progress")
	}
	clones, err := snapshotCopy(server.dbs)
	if err != nil {
		return err
	}
	server.bgsaveInProgress = true
	log.Infow("background saving started")
	go func() {
		err := saveDbs(filename, clones)
		server.bgsaveDone <- bgsaveResult{err: err}
	}()
	return nil
}

// loadDbs restores dbs from filename, fatal (matching loadDb's eoferr:
// label) on any short read, an out-of-range dbid, or a duplicate key.
func loadDbs(filename string, dbs []*GodisDB) error {
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	r := bufio.NewReader(f)

	magic := make([]byte, len(rdbMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		log.Fatalw("short read loading db", "error", err)
	}
	if string(magic) != rdbMagic {
		log.Warnw("wrong signature trying to load db from file")
		return fmt.Errorf("rdb: bad magic")
	}

	cur := dbs[0]
	for {
		typ, err := r.ReadByte()
		if err != nil {
			log.Fatalw("short read loading db", "error", err)
		}
		if typ == rdbEOF {
			break
		}
		if typ == rdbSelectDB {
			dbid, err := readU32(r)
			if err != nil {
				log.Fatalw("short read loading db", "error", err)
			}
			if int(dbid) >= len(dbs) {
				log.Fatalw("data file references a database index this server wasn't configured for", "dbid", dbid)
			}
			cur = dbs[dbid]
			continue
		}

		keyBytes, err := readLenPrefixed(r)
		if err != nil {
			log.Fatalw("short read loading db", "error", err)
		}
		key := CreateStringObject(string(keyBytes))

		var val *Gobj
		switch Gtype(typ) {
		case GSTR:
			b, err := readLenPrefixed(r)
			if err != nil {
				log.Fatalw("short read loading db", "error", err)
			}
			val = CreateStringObject(string(b))
		case GLIST, GSET:
			n, err := readU32(r)
			if err != nil {
				log.Fatalw("short read loading db", "error", err)
			}
			if Gtype(typ) == GLIST {
				val = CreateListObject()
			} else {
				val = CreateSetObject()
			}
			for i := uint32(0); i < n; i++ {
				b, err := readLenPrefixed(r)
				if err != nil {
					log.Fatalw("short read loading db", "error", err)
				}
				ele := CreateStringObject(string(b))
				if Gtype(typ) == GLIST {
					val.List().Append(ele)
				} else {
					val.Dict().Add(ele, nil)
				}
				ele.DecrRefCount()
			}
		default:
			log.Fatalw("unsupported value type in rdb file", "type", typ)
		}

		if err := cur.data.Add(key, val); err != nil {
			log.Fatalw("loading db, duplicated key found, unrecoverable error", "key", key.StrVal())
		}
		key.DecrRefCount()
		val.DecrRefCount()
	}
	return nil
}
