// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// Key prefixes for BadgerDB storage. Entity keys live under the generation
// prefix of the catalog version that wrote them (gen/<version>/film:<id>).
const (
	filmKeyPrefix       = "film:"
	genreKeyPrefix      = "genre:"
	directorKeyPrefix   = "director:"
	tagKeyPrefix        = "tag:"
	userKeyPrefix       = "user:"
	ratingKeyPrefix     = "rating:"
	favoriteKeyPrefix   = "favorite:"
	versionKey          = "meta:version"
	generationKeyPrefix = "gen/"
)

// generationPrefix returns the key prefix of the entities of version.
func generationPrefix(version uint64) string {
	return generationKeyPrefix + strconv.FormatUint(version, 10) + "/"
}

// OpenBadger opens a Badger database at path. An empty path opens an
// in-memory database.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return db, nil
}

// BadgerStore implements Store on BadgerDB. Entities are stored as JSON
// under one key each; interactions are keyed by user then film so a user's
// history is a single prefix scan.
type BadgerStore struct {
	db     *badger.DB
	events *Events

	// writeMu serializes mutations so version bumps are ordered.
	writeMu sync.Mutex
	current atomic.Pointer[Snapshot]
}

// NewBadgerStore wraps db. events may be nil.
func NewBadgerStore(db *badger.DB, events *Events) *BadgerStore {
	return &BadgerStore{db: db, events: events}
}

// Snapshot returns the memoized snapshot, rebuilding it when the stored
// version has moved on.
func (s *BadgerStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	var snap *Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		version, err := readVersion(txn)
		if err != nil {
			return err
		}
		if cur := s.current.Load(); cur != nil && cur.Version == version {
			snap = cur
			return nil
		}

		gen := generationPrefix(version)
		var d Data
		if err := scanPrefix(txn, gen+filmKeyPrefix, &d.Films); err != nil {
			return err
		}
		if err := scanPrefix(txn, gen+genreKeyPrefix, &d.Genres); err != nil {
			return err
		}
		if err := scanPrefix(txn, gen+directorKeyPrefix, &d.Directors); err != nil {
			return err
		}
		if err := scanPrefix(txn, gen+tagKeyPrefix, &d.Tags); err != nil {
			return err
		}
		if err := scanPrefix(txn, gen+userKeyPrefix, &d.Users); err != nil {
			return err
		}
		snap = NewSnapshot(version, d)
		return nil
	})
	metrics.RecordStoreOperation("snapshot", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	// Never replace a newer memoized snapshot with an older one.
	for {
		cur := s.current.Load()
		if cur != nil && cur.Version >= snap.Version {
			break
		}
		if s.current.CompareAndSwap(cur, snap) {
			metrics.SetCatalog(snap.Version, len(snap.Films))
			break
		}
	}
	return snap, nil
}

// Interactions returns the ratings and favorites of userID. Unknown users
// have no interactions.
func (s *BadgerStore) Interactions(ctx context.Context, userID int) (Interactions, error) {
	if err := ctx.Err(); err != nil {
		return Interactions{}, err
	}
	start := time.Now()

	in := Interactions{UserID: userID}
	err := s.db.View(func(txn *badger.Txn) error {
		if err := scanPrefix(txn, ratingKeyPrefix+strconv.Itoa(userID)+":", &in.Ratings); err != nil {
			return err
		}
		var favs []Favorite
		if err := scanPrefix(txn, favoriteKeyPrefix+strconv.Itoa(userID)+":", &favs); err != nil {
			return err
		}
		for _, f := range favs {
			in.Favorites = append(in.Favorites, f.FilmID)
		}
		return nil
	})
	metrics.RecordStoreOperation("interactions", time.Since(start), err)
	if err != nil {
		return Interactions{}, fmt.Errorf("load interactions for user %d: %w", userID, err)
	}
	return in, nil
}

// ReplaceCatalog implements Store.
func (s *BadgerStore) ReplaceCatalog(ctx context.Context, d Data) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := validateData(d); err != nil {
		return 0, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.replaceAndPublish(d, ReasonReplaced)
}

// Seed loads d only when the store has never held a catalog. It reports
// whether d was written.
func (s *BadgerStore) Seed(ctx context.Context, d Data) (uint64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	if err := validateData(d); err != nil {
		return 0, false, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err := StoredVersion(s.db)
	if err != nil {
		return 0, false, fmt.Errorf("seed catalog: %w", err)
	}
	if current != 0 {
		return current, false, nil
	}

	version, err := s.replaceAndPublish(d, ReasonSeeded)
	if err != nil {
		return 0, false, err
	}
	return version, true, nil
}

func (s *BadgerStore) replaceAndPublish(d Data, reason string) (uint64, error) {
	start := time.Now()
	version, err := s.replace(d)
	metrics.RecordStoreOperation("replace_catalog", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("replace catalog: %w", err)
	}

	logging.Info().
		Uint64("version", version).
		Str("reason", reason).
		Int("films", len(d.Films)).
		Int("users", len(d.Users)).
		Int("tags", len(d.Tags)).
		Msg("Catalog replaced")

	s.publishCatalog(CatalogChanged{Version: version, Reason: reason})
	return version, nil
}

func validateData(d Data) error {
	for _, r := range d.Ratings {
		if err := ValidateRating(r); err != nil {
			return err
		}
	}
	return nil
}

// replace writes d under the generation of the next version, then points
// the version key at it in a final transaction. Large catalogs span several
// transactions, but readers resolve entities through the version key and so
// never see an unfinished generation. Superseded generations are dropped
// afterwards.
func (s *BadgerStore) replace(d Data) (uint64, error) {
	current, err := StoredVersion(s.db)
	if err != nil {
		return 0, err
	}
	// Leftovers of a replace that died before its version flip.
	if err := s.dropGenerations(current); err != nil {
		return 0, fmt.Errorf("drop stale generations: %w", err)
	}

	next := current + 1
	gen := generationPrefix(next)

	w := newTxnWriter(s.db)
	defer w.discard()

	for _, f := range d.Films {
		if err := w.setJSON(gen+filmKeyPrefix+strconv.Itoa(f.ID), f); err != nil {
			return 0, err
		}
	}
	for _, g := range d.Genres {
		if err := w.setJSON(gen+genreKeyPrefix+strconv.Itoa(g.ID), g); err != nil {
			return 0, err
		}
	}
	for _, dr := range d.Directors {
		if err := w.setJSON(gen+directorKeyPrefix+strconv.Itoa(dr.ID), dr); err != nil {
			return 0, err
		}
	}
	for _, t := range d.Tags {
		if err := w.setJSON(gen+tagKeyPrefix+strconv.Itoa(t.ID), t); err != nil {
			return 0, err
		}
	}
	for _, u := range d.Users {
		if err := w.setJSON(gen+userKeyPrefix+strconv.Itoa(u.ID), u); err != nil {
			return 0, err
		}
	}
	for _, r := range d.Ratings {
		if err := w.setJSON(interactionKey(ratingKeyPrefix, r.UserID, r.FilmID), r); err != nil {
			return 0, err
		}
	}
	for _, f := range d.Favorites {
		if err := w.setJSON(interactionKey(favoriteKeyPrefix, f.UserID, f.FilmID), f); err != nil {
			return 0, err
		}
	}
	if err := w.commit(); err != nil {
		return 0, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		stored, err := readVersion(txn)
		if err != nil {
			return err
		}
		if stored != current {
			return fmt.Errorf("version moved from %d to %d during replace", current, stored)
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, next)
		return txn.Set([]byte(versionKey), buf)
	})
	if err != nil {
		return 0, fmt.Errorf("publish version %d: %w", next, err)
	}

	if err := s.dropGenerations(next); err != nil {
		logging.Warn().Err(err).Uint64("version", next).Msg("Failed to drop superseded catalog generations")
	}
	return next, nil
}

// dropGenerations deletes every entity key outside the generation of keep.
func (s *BadgerStore) dropGenerations(keep uint64) error {
	keepPrefix := []byte(generationPrefix(keep))
	var stale [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(generationKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			if !bytes.HasPrefix(key, keepPrefix) {
				stale = append(stale, it.Item().KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil || len(stale) == 0 {
		return err
	}

	w := newTxnWriter(s.db)
	defer w.discard()
	for _, k := range stale {
		if err := w.delete(k); err != nil {
			return err
		}
	}
	return w.commit()
}

// PutRating implements Store. The film must exist in the current catalog.
func (s *BadgerStore) PutRating(ctx context.Context, r Rating) error {
	if err := ValidateRating(r); err != nil {
		return err
	}
	return s.mutateInteraction(ctx, "put_rating", InteractionChanged{UserID: r.UserID, FilmID: r.FilmID, Kind: KindRatingPut},
		func(txn *badger.Txn) error {
			if err := requireFilm(txn, r.FilmID); err != nil {
				return err
			}
			data, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("marshal rating: %w", err)
			}
			return txn.Set([]byte(interactionKey(ratingKeyPrefix, r.UserID, r.FilmID)), data)
		})
}

// DeleteRating implements Store. Deleting a missing rating returns ErrNotFound.
func (s *BadgerStore) DeleteRating(ctx context.Context, userID, filmID int) error {
	if err := validateIDs(userID, filmID); err != nil {
		return err
	}
	return s.mutateInteraction(ctx, "delete_rating", InteractionChanged{UserID: userID, FilmID: filmID, Kind: KindRatingDeleted},
		func(txn *badger.Txn) error {
			return deleteExisting(txn, interactionKey(ratingKeyPrefix, userID, filmID))
		})
}

// PutFavorite implements Store. Favoriting twice is a no-op.
func (s *BadgerStore) PutFavorite(ctx context.Context, f Favorite) error {
	if err := validateIDs(f.UserID, f.FilmID); err != nil {
		return err
	}
	return s.mutateInteraction(ctx, "put_favorite", InteractionChanged{UserID: f.UserID, FilmID: f.FilmID, Kind: KindFavoritePut},
		func(txn *badger.Txn) error {
			if err := requireFilm(txn, f.FilmID); err != nil {
				return err
			}
			data, err := json.Marshal(f)
			if err != nil {
				return fmt.Errorf("marshal favorite: %w", err)
			}
			return txn.Set([]byte(interactionKey(favoriteKeyPrefix, f.UserID, f.FilmID)), data)
		})
}

// DeleteFavorite implements Store. Deleting a missing favorite returns ErrNotFound.
func (s *BadgerStore) DeleteFavorite(ctx context.Context, userID, filmID int) error {
	if err := validateIDs(userID, filmID); err != nil {
		return err
	}
	return s.mutateInteraction(ctx, "delete_favorite", InteractionChanged{UserID: userID, FilmID: filmID, Kind: KindFavoriteDeleted},
		func(txn *badger.Txn) error {
			return deleteExisting(txn, interactionKey(favoriteKeyPrefix, userID, filmID))
		})
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) mutateInteraction(ctx context.Context, op string, ev InteractionChanged, fn func(*badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	start := time.Now()
	err := s.db.Update(fn)
	metrics.RecordStoreOperation(op, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.events != nil {
		if perr := s.events.PublishInteractionChanged(ev); perr != nil {
			logging.Warn().Err(perr).Str("kind", ev.Kind).Msg("Failed to publish interaction event")
		}
	}
	return nil
}

func (s *BadgerStore) publishCatalog(ev CatalogChanged) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishCatalogChanged(ev); err != nil {
		logging.Warn().Err(err).Uint64("version", ev.Version).Msg("Failed to publish catalog event")
	}
}

func interactionKey(prefix string, userID, filmID int) string {
	return prefix + strconv.Itoa(userID) + ":" + strconv.Itoa(filmID)
}

// StoredVersion reads the catalog version committed in db. Zero means no
// catalog has ever been written.
func StoredVersion(db *badger.DB) (uint64, error) {
	var version uint64
	err := db.View(func(txn *badger.Txn) error {
		var err error
		version, err = readVersion(txn)
		return err
	})
	return version, err
}

func readVersion(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte(versionKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	var version uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt version value of %d bytes", len(val))
		}
		version = binary.BigEndian.Uint64(val)
		return nil
	})
	return version, err
}

func requireFilm(txn *badger.Txn, filmID int) error {
	version, err := readVersion(txn)
	if err != nil {
		return err
	}
	_, err = txn.Get([]byte(generationPrefix(version) + filmKeyPrefix + strconv.Itoa(filmID)))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: film %d", ErrNotFound, filmID)
	}
	return err
}

func deleteExisting(txn *badger.Txn, key string) error {
	if _, err := txn.Get([]byte(key)); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return err
	}
	return txn.Delete([]byte(key))
}

// scanPrefix decodes every value under prefix into out.
func scanPrefix[T any](txn *badger.Txn, prefix string, out *[]T) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		var v T
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		})
		if err != nil {
			return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
		*out = append(*out, v)
	}
	return nil
}

// txnWriter spreads writes over as many transactions as Badger needs.
type txnWriter struct {
	db  *badger.DB
	txn *badger.Txn
}

func newTxnWriter(db *badger.DB) *txnWriter {
	return &txnWriter{db: db, txn: db.NewTransaction(true)}
}

func (w *txnWriter) apply(op func(*badger.Txn) error) error {
	err := op(w.txn)
	if !errors.Is(err, badger.ErrTxnTooBig) {
		return err
	}
	if err := w.txn.Commit(); err != nil {
		return fmt.Errorf("commit partial batch: %w", err)
	}
	w.txn = w.db.NewTransaction(true)
	return op(w.txn)
}

func (w *txnWriter) delete(key []byte) error {
	return w.apply(func(txn *badger.Txn) error { return txn.Delete(key) })
}

func (w *txnWriter) setJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return w.apply(func(txn *badger.Txn) error { return txn.Set([]byte(key), data) })
}

func (w *txnWriter) commit() error {
	if err := w.txn.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (w *txnWriter) discard() {
	w.txn.Discard()
}
