package db

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"askyourdata/models"
)

// DB is the chat message log. Badger runs in in-memory mode, so nothing
// outlives the process.
type DB struct {
	badgerDB *badger.DB

	mu     sync.Mutex // guards nextID and last
	nextID int64
	last   time.Time
	now    func() time.Time
}

func New() (*DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Disable badger logging for cleaner output

	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DB{badgerDB: badgerDB, now: time.Now}, nil
}

func (d *DB) Close() error {
	return d.badgerDB.Close()
}

func chatPrefix(datasetID int64) []byte {
	return []byte(fmt.Sprintf("chat:%d:", datasetID))
}

func chatKey(datasetID, messageID int64) []byte {
	return []byte(fmt.Sprintf("chat:%d:%020d", datasetID, messageID))
}

// stamp hands out the next message id and a timestamp that never goes
// backwards, even if the wall clock does.
func (d *DB) stamp() (int64, time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	ts := d.now().UTC()
	if ts.Before(d.last) {
		ts = d.last
	}
	d.last = ts
	return d.nextID, ts
}

// AppendChatMessage assigns the message id and timestamp and stores it.
func (d *DB) AppendChatMessage(msg models.ChatMessage) (models.ChatMessage, error) {
	msg.ID, msg.Timestamp = d.stamp()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(msg); err != nil {
		return models.ChatMessage{}, fmt.Errorf("failed to encode chat message: %w", err)
	}

	err := d.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Set(chatKey(msg.DatasetID, msg.ID), buf.Bytes())
	})
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("failed to store chat message: %w", err)
	}
	return msg, nil
}

// GetChatHistory returns the dataset's messages, oldest first.
func (d *DB) GetChatHistory(datasetID int64) ([]models.ChatMessage, error) {
	messages := []models.ChatMessage{}

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = chatPrefix(datasetID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				msg, err := decodeMessage(val)
				if err != nil {
					return err
				}
				messages = append(messages, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(messages, func(i, j int) bool {
		if !messages[i].Timestamp.Equal(messages[j].Timestamp) {
			return messages[i].Timestamp.Before(messages[j].Timestamp)
		}
		return messages[i].ID < messages[j].ID
	})
	return messages, nil
}

func (d *DB) GetChatMessage(datasetID, messageID int64) (models.ChatMessage, error) {
	var msg models.ChatMessage
	err := d.badgerDB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chatKey(datasetID, messageID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			msg, err = decodeMessage(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.ChatMessage{}, fmt.Errorf("%w: %d", models.ErrMessageNotFound, messageID)
	}
	if err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// decodeMessage reverses gob's habit of dropping empty slices, so an empty
// result still encodes as [] rather than null.
func decodeMessage(val []byte) (models.ChatMessage, error) {
	var msg models.ChatMessage
	if err := gob.NewDecoder(bytes.NewReader(val)).Decode(&msg); err != nil {
		return models.ChatMessage{}, fmt.Errorf("failed to decode chat message: %w", err)
	}
	if msg.GeneratedQuery != nil && msg.ResultRows == nil {
		msg.ResultRows = []models.Row{}
	}
	if msg.ChartSpec != nil && msg.ChartSpec.Rows == nil {
		msg.ChartSpec.Rows = []models.Row{}
	}
	return msg, nil
}
