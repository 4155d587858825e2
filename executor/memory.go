package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/yuzamesan3/surrealdb-ffi-codec/errors"
	"github.com/yuzamesan3/surrealdb-ffi-codec/value"
)

// Memory is a map-backed QueryExecutor for tests and demos. Namespace and
// database are selected once at construction, mirroring the one-time
// selection a real engine performs during initialization.
//
// Rows are stored in insertion order per table. Raw queries are not
// implemented.
type Memory struct {
	namespace string
	database  string

	mu     sync.RWMutex
	tables map[string]*memTable
	serial uint64
}

type memTable struct {
	rows map[string]value.Dynamic
	ids  []string
}

// NewMemory creates an executor bound to the given namespace and database.
func NewMemory(namespace, database string) *Memory {
	return &Memory{
		namespace: namespace,
		database:  database,
		tables:    make(map[string]*memTable),
	}
}

// Namespace returns the namespace selected at construction.
func (m *Memory) Namespace() string { return m.namespace }

// Database returns the database selected at construction.
func (m *Memory) Database() string { return m.database }

// Seed inserts a row directly, bypassing Create semantics. Intended for test
// fixtures.
func (m *Memory) Seed(table, id string, row value.Dynamic) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table(table).put(id, row)
}

func (m *Memory) table(name string) *memTable {
	t, ok := m.tables[name]
	if !ok {
		t = &memTable{rows: make(map[string]value.Dynamic)}
		m.tables[name] = t
	}
	return t
}

func (t *memTable) put(id string, row value.Dynamic) {
	if _, exists := t.rows[id]; !exists {
		t.ids = append(t.ids, id)
	}
	t.rows[id] = row
}

func (t *memTable) remove(id string) (value.Dynamic, bool) {
	row, ok := t.rows[id]
	if !ok {
		return value.Dynamic{}, false
	}
	delete(t.rows, id)
	for i, existing := range t.ids {
		if existing == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			break
		}
	}
	return row, true
}

// Select returns one row by id, or every row of the table in insertion
// order. A missing id is a not_found failure; a missing table without an id
// is an empty result.
func (m *Memory) Select(ctx context.Context, req Request) ([]value.Dynamic, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeConnection, err, "context done")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[req.Table]
	if req.ID != "" {
		if !ok {
			return nil, errors.NotFound("record", req.Table+":"+req.ID)
		}
		row, found := t.rows[req.ID]
		if !found {
			return nil, errors.NotFound("record", req.Table+":"+req.ID)
		}
		return []value.Dynamic{row}, nil
	}
	if !ok {
		return nil, nil
	}

	rows := make([]value.Dynamic, 0, len(t.ids))
	for _, id := range t.ids {
		rows = append(rows, t.rows[id])
	}
	return rows, nil
}

// Create inserts a new row. Creating an existing id is a duplicate failure.
// Without an id a serial one is assigned. The stored row always carries an
// id field referencing itself.
func (m *Memory) Create(ctx context.Context, req Request) ([]value.Dynamic, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeConnection, err, "context done")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.table(req.Table)
	id := req.ID
	if id == "" {
		m.serial++
		id = fmt.Sprintf("%d", m.serial)
	}
	if _, exists := t.rows[id]; exists {
		return nil, errors.Duplicate("record", req.Table+":"+id)
	}

	row := buildRow(req.Table, id, req.Params)
	t.put(id, row)
	return []value.Dynamic{row}, nil
}

// Update replaces the fields of an existing row. A missing row is a
// not_found failure.
func (m *Memory) Update(ctx context.Context, req Request) ([]value.Dynamic, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeConnection, err, "context done")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[req.Table]
	if !ok {
		return nil, errors.NotFound("record", req.Table+":"+req.ID)
	}
	if _, exists := t.rows[req.ID]; !exists {
		return nil, errors.NotFound("record", req.Table+":"+req.ID)
	}

	row := buildRow(req.Table, req.ID, req.Params)
	t.rows[req.ID] = row
	return []value.Dynamic{row}, nil
}

// Delete removes one row by id, or every row of the table. The removed rows
// are returned. Deleting a missing id is a not_found failure.
func (m *Memory) Delete(ctx context.Context, req Request) ([]value.Dynamic, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeConnection, err, "context done")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[req.Table]
	if !ok {
		if req.ID != "" {
			return nil, errors.NotFound("record", req.Table+":"+req.ID)
		}
		return nil, nil
	}

	if req.ID != "" {
		row, found := t.remove(req.ID)
		if !found {
			return nil, errors.NotFound("record", req.Table+":"+req.ID)
		}
		return []value.Dynamic{row}, nil
	}

	rows := make([]value.Dynamic, 0, len(t.ids))
	for _, id := range t.ids {
		rows = append(rows, t.rows[id])
	}
	t.rows = make(map[string]value.Dynamic)
	t.ids = nil
	return rows, nil
}

// RawQuery is not implemented by the in-memory executor.
func (m *Memory) RawQuery(ctx context.Context, req Request) ([]value.Dynamic, error) {
	return nil, errors.New(errors.CodeNotImplemented).
		Detail("raw queries are not implemented by the in-memory executor").
		Build()
}

// buildRow assembles the stored row: an id field referencing the record,
// followed by the caller's fields in their original order. A caller-supplied
// id field is superseded by the canonical one.
func buildRow(table, id string, params value.Dynamic) value.Dynamic {
	row := value.NewObject()
	row.Set("id", value.Record(table, id))
	if params.Kind() == value.KindObject {
		params.Object().Range(func(key string, v value.Dynamic) bool {
			row.Set(key, v)
			return true
		})
	}
	return value.ObjectValue(row)
}
