package store

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"vanitybot/pkg/surreal"
)

// Querier is the part of surreal.Client used by SurrealStore.
type Querier interface {
	Query(ctx context.Context, sql string, vars map[string]interface{}) (interface{}, error)
}

var _ Querier = (*surreal.Client)(nil)

type SurrealStore struct {
	client Querier
	table  string
}

func NewSurrealStore(client Querier, table string) (*SurrealStore, error) {
	if err := surreal.ValidateIdentifier(table); err != nil {
		return nil, err
	}

	store := &SurrealStore{
		client: client,
		table:  table,
	}
	if err := store.Init(); err != nil {
		// Schema may already exist or the DB may come up later
		log.Printf("[Store] Warning: Failed to initialize SurrealDB schema: %v", err)
	}
	return store, nil
}

func (s *SurrealStore) Init() error {
	query := fmt.Sprintf(`
		DEFINE TABLE IF NOT EXISTS %[1]s SCHEMAFULL;
		DEFINE FIELD IF NOT EXISTS user_id ON %[1]s TYPE string;
		DEFINE FIELD IF NOT EXISTS role_id ON %[1]s TYPE string;
		DEFINE FIELD IF NOT EXISTS updated_at ON %[1]s TYPE int;
	`, s.table)
	_, err := s.client.Query(context.Background(), query, map[string]interface{}{})
	return err
}

func (s *SurrealStore) Get(userID string) (string, bool, error) {
	query := `SELECT role_id FROM type::thing($table, $user_id);`
	result, err := s.client.Query(context.Background(), query, map[string]interface{}{
		"table":   s.table,
		"user_id": userID,
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to get assignment for %s: %w", userID, err)
	}

	for _, row := range rowsFrom(result) {
		if roleID := stringField(row, "role_id"); roleID != "" {
			return roleID, true, nil
		}
	}
	return "", false, nil
}

func (s *SurrealStore) Put(userID, roleID string) error {
	if err := validateRoleID(roleID); err != nil {
		return err
	}

	query := `UPSERT type::thing($table, $user_id) CONTENT { user_id: $user_id, role_id: $role_id, updated_at: time::unix() };`
	_, err := s.client.Query(context.Background(), query, map[string]interface{}{
		"table":   s.table,
		"user_id": userID,
		"role_id": roleID,
	})
	if err != nil {
		return fmt.Errorf("failed to save assignment for %s: %w", userID, err)
	}
	return nil
}

func (s *SurrealStore) Delete(userID string) error {
	query := `DELETE type::thing($table, $user_id);`
	_, err := s.client.Query(context.Background(), query, map[string]interface{}{
		"table":   s.table,
		"user_id": userID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete assignment for %s: %w", userID, err)
	}
	return nil
}

func (s *SurrealStore) All() (map[string]string, error) {
	query := fmt.Sprintf(`SELECT user_id, role_id FROM %s;`, s.table)
	result, err := s.client.Query(context.Background(), query, map[string]interface{}{})
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	out := make(map[string]string)
	for _, row := range rowsFrom(result) {
		userID := stringField(row, "user_id")
		roleID := stringField(row, "role_id")
		if userID == "" || roleID == "" {
			continue
		}
		out[userID] = roleID
	}
	return out, nil
}

// rowsFrom flattens a query result into record maps. Depending on the
// driver version rows arrive bare or wrapped in {"result": [...]}.
func rowsFrom(result interface{}) []map[string]interface{} {
	var rows []map[string]interface{}

	switch v := result.(type) {
	case []interface{}:
		for _, item := range v {
			rows = append(rows, rowsFrom(item)...)
		}
	case []map[string]interface{}:
		rows = append(rows, v...)
	case map[string]interface{}:
		if nested, ok := v["result"]; ok {
			return rowsFrom(nested)
		}
		rows = append(rows, v)
	}

	return rows
}

func stringField(row map[string]interface{}, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return ""
}
