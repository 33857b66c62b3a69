package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultBackground is the background selector assigned when a tree is created without one.
const DefaultBackground = "mountains"

type Tree struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	UserID          *int       `json:"user_id"`
	Data            JSONObject `json:"data"`
	BackgroundImage string     `json:"background_image"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// JSONObject is the tree's opaque payload, stored as JSON text. The API never
// inspects its contents. Corrupt or empty stored text scans as an empty object
// rather than failing the read.
type JSONObject map[string]interface{}

func (o *JSONObject) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*o = JSONObject{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONObject: %T", src)
	}

	var m map[string]interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &m) != nil || m == nil {
		*o = JSONObject{}
		return nil
	}
	*o = m
	return nil
}

func (o JSONObject) Value() (driver.Value, error) {
	if o == nil {
		return "{}", nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
