package models

import (
	"reflect"
	"testing"
)

func TestJSONObject_ScanValid(t *testing.T) {
	var o JSONObject
	if err := o.Scan([]byte(`{"a":1,"b":"x"}`)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := JSONObject{"a": float64(1), "b": "x"}
	if !reflect.DeepEqual(o, want) {
		t.Errorf("got %v, want %v", o, want)
	}
}

func TestJSONObject_ScanCorrupt(t *testing.T) {
	// Corrupt or non-object stored text must read as an empty object, not fail.
	for _, src := range []interface{}{[]byte(`{not json`), "", nil, `[1,2,3]`, `null`} {
		var o JSONObject
		if err := o.Scan(src); err != nil {
			t.Fatalf("Scan(%v): %v", src, err)
		}
		if len(o) != 0 || o == nil {
			t.Errorf("Scan(%v): got %v, want empty object", src, o)
		}
	}
}

func TestJSONObject_Value(t *testing.T) {
	v, err := JSONObject{"a": 1}.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != `{"a":1}` {
		t.Errorf("got %v, want {\"a\":1}", v)
	}

	v, err = JSONObject(nil).Value()
	if err != nil {
		t.Fatalf("Value(nil): %v", err)
	}
	if v != "{}" {
		t.Errorf("nil object: got %v, want {}", v)
	}
}

func TestJSONObject_RoundTrip(t *testing.T) {
	in := JSONObject{"members": []interface{}{map[string]interface{}{"name": "gran"}}}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var out JSONObject
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip: got %v, want %v", out, in)
	}
}
