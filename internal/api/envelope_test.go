package api

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestOKCarriesPayload(t *testing.T) {
	env := OK(map[string]string{"id": "abc"})
	if !env.Success || env.Error != "" {
		t.Fatalf("unexpected envelope: %#v", env)
	}

	var decoded map[string]string
	if err := env.Decode(&decoded); err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if decoded["id"] != "abc" {
		t.Fatalf("unexpected payload: %#v", decoded)
	}
}

func TestOKWithoutPayloadOmitsData(t *testing.T) {
	env := OK(nil)
	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	if string(raw) != `{"success":true}` {
		t.Fatalf("unexpected wire shape %s", raw)
	}
}

func TestOKTypedNilPointerOmitsData(t *testing.T) {
	type payload struct{ ID string }
	var p *payload
	env := OK(p)
	if !env.Success {
		t.Fatalf("unexpected envelope: %#v", env)
	}
	if len(env.Data) != 0 {
		t.Fatalf("typed nil produced data %q", env.Data)
	}
}

func TestFailCarriesMessage(t *testing.T) {
	env := Fail(errors.New("client not found"))
	if env.Success {
		t.Fatal("expected failed envelope")
	}
	if env.Error != "client not found" {
		t.Fatalf("unexpected error %q", env.Error)
	}
	if err := env.Err(); err == nil || err.Error() != "client not found" {
		t.Fatalf("unexpected Err(): %v", err)
	}
}

func TestDecodeRefusesFailedEnvelope(t *testing.T) {
	env := Fail(errors.New("boom"))
	var decoded struct{}
	if err := env.Decode(&decoded); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom error, got %v", err)
	}
}
