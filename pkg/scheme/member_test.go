package scheme

import (
	"encoding/json"
	"testing"
)

func TestMemberUnmarshalRejectsMultiKeyObject(t *testing.T) {
	var m Member
	err := json.Unmarshal([]byte(`{"Sphere": {}, "FreeTriangle": {}}`), &m)
	if err == nil {
		t.Fatal("expected an error for a two-key tagged object")
	}
}

func TestMemberUnmarshalRejectsUnknownTag(t *testing.T) {
	var m Member
	err := json.Unmarshal([]byte(`{"Cone": {}}`), &m)
	if err == nil {
		t.Fatal("expected an error for an unknown variant tag")
	}
}

func TestMemberUnmarshalModel(t *testing.T) {
	var m Member
	err := json.Unmarshal([]byte(`{"Model": {"path": "mesh.gltf", "uniform_scale": 2}}`), &m)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m.Model == nil {
		t.Fatal("expected Model to be populated")
	}
	if m.Model.UniformScale != 2 {
		t.Errorf("UniformScale = %f, want 2", m.Model.UniformScale)
	}
}
