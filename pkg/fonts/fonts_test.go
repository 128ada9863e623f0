package fonts

import "testing"

func TestFace(t *testing.T) {
	f, err := Face(14)
	if err != nil {
		t.Fatalf("Face() error: %v", err)
	}
	if f == nil {
		t.Fatal("Face() returned nil face")
	}

	// Same size returns the cached face
	f2, err := Face(14)
	if err != nil {
		t.Fatalf("Face() error: %v", err)
	}
	if f != f2 {
		t.Error("Face() should return cached face for same size")
	}

	// Different size returns a different face
	f3, err := Face(24)
	if err != nil {
		t.Fatalf("Face() error: %v", err)
	}
	if f == f3 {
		t.Error("Face() should return distinct faces for distinct sizes")
	}
}

func TestBoldFace(t *testing.T) {
	regular, err := Face(14)
	if err != nil {
		t.Fatalf("Face() error: %v", err)
	}
	bold, err := BoldFace(14)
	if err != nil {
		t.Fatalf("BoldFace() error: %v", err)
	}
	if regular == bold {
		t.Error("BoldFace() should be distinct from Face() at same size")
	}
}

func TestTTFData(t *testing.T) {
	if len(RegularTTF()) == 0 {
		t.Error("RegularTTF() should not be empty")
	}
	if len(BoldTTF()) == 0 {
		t.Error("BoldTTF() should not be empty")
	}
}

func TestRegularBase64(t *testing.T) {
	b64 := RegularBase64()
	if b64 == "" {
		t.Fatal("RegularBase64() should not be empty")
	}
	// Cached on second call
	if RegularBase64() != b64 {
		t.Error("RegularBase64() should be stable")
	}
}
