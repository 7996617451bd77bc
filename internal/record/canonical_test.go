package record

import "testing"

func TestChecksum_OrderIndependent(t *testing.T) {
	a := map[string]any{"b": 1, "a": 2}
	b := map[string]any{"a": 2, "b": 1}

	sumA, err := Checksum(a)
	if err != nil {
		t.Fatalf("Checksum(a): %v", err)
	}
	sumB, err := Checksum(b)
	if err != nil {
		t.Fatalf("Checksum(b): %v", err)
	}
	if sumA != sumB {
		t.Errorf("checksums over key-reordered equivalent maps should match: %s != %s", sumA, sumB)
	}
}

func TestChecksum_DifferentContentDiffers(t *testing.T) {
	sumA, _ := Checksum(map[string]any{"a": 1})
	sumB, _ := Checksum(map[string]any{"a": 2})
	if sumA == sumB {
		t.Error("checksums over different content should not match")
	}
}

func TestChecksumRaw_MatchesChecksum(t *testing.T) {
	v := map[string]any{"x": "y"}
	viaStruct, err := Checksum(v)
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	viaRaw, err := ChecksumRaw([]byte(`{"x":"y"}`))
	if err != nil {
		t.Fatalf("ChecksumRaw: %v", err)
	}
	if viaStruct != viaRaw {
		t.Errorf("Checksum and ChecksumRaw should agree: %s != %s", viaStruct, viaRaw)
	}
}
