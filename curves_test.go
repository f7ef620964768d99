package multisig

import (
	"bytes"
	"errors"
	"testing"
)

func testCurves(t *testing.T, fn func(t *testing.T, curve Curve)) {
	t.Helper()
	for _, curveType := range []CurveType{Secp256k1, Ed25519} {
		curve, err := NewCurve(curveType)
		if err != nil {
			t.Fatalf("Failed to create curve %s: %v", curveType, err)
		}
		t.Run(string(curveType), func(t *testing.T) {
			fn(t, curve)
		})
	}
}

func TestScalarRoundTrip(t *testing.T) {
	testCurves(t, func(t *testing.T, curve Curve) {
		scalar, err := curve.ScalarRandom()
		if err != nil {
			t.Fatalf("ScalarRandom failed: %v", err)
		}

		encoded := scalar.Bytes()
		if len(encoded) != curve.ScalarSize() {
			t.Fatalf("Scalar encoding length = %d, want %d", len(encoded), curve.ScalarSize())
		}

		decoded, err := curve.ScalarFromBytes(encoded)
		if err != nil {
			t.Fatalf("ScalarFromBytes failed: %v", err)
		}
		if !scalar.Equal(decoded) {
			t.Errorf("Round-tripped scalar differs from original")
		}
	})
}

func TestScalarFromBytesRejectsWrongLength(t *testing.T) {
	testCurves(t, func(t *testing.T, curve Curve) {
		if _, err := curve.ScalarFromBytes(make([]byte, curve.ScalarSize()-1)); err == nil {
			t.Errorf("Expected error for short scalar encoding")
		}
		if _, err := curve.ScalarFromBytes(make([]byte, curve.ScalarSize()+1)); err == nil {
			t.Errorf("Expected error for long scalar encoding")
		}
	})
}

func TestScalarArithmetic(t *testing.T) {
	testCurves(t, func(t *testing.T, curve Curve) {
		a, err := curve.ScalarRandom()
		if err != nil {
			t.Fatalf("ScalarRandom failed: %v", err)
		}
		b, err := curve.ScalarRandom()
		if err != nil {
			t.Fatalf("ScalarRandom failed: %v", err)
		}

		// (a + b) - b == a
		sum := a.Add(b)
		back := sum.Sub(b)
		if !back.Equal(a) {
			t.Errorf("(a + b) - b != a")
		}

		// a + (-a) == 0
		if !a.Add(a.Negate()).IsZero() {
			t.Errorf("a + (-a) != 0")
		}

		// 0 * b == 0
		if !curve.ScalarZero().Mul(b).IsZero() {
			t.Errorf("0 * b != 0")
		}
	})
}

func TestPointRoundTrip(t *testing.T) {
	testCurves(t, func(t *testing.T, curve Curve) {
		scalar, err := curve.ScalarRandom()
		if err != nil {
			t.Fatalf("ScalarRandom failed: %v", err)
		}
		point := curve.BasePoint().Mul(scalar)

		encoded := point.Bytes()
		if len(encoded) != curve.PointSize() {
			t.Fatalf("Point encoding length = %d, want %d", len(encoded), curve.PointSize())
		}

		decoded, err := curve.PointFromBytes(encoded)
		if err != nil {
			t.Fatalf("PointFromBytes failed: %v", err)
		}
		if !point.Equal(decoded) {
			t.Errorf("Round-tripped point differs from original")
		}
	})
}

func TestPointGroupLaws(t *testing.T) {
	testCurves(t, func(t *testing.T, curve Curve) {
		a, _ := curve.ScalarRandom()
		b, _ := curve.ScalarRandom()
		pa := curve.BasePoint().Mul(a)
		pb := curve.BasePoint().Mul(b)

		// a*G + b*G == (a+b)*G
		left := pa.Add(pb)
		right := curve.BasePoint().Mul(a.Add(b))
		if !left.Equal(right) {
			t.Errorf("a*G + b*G != (a+b)*G")
		}

		// P + (-P) == identity
		if !pa.Add(pa.Negate()).IsIdentity() {
			t.Errorf("P + (-P) is not the identity")
		}

		// P - P == identity
		if !pa.Sub(pa).IsIdentity() {
			t.Errorf("P - P is not the identity")
		}
	})
}

func TestScalarFromUniformBytes(t *testing.T) {
	testCurves(t, func(t *testing.T, curve Curve) {
		uniform := make([]byte, 64)
		for i := range uniform {
			uniform[i] = byte(i * 7)
		}

		s1, err := curve.ScalarFromUniformBytes(uniform)
		if err != nil {
			t.Fatalf("ScalarFromUniformBytes failed: %v", err)
		}
		s2, err := curve.ScalarFromUniformBytes(uniform)
		if err != nil {
			t.Fatalf("ScalarFromUniformBytes failed: %v", err)
		}
		if !s1.Equal(s2) {
			t.Errorf("Same uniform bytes produced different scalars")
		}
	})
}

func TestScalarZeroize(t *testing.T) {
	testCurves(t, func(t *testing.T, curve Curve) {
		scalar, err := curve.ScalarRandom()
		if err != nil {
			t.Fatalf("ScalarRandom failed: %v", err)
		}
		scalar.Zeroize()
		if !scalar.IsZero() {
			t.Errorf("Scalar not zero after Zeroize")
		}
		if !bytes.Equal(scalar.Bytes(), make([]byte, curve.ScalarSize())) {
			t.Errorf("Scalar bytes not cleared after Zeroize")
		}
	})
}

func TestNewCurveUnsupported(t *testing.T) {
	if _, err := NewCurve("p256"); err == nil {
		t.Errorf("Expected error for unsupported curve type")
	}
}

func TestSerializeHelpers(t *testing.T) {
	t.Run("PutBytesGrowsBuffer", func(t *testing.T) {
		buf, next := putBytes(nil, 0, []byte{1, 2, 3})
		if next != 3 {
			t.Fatalf("next offset = %d, want 3", next)
		}
		buf, next = putBytes(buf, next, []byte{4, 5})
		if next != 5 {
			t.Fatalf("next offset = %d, want 5", next)
		}
		if !bytes.Equal(buf, []byte{1, 2, 3, 4, 5}) {
			t.Errorf("buffer = %v, want [1 2 3 4 5]", buf)
		}
	})

	t.Run("PutBytesAtInteriorOffset", func(t *testing.T) {
		buf := []byte{9, 9, 9, 9}
		buf, next := putBytes(buf, 1, []byte{1, 2})
		if next != 3 {
			t.Fatalf("next offset = %d, want 3", next)
		}
		if !bytes.Equal(buf, []byte{9, 1, 2, 9}) {
			t.Errorf("buffer = %v, want [9 1 2 9]", buf)
		}
	})

	t.Run("ReadBytesTooShort", func(t *testing.T) {
		if _, err := readBytes([]byte{1, 2}, 0, 3); !errors.Is(err, ErrBufferTooShort) {
			t.Errorf("Expected ErrBufferTooShort, got %v", err)
		}
		if _, err := readBytes([]byte{1, 2, 3}, 2, 2); !errors.Is(err, ErrBufferTooShort) {
			t.Errorf("Expected ErrBufferTooShort for offset past end, got %v", err)
		}
	})

	t.Run("SecureCompare", func(t *testing.T) {
		if !SecureCompare([]byte{1, 2, 3}, []byte{1, 2, 3}) {
			t.Errorf("Equal slices compared unequal")
		}
		if SecureCompare([]byte{1, 2, 3}, []byte{1, 2, 4}) {
			t.Errorf("Different slices compared equal")
		}
		if SecureCompare([]byte{1, 2}, []byte{1, 2, 3}) {
			t.Errorf("Different-length slices compared equal")
		}
	})
}
