package multisig

import (
	"errors"
	"testing"
)

func TestKeyPairRoundTrip(t *testing.T) {
	testCurves(t, func(t *testing.T, curve Curve) {
		priv, pub, err := GenerateKeyPair(curve)
		if err != nil {
			t.Fatalf("GenerateKeyPair failed: %v", err)
		}

		privBuf, _, err := priv.Serialize(nil, 0)
		if err != nil {
			t.Fatalf("PrivateKey Serialize failed: %v", err)
		}
		privDecoded, err := NewPrivateKeyFromBytes(curve, privBuf, 0)
		if err != nil {
			t.Fatalf("NewPrivateKeyFromBytes failed: %v", err)
		}
		pubDerived, err := privDecoded.Public()
		if err != nil {
			t.Fatalf("Public failed: %v", err)
		}
		if !pub.Equal(pubDerived) {
			t.Errorf("Public key derived from round-tripped private key differs")
		}

		pubBuf, _, err := pub.Serialize(nil, 0)
		if err != nil {
			t.Fatalf("PublicKey Serialize failed: %v", err)
		}
		pubDecoded, err := NewPublicKeyFromBytes(curve, pubBuf, 0)
		if err != nil {
			t.Fatalf("NewPublicKeyFromBytes failed: %v", err)
		}
		if !pub.Equal(pubDecoded) {
			t.Errorf("Round-tripped public key differs from original")
		}
	})
}

func TestPrivateKeyRejectsZero(t *testing.T) {
	testCurves(t, func(t *testing.T, curve Curve) {
		zero := make([]byte, curve.ScalarSize())
		if _, err := NewPrivateKeyFromBytes(curve, zero, 0); !errors.Is(err, ErrScalarZero) {
			t.Errorf("Expected ErrScalarZero, got %v", err)
		}
	})
}

func TestPublicKeyClone(t *testing.T) {
	curve := NewSecp256k1Curve()
	_, pub, err := GenerateKeyPair(curve)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	clone, err := pub.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if !pub.Equal(clone) {
		t.Errorf("Cloned public key differs from original")
	}
}

func TestPrivateKeyZeroize(t *testing.T) {
	curve := NewEd25519Curve()
	priv, _, err := GenerateKeyPair(curve)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	priv.Zeroize()
	if !priv.Scalar().IsZero() {
		t.Errorf("Private key scalar not cleared after Zeroize")
	}
}
