package multisig

import (
	"errors"
	"testing"

	"github.com/canopy-network/canopy/lib/crypto"
)

func TestPossessionProofRoundTrip(t *testing.T) {
	testCurves(t, func(t *testing.T, curve Curve) {
		priv, pub, err := GenerateKeyPair(curve)
		if err != nil {
			t.Fatalf("GenerateKeyPair failed: %v", err)
		}

		proof, err := ProvePossession(curve, priv, pub)
		if err != nil {
			t.Fatalf("ProvePossession failed: %v", err)
		}
		if !proof.Verify(curve, pub) {
			t.Errorf("Valid possession proof failed verification")
		}

		buf, _, err := proof.Serialize(nil, 0)
		if err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		decoded, err := NewPossessionProofFromBytes(curve, buf, 0)
		if err != nil {
			t.Fatalf("NewPossessionProofFromBytes failed: %v", err)
		}
		if !decoded.Verify(curve, pub) {
			t.Errorf("Round-tripped possession proof failed verification")
		}
	})
}

func TestPossessionProofWrongKeyFails(t *testing.T) {
	curve := NewSecp256k1Curve()
	priv, pub, err := GenerateKeyPair(curve)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	_, otherPub, err := GenerateKeyPair(curve)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	proof, err := ProvePossession(curve, priv, pub)
	if err != nil {
		t.Fatalf("ProvePossession failed: %v", err)
	}
	if proof.Verify(curve, otherPub) {
		t.Errorf("Possession proof verified against a key the prover does not hold")
	}
}

func TestPossessionProofHashAlgorithmBinding(t *testing.T) {
	curve := NewEd25519Curve()
	priv, pub, err := GenerateKeyPair(curve)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	proof, err := ProvePossessionWithHash(curve, priv, pub, BLAKE2B)
	if err != nil {
		t.Fatalf("ProvePossessionWithHash failed: %v", err)
	}
	if !proof.VerifyWithHash(curve, pub, BLAKE2B) {
		t.Errorf("Proof failed verification under its own hash algorithm")
	}
	if proof.VerifyWithHash(curve, pub, SHAKE256) {
		t.Errorf("Proof verified under a different hash algorithm")
	}
}

func TestSignerSetEnrollment(t *testing.T) {
	curve := NewSecp256k1Curve()
	handler := &recordingAuditHandler{}
	set := NewSignerSet(curve, WithSignerSetAudit(handler))

	const members = 3
	for i := 0; i < members; i++ {
		priv, pub, err := GenerateKeyPair(curve)
		if err != nil {
			t.Fatalf("GenerateKeyPair failed: %v", err)
		}
		proof, err := ProvePossession(curve, priv, pub)
		if err != nil {
			t.Fatalf("ProvePossession failed: %v", err)
		}
		idx, err := set.Enroll(pub, proof)
		if err != nil {
			t.Fatalf("Enroll failed: %v", err)
		}
		if idx != i {
			t.Errorf("Enrollment index = %d, want %d", idx, i)
		}
	}
	if set.Len() != members {
		t.Fatalf("Len = %d, want %d", set.Len(), members)
	}

	if seen := handler.typesSeen(); seen[AuditEventSignerEnrolled] != members {
		t.Errorf("Enrollment events = %d, want %d", seen[AuditEventSignerEnrolled], members)
	}

	// The enrolled keys feed straight into a signing round.
	if _, err := set.AggregatedPubKey(); err != nil {
		t.Errorf("AggregatedPubKey failed: %v", err)
	}
	if err := ValidateSignerSet(set.PublicKeys()); err != nil {
		t.Errorf("ValidateSignerSet on enrolled keys failed: %v", err)
	}
}

func TestSignerSetRejectsBadEnrollment(t *testing.T) {
	curve := NewEd25519Curve()
	set := NewSignerSet(curve)

	priv, pub, err := GenerateKeyPair(curve)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	proof, err := ProvePossession(curve, priv, pub)
	if err != nil {
		t.Fatalf("ProvePossession failed: %v", err)
	}

	t.Run("ProofForDifferentKey", func(t *testing.T) {
		_, otherPub, err := GenerateKeyPair(curve)
		if err != nil {
			t.Fatalf("GenerateKeyPair failed: %v", err)
		}
		if _, err := set.Enroll(otherPub, proof); !errors.Is(err, ErrPossessionProofInvalid) {
			t.Errorf("Expected ErrPossessionProofInvalid, got %v", err)
		}
	})

	t.Run("DuplicateKey", func(t *testing.T) {
		if _, err := set.Enroll(pub, proof); err != nil {
			t.Fatalf("First enrollment failed: %v", err)
		}
		if _, err := set.Enroll(pub, proof); !IsErrorCategory(err, ErrorCategoryEnrollment) {
			t.Errorf("Expected enrollment error for duplicate key, got %v", err)
		}
	})
}

func TestValidatorIdentityBinding(t *testing.T) {
	curve := NewSecp256k1Curve()
	priv, pub, err := GenerateKeyPair(curve)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	blsKeyInterface, err := crypto.NewBLS12381PrivateKey()
	if err != nil {
		t.Fatalf("Failed to generate BLS key: %v", err)
	}
	blsKey, ok := blsKeyInterface.(*crypto.BLS12381PrivateKey)
	if !ok {
		t.Fatalf("Failed to cast BLS key to correct type")
	}

	binding, err := BindValidatorIdentity(curve, priv, pub, blsKey)
	if err != nil {
		t.Fatalf("BindValidatorIdentity failed: %v", err)
	}
	if !binding.Verify(curve, pub) {
		t.Errorf("Valid identity binding failed verification")
	}

	t.Run("WrongSchnorrKey", func(t *testing.T) {
		_, otherPub, err := GenerateKeyPair(curve)
		if err != nil {
			t.Fatalf("GenerateKeyPair failed: %v", err)
		}
		if binding.Verify(curve, otherPub) {
			t.Errorf("Binding verified against an unrelated Schnorr key")
		}
	})

	t.Run("SwappedBLSIdentity", func(t *testing.T) {
		otherBLSInterface, err := crypto.NewBLS12381PrivateKey()
		if err != nil {
			t.Fatalf("Failed to generate BLS key: %v", err)
		}
		otherBLS, ok := otherBLSInterface.(*crypto.BLS12381PrivateKey)
		if !ok {
			t.Fatalf("Failed to cast BLS key to correct type")
		}
		tampered := &IdentityBinding{
			BLSPublicKey: otherBLS.PublicKey().Bytes(),
			Proof:        binding.Proof,
		}
		if tampered.Verify(curve, pub) {
			t.Errorf("Binding verified against a substituted validator identity")
		}
	})

	t.Run("EnrollValidator", func(t *testing.T) {
		set := NewSignerSet(curve)
		proof, err := ProvePossession(curve, priv, pub)
		if err != nil {
			t.Fatalf("ProvePossession failed: %v", err)
		}
		idx, err := set.EnrollValidator(pub, proof, binding)
		if err != nil {
			t.Fatalf("EnrollValidator failed: %v", err)
		}
		member, err := set.Member(idx)
		if err != nil {
			t.Fatalf("Member failed: %v", err)
		}
		if member.Binding == nil {
			t.Errorf("Enrolled member is missing its identity binding")
		}
	})
}
