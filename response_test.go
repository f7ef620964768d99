package multisig

import (
	"errors"
	"testing"
)

func TestResponseVerifies(t *testing.T) {
	testCurves(t, func(t *testing.T, curve Curve) {
		f := newRoundFixture(t, curve, 3)
		challenge, err := NewChallenge(curve, f.aggCommit, f.aggPubKey, []byte("response verification"))
		if err != nil {
			t.Fatalf("NewChallenge failed: %v", err)
		}

		for i := range f.privKeys {
			response, err := NewResponse(f.secrets[i], challenge, f.privKeys[i])
			if err != nil {
				t.Fatalf("NewResponse for signer %d failed: %v", i, err)
			}
			if !VerifyResponse(response, challenge, f.pubKeys[i], f.commits[i]) {
				t.Errorf("Honest response from signer %d failed verification", i)
			}
		}
	})
}

func TestResponseWrongKeyFailsVerification(t *testing.T) {
	curve := NewSecp256k1Curve()
	f := newRoundFixture(t, curve, 2)
	challenge, err := NewChallenge(curve, f.aggCommit, f.aggPubKey, []byte("wrong key"))
	if err != nil {
		t.Fatalf("NewChallenge failed: %v", err)
	}

	// Signer 0 responds with signer 1's private key.
	response, err := NewResponse(f.secrets[0], challenge, f.privKeys[1])
	if err != nil {
		t.Fatalf("NewResponse failed: %v", err)
	}
	if VerifyResponse(response, challenge, f.pubKeys[0], f.commits[0]) {
		t.Errorf("Response computed with the wrong private key verified")
	}
}

func TestResponseWrongSecretFailsVerification(t *testing.T) {
	curve := NewEd25519Curve()
	f := newRoundFixture(t, curve, 2)
	challenge, err := NewChallenge(curve, f.aggCommit, f.aggPubKey, []byte("wrong secret"))
	if err != nil {
		t.Fatalf("NewChallenge failed: %v", err)
	}

	// Signer 0 responds with a secret that does not match its commit.
	rogue, err := GenerateCommitSecret(curve)
	if err != nil {
		t.Fatalf("GenerateCommitSecret failed: %v", err)
	}
	response, err := NewResponse(rogue, challenge, f.privKeys[0])
	if err != nil {
		t.Fatalf("NewResponse failed: %v", err)
	}
	if VerifyResponse(response, challenge, f.pubKeys[0], f.commits[0]) {
		t.Errorf("Response over a mismatched commit secret verified")
	}
}

func TestResponseRoundTrip(t *testing.T) {
	testCurves(t, func(t *testing.T, curve Curve) {
		f := newRoundFixture(t, curve, 2)
		challenge, err := NewChallenge(curve, f.aggCommit, f.aggPubKey, []byte("serialize response"))
		if err != nil {
			t.Fatalf("NewChallenge failed: %v", err)
		}
		response, err := NewResponse(f.secrets[0], challenge, f.privKeys[0])
		if err != nil {
			t.Fatalf("NewResponse failed: %v", err)
		}

		buf, next, err := response.Serialize(nil, 0)
		if err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		if next != curve.ScalarSize() {
			t.Fatalf("Serialized width = %d, want %d", next, curve.ScalarSize())
		}

		decoded, err := NewResponseFromBytes(curve, buf, 0)
		if err != nil {
			t.Fatalf("NewResponseFromBytes failed: %v", err)
		}
		if !response.Equal(decoded) {
			t.Errorf("Round-tripped response differs from original")
		}
		if !VerifyResponse(decoded, challenge, f.pubKeys[0], f.commits[0]) {
			t.Errorf("Round-tripped response failed verification")
		}
	})
}

func TestResponseRequiresInitializedInputs(t *testing.T) {
	curve := NewSecp256k1Curve()
	f := newRoundFixture(t, curve, 2)
	challenge, err := NewChallenge(curve, f.aggCommit, f.aggPubKey, []byte("init checks"))
	if err != nil {
		t.Fatalf("NewChallenge failed: %v", err)
	}

	if _, err := NewResponse(&CommitSecret{}, challenge, f.privKeys[0]); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized for uninitialized secret, got %v", err)
	}
	if _, err := NewResponse(f.secrets[0], &Challenge{curve: curve}, f.privKeys[0]); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized for uninitialized challenge, got %v", err)
	}

	// VerifyResponse is a pure predicate: malformed input means false, not panic.
	if VerifyResponse(&Response{curve: curve}, challenge, f.pubKeys[0], f.commits[0]) {
		t.Errorf("Uninitialized response verified")
	}
}
