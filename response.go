package multisig

// Response is a signer's round-two contribution: proof of knowledge of its
// private key under the session challenge and its own commit secret.
type Response struct {
	curve       Curve
	value       Scalar
	initialized bool
}

// NewResponse computes response = secret - challenge·privateKey (mod order).
func NewResponse(secret *CommitSecret, challenge *Challenge, privateKey *PrivateKey) (*Response, error) {
	r := &Response{curve: challenge.curve}
	if err := r.Set(secret, challenge, privateKey); err != nil {
		return nil, err
	}
	return r, nil
}

// NewResponseFromBytes decodes a fixed-width response scalar from src at
// offset. Zero and out-of-range scalars are rejected.
func NewResponseFromBytes(curve Curve, src []byte, offset int) (*Response, error) {
	raw, err := readBytes(src, offset, curve.ScalarSize())
	if err != nil {
		return nil, err
	}
	value, err := curve.ScalarFromBytes(raw)
	if err != nil {
		return nil, err
	}
	if value.IsZero() {
		return nil, ErrScalarZero
	}
	return &Response{curve: curve, value: value, initialized: true}, nil
}

// Set computes the response from the session secret, the challenge and the
// signer's private key. Fails on uninitialized inputs without touching the
// current value.
func (r *Response) Set(secret *CommitSecret, challenge *Challenge, privateKey *PrivateKey) error {
	if !secret.Initialized() || !challenge.Initialized() {
		return ErrNotInitialized
	}
	if privateKey == nil || privateKey.Scalar() == nil {
		return ErrNotInitialized
	}

	// response = secret - challenge * privkey
	cx := challenge.Scalar().Mul(privateKey.Scalar())
	r.value = secret.scalar().Sub(cx)
	r.initialized = true
	cx.Zeroize()
	return nil
}

// Initialized reports whether the response holds a value.
func (r *Response) Initialized() bool {
	return r != nil && r.initialized
}

// Scalar exposes the underlying response scalar.
func (r *Response) Scalar() Scalar { return r.value }

// Serialize writes the fixed-width scalar encoding at offset.
func (r *Response) Serialize(dst []byte, offset int) ([]byte, int, error) {
	if !r.Initialized() {
		return dst, offset, ErrNotInitialized
	}
	dst, next := putBytes(dst, offset, r.value.Bytes())
	return dst, next, nil
}

// Equal reports value equality of two initialized responses.
func (r *Response) Equal(other *Response) bool {
	if !r.Initialized() || !other.Initialized() {
		return false
	}
	return r.value.Equal(other.value)
}

// Clone returns an independent deep copy.
func (r *Response) Clone() (*Response, error) {
	if !r.Initialized() {
		return nil, ErrNotInitialized
	}
	value, err := r.curve.ScalarFromBytes(r.value.Bytes())
	if err != nil {
		return nil, err
	}
	return &Response{curve: r.curve, value: value, initialized: true}, nil
}
