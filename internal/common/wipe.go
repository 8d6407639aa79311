package common

// WipeByteArray overwrites b with zeroes. Use it for passwords once they
// have been sent.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
